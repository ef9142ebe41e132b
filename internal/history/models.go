package history

import "time"

// Run is one recorded batch invocation.
type Run struct {
	ID         string
	Variant    string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Failed     int
}

// FileRecord is the per-file outcome stored under a run. Seconds is the
// media duration reported by ffprobe (0 when unknown); WallSeconds is the
// time spent processing the file.
type FileRecord struct {
	Input       string
	Output      string
	Status      string
	Error       string
	Seconds     float64
	WallSeconds float64
}
