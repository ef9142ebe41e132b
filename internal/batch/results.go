package batch

import "time"

// Status classifies the outcome of one file's job.
type Status string

const (
	StatusOK              Status = "ok"
	StatusInputMissing    Status = "input_missing"
	StatusResolveFailed   Status = "resolve_failed"
	StatusEncodeFailed    Status = "encode_failed"
	StatusRenderFailed    Status = "render_failed"
	StatusTimestampFailed Status = "timestamp_failed"
)

// Result is the per-file record collected by the runner. Failures are always
// file-scoped; the batch keeps going.
type Result struct {
	Input    string
	Output   string
	Status   Status
	Err      error
	Duration time.Duration
	Seconds  float64 // input duration reported by ffprobe, 0 when unknown
}

// Failed reports whether the file counts against the batch exit status.
// A timestamp-copy failure leaves a usable output behind and does not.
func (r Result) Failed() bool {
	switch r.Status {
	case StatusInputMissing, StatusResolveFailed, StatusEncodeFailed, StatusRenderFailed:
		return true
	default:
		return false
	}
}

// Summary aggregates a whole batch run.
type Summary struct {
	Variant string
	RunID   string
	Results []Result
}

// Succeeded counts files that produced a usable output.
func (s Summary) Succeeded() int {
	count := 0
	for _, result := range s.Results {
		if !result.Failed() {
			count++
		}
	}
	return count
}

// Failed counts files without a usable output.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// OK reports whether every file in the batch produced a usable output.
func (s Summary) OK() bool {
	return s.Failed() == 0
}
