package ffprobe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
			{CodecType: "subtitle"},
		},
		Format: Format{Duration: "123.45"},
	}
	if !result.HasVideo() {
		t.Fatal("expected video stream to be detected")
	}
	if result.StreamCount("audio") != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.StreamCount("audio"))
	}
	if result.StreamCount("subtitle") != 1 {
		t.Fatalf("expected 1 subtitle stream, got %d", result.StreamCount("subtitle"))
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleMissingData(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if result.HasVideo() {
		t.Fatal("expected no video stream")
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
}

func TestInspectParsesJSON(t *testing.T) {
	setHelperCommand(t, "json")

	result, err := Inspect(context.Background(), "ffprobe", "/videos/movie.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if !result.HasVideo() {
		t.Fatal("expected parsed result to contain a video stream")
	}
	if result.Format.FormatName != "matroska,webm" {
		t.Fatalf("unexpected format name: %q", result.Format.FormatName)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectReportsToolFailure(t *testing.T) {
	setHelperCommand(t, "failure")

	if _, err := Inspect(context.Background(), "ffprobe", "/videos/broken.mp4"); err == nil {
		t.Fatal("expected error when ffprobe exits nonzero")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "json":
		fmt.Println(`{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"filename":"/videos/movie.mp4","nb_streams":2,"duration":"42.0","format_name":"matroska,webm"}}`)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "moov atom not found")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
