package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/services"
	"reel/internal/services/ffmpeg"
	"reel/internal/testsupport"
)

type fakeSheetRenderer struct {
	rendered  []string
	durations []float64
	fail      map[string]error
}

func (f *fakeSheetRenderer) Sheet(_ context.Context, input, output string, duration float64, _ ffmpeg.SheetParams, _ ffmpeg.ProgressFunc) error {
	if err := f.fail[input]; err != nil {
		return err
	}
	f.rendered = append(f.rendered, output)
	f.durations = append(f.durations, duration)
	return os.WriteFile(output, []byte("png"), 0o644)
}

func newTestSheetRunner(t *testing.T, renderer ffmpeg.SheetRenderer, store *history.Store) *SheetRunner {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	runner, err := NewSheetRunner(cfg, SheetParamsFromConfig(cfg.Thumbs), renderer, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSheetRunner: %v", err)
	}
	runner.DisableLock = true
	return runner
}

func TestSheetRunRendersAndClonesTimestamps(t *testing.T) {
	stubProbe(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, input, 64)
	stamp := time.Date(2022, 9, 10, 7, 0, 0, 0, time.UTC)
	if err := os.Chtimes(input, stamp, stamp); err != nil {
		t.Fatalf("set input times: %v", err)
	}

	renderer := &fakeSheetRenderer{}
	runner := newTestSheetRunner(t, renderer, nil)

	summary, err := runner.Run(context.Background(), []string{input})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !summary.OK() || summary.Succeeded() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	result := summary.Results[0]
	want := filepath.Join(dir, "movie.sheet.png")
	if result.Output != want || result.Status != StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Seconds != 10.0 {
		t.Fatalf("expected probed duration on result, got %v", result.Seconds)
	}
	if len(renderer.durations) != 1 || renderer.durations[0] != 10.0 {
		t.Fatalf("renderer saw wrong duration: %v", renderer.durations)
	}

	info, err := os.Stat(want)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Fatalf("sheet mtime = %v, want input's %v", info.ModTime(), stamp)
	}
}

func TestSheetRunResolvesCollisions(t *testing.T) {
	stubProbe(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, input, 1)

	runner := newTestSheetRunner(t, &fakeSheetRenderer{}, nil)
	ctx := context.Background()
	if _, err := runner.Run(ctx, []string{input}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	summary, err := runner.Run(ctx, []string{input})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := summary.Results[0].Output; got != filepath.Join(dir, "movie (1).sheet.png") {
		t.Fatalf("second run output = %q", got)
	}
}

func TestSheetRunRequiresUsableProbe(t *testing.T) {
	orig := inspectProbe
	inspectProbe = func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("ffprobe missing")
	}
	t.Cleanup(func() { inspectProbe = orig })

	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, input, 1)

	renderer := &fakeSheetRenderer{}
	runner := newTestSheetRunner(t, renderer, nil)
	summary, err := runner.Run(context.Background(), []string{input})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Results[0].Status != StatusRenderFailed {
		t.Fatalf("unexpected status: %+v", summary.Results[0])
	}
	if !errors.Is(summary.Results[0].Err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", summary.Results[0].Err)
	}
	if len(renderer.rendered) != 0 {
		t.Fatal("renderer should not run without a probed duration")
	}
}

func TestSheetRunRejectsZeroDuration(t *testing.T) {
	orig := inspectProbe
	inspectProbe = func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}, nil
	}
	t.Cleanup(func() { inspectProbe = orig })

	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, input, 1)

	runner := newTestSheetRunner(t, &fakeSheetRenderer{}, nil)
	summary, err := runner.Run(context.Background(), []string{input})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Results[0].Status != StatusRenderFailed {
		t.Fatalf("unexpected status: %+v", summary.Results[0])
	}
	if !errors.Is(summary.Results[0].Err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", summary.Results[0].Err)
	}
}

func TestSheetRunContinuesPastRenderFailure(t *testing.T) {
	stubProbe(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.mp4")
	good := filepath.Join(dir, "good.mp4")
	testsupport.WriteFile(t, bad, 1)
	testsupport.WriteFile(t, good, 1)

	renderer := &fakeSheetRenderer{fail: map[string]error{bad: errors.New("exit status 1")}}
	runner := newTestSheetRunner(t, renderer, nil)

	summary, err := runner.Run(context.Background(), []string{bad, good})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed() != 1 || summary.Succeeded() != 1 {
		t.Fatalf("unexpected counts: %d failed, %d succeeded", summary.Failed(), summary.Succeeded())
	}
	if summary.Results[0].Status != StatusRenderFailed {
		t.Fatalf("unexpected first status: %+v", summary.Results[0])
	}
	if summary.Results[1].Status != StatusOK {
		t.Fatalf("expected second file to succeed: %+v", summary.Results[1])
	}
}

func TestSheetRunRecordsHistory(t *testing.T) {
	stubProbe(t)
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer store.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, input, 1)

	runner, err := NewSheetRunner(cfg, SheetParamsFromConfig(cfg.Thumbs), &fakeSheetRenderer{}, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSheetRunner: %v", err)
	}
	runner.DisableLock = true

	ctx := context.Background()
	summary, err := runner.Run(ctx, []string{input})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Variant != "thumbs" {
		t.Fatalf("unexpected recorded runs: %#v", runs)
	}
	files, err := store.FilesForRun(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("FilesForRun: %v", err)
	}
	if len(files) != 1 || files[0].Seconds != 10.0 {
		t.Fatalf("expected media duration in history, got %#v", files)
	}
}
