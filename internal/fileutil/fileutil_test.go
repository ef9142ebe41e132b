package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reel/internal/fileutil"
)

func TestCloneTimesOverridesDestinationTimes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "input.mp4")
	dst := filepath.Join(dir, "output.mkv")
	for _, p := range []string{src, dst} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	want := time.Date(2021, 6, 15, 12, 30, 0, 0, time.UTC)
	if err := os.Chtimes(src, want, want); err != nil {
		t.Fatalf("set source times: %v", err)
	}

	if err := fileutil.CloneTimes(src, dst); err != nil {
		t.Fatalf("CloneTimes: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if !info.ModTime().Equal(want) {
		t.Fatalf("destination mtime = %v, want %v", info.ModTime(), want)
	}
}

func TestCloneTimesFailsWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.mkv")
	if err := os.WriteFile(dst, []byte("x"), 0o644); err != nil {
		t.Fatalf("write destination: %v", err)
	}
	if err := fileutil.CloneTimes(filepath.Join(dir, "missing.mp4"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}
