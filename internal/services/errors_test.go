package services_test

import (
	"errors"
	"testing"

	"reel/internal/services"
)

func TestWrapTagsMarkerAndPreservesCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "encode", "pass 2", "ffmpeg failed", cause)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be detectable: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved: %v", err)
	}
	want := "external tool error: encode: pass 2: ffmpeg failed: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err, want)
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if err.Error() != "external tool error: service failure" {
		t.Fatalf("unexpected message: %q", err)
	}
}
