package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediapick/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "video-filter", "ffmpeg", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"video-filter", "ffmpeg", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err)
	}
}

func TestHintFollowsMarker(t *testing.T) {
	if services.Hint(nil) != "" {
		t.Fatal("expected empty hint for nil error")
	}
	toolErr := services.Wrap(services.ErrExternalTool, "persist", "save", "", nil)
	if !strings.Contains(services.Hint(toolErr), "mediapick check") {
		t.Fatalf("unexpected hint for tool error: %q", services.Hint(toolErr))
	}
	if services.Hint(errors.New("other")) != "retry the selection" {
		t.Fatalf("unexpected default hint: %q", services.Hint(errors.New("other")))
	}
}
