package ffprobe

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", Width: 1920, Height: 1080},
		},
		Format: Format{Duration: "12.5"},
	}
	if !result.HasVideo() {
		t.Fatal("expected a video stream")
	}
	if w, h := result.Dimensions(); w != 1920 || h != 1080 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
	if result.DurationSeconds() != 12.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.ThumbnailOffset() != time.Second {
		t.Fatalf("unexpected thumbnail offset: %v", result.ThumbnailOffset())
	}
}

func TestThumbnailOffsetForShortAndBrokenClips(t *testing.T) {
	short := Result{Format: Format{Duration: "1.0"}}
	if short.ThumbnailOffset() != 500*time.Millisecond {
		t.Fatalf("expected midpoint for short clip, got %v", short.ThumbnailOffset())
	}
	broken := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(broken.DurationSeconds()) {
		t.Fatalf("expected NaN duration, got %v", broken.DurationSeconds())
	}
	if broken.ThumbnailOffset() != 0 {
		t.Fatalf("expected zero offset for unknown duration, got %v", broken.ThumbnailOffset())
	}
	if (Result{}).HasVideo() {
		t.Fatal("expected no video stream")
	}
}

func TestInspectDecodesOutput(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	result, err := Inspect(context.Background(), "ffprobe", "/clips/a.mov")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if w, h := result.Dimensions(); w != 640 || h != 360 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, `{"streams":[{"index":0,"codec_type":"video","width":640,"height":360}],"format":{"duration":"3.0"}}`)
	os.Exit(0)
}
