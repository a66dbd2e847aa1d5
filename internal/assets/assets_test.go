package assets

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
)

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.New(6, 4, color.NRGBA{R: 10, G: 200, B: 30, A: 255}), path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func TestClassifierDetectsGIF(t *testing.T) {
	dir := t.TempDir()
	gifPath := writeImage(t, dir, "anim.gif")
	pngPath := writeImage(t, dir, "still.png")
	c := NewClassifier()
	ctx := context.Background()

	if animated, err := c.IsAnimated(ctx, media.Photo{Asset: &media.AssetRef{Path: gifPath}}); err != nil || !animated {
		t.Fatalf("expected sniffed gif to be animated, got %v err=%v", animated, err)
	}
	if animated, err := c.IsAnimated(ctx, media.Photo{Asset: &media.AssetRef{Path: pngPath}}); err != nil || animated {
		t.Fatalf("expected png to be still, got %v err=%v", animated, err)
	}
	if animated, _ := c.IsAnimated(ctx, media.Photo{Asset: &media.AssetRef{Path: pngPath, ContentType: "image/GIF"}}); !animated {
		t.Fatal("expected recorded content type to be trusted")
	}
	if animated, err := c.IsAnimated(ctx, media.Photo{}); err != nil || animated {
		t.Fatal("expected camera capture without asset to be still")
	}
	if _, err := c.IsAnimated(ctx, media.Photo{Asset: &media.AssetRef{Path: filepath.Join(dir, "gone.gif")}}); err == nil {
		t.Fatal("expected error for missing asset")
	}
}

func TestLoadLibraryKeepsOrderAndProvenance(t *testing.T) {
	dir := t.TempDir()
	first := writeImage(t, dir, "a.png")
	second := writeImage(t, dir, "b.gif")

	loader := NewLoader("", "", logging.NewNop())
	batch, err := loader.LoadLibrary(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("LoadLibrary returned error: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch))
	}
	a := batch[0].(media.Photo)
	b := batch[1].(media.Photo)
	if a.Asset.Path != first || a.Asset.ContentType != "image/png" || a.FromCamera {
		t.Fatalf("unexpected first item %+v", a.Asset)
	}
	if b.Asset.ContentType != "image/gif" {
		t.Fatalf("unexpected second content type %q", b.Asset.ContentType)
	}
	if a.Image.Bounds().Dx() != 6 {
		t.Fatalf("unexpected decoded bounds %v", a.Image.Bounds())
	}
}

func TestLoadCaptureIsFromCamera(t *testing.T) {
	path := writeImage(t, t.TempDir(), "shot.jpg")
	item, err := NewLoader("", "", logging.NewNop()).LoadCapture(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCapture returned error: %v", err)
	}
	photo := item.(media.Photo)
	if !photo.FromCamera || photo.Asset != nil {
		t.Fatalf("expected camera photo without asset, got %+v", photo)
	}
}

func TestLoadMissingPathIsNotFound(t *testing.T) {
	_, err := NewLoader("", "", logging.NewNop()).LoadLibrary(context.Background(), []string{filepath.Join(t.TempDir(), "nope.png")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadVideoGrabsThumbnail(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	clip := filepath.Join(t.TempDir(), "clip.mov")
	if err := os.WriteFile(clip, []byte("not really a movie"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch, err := NewLoader("ffmpeg", "", logging.NewNop()).LoadLibrary(context.Background(), []string{clip})
	if err != nil {
		t.Fatalf("LoadLibrary returned error: %v", err)
	}
	video := batch[0].(media.Video)
	if video.URL != clip {
		t.Fatalf("unexpected url %q", video.URL)
	}
	if b := video.Thumbnail.Bounds(); b.Dx() != 320 || b.Dy() != 160 {
		t.Fatalf("expected fitted 2:1 thumbnail, got %v", b)
	}
}

func TestLoadVideoFallsBackToPlaceholder(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch, err := NewLoader("", "", logging.NewNop()).LoadLibrary(context.Background(), []string{clip})
	if err != nil {
		t.Fatalf("LoadLibrary returned error: %v", err)
	}
	if b := batch[0].(media.Video).Thumbnail.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("expected placeholder thumbnail, got %v", b)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	frame := imaging.New(640, 320, color.White)
	if err := png.Encode(os.Stdout, frame); err != nil {
		os.Exit(2)
	}
	os.Exit(0)
}
