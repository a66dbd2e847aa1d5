package editing_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/goleak"

	"mediapick/internal/editing"
	"mediapick/internal/export"
	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

func solid(w, h int, c color.Color) image.Image {
	return imaging.New(w, h, c)
}

func TestPhotoFilterNoneLeavesPhotoUnmodified(t *testing.T) {
	filter := editing.NewPhotoFilter(media.FilterNone, logging.NewNop())
	photo := media.Photo{Image: solid(4, 4, color.White)}
	res, err := filter.Apply(context.Background(), photo)
	if err != nil || res.Aborted {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	if res.Item.(media.Photo).IsModified() {
		t.Fatal("none filter must not mark the photo modified")
	}
}

func TestPhotoFilterMonoProducesGray(t *testing.T) {
	filter := editing.NewPhotoFilter(media.FilterMono, logging.NewNop())
	photo := media.Photo{Image: solid(4, 4, color.NRGBA{R: 200, G: 20, B: 40, A: 255})}
	res, err := filter.Apply(context.Background(), photo)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	got := res.Item.(media.Photo)
	if !got.IsModified() || got.Image != photo.Image {
		t.Fatal("expected modification alongside the untouched original")
	}
	r, g, b, _ := got.ModifiedImage.At(1, 1).RGBA()
	if r != g || g != b {
		t.Fatalf("expected gray pixel, got %d %d %d", r, g, b)
	}
}

func TestPhotoFilterRejectsVideo(t *testing.T) {
	filter := editing.NewPhotoFilter(media.FilterSepia, logging.NewNop())
	_, err := filter.Apply(context.Background(), media.Video{URL: "a.mov"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderLookCoversEveryFilter(t *testing.T) {
	src := solid(8, 6, color.NRGBA{R: 90, G: 120, B: 200, A: 255})
	for _, f := range media.Filters {
		out, err := editing.RenderLook(src, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 6 {
			t.Fatalf("%s: unexpected bounds %v", f, out.Bounds())
		}
	}
	if _, err := editing.RenderLook(src, "lomo"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestCropSize(t *testing.T) {
	cases := []struct {
		w, h   int
		ratio  media.AspectRatio
		ww, wh int
	}{
		{400, 300, media.AspectRatio{W: 1, H: 1}, 300, 300},
		{300, 300, media.AspectRatio{W: 4, H: 5}, 240, 300},
		{1920, 1080, media.AspectRatio{W: 16, H: 9}, 1920, 1080},
		{100, 400, media.AspectRatio{W: 1, H: 1}, 100, 100},
	}
	for _, tc := range cases {
		w, h := editing.CropSize(image.Rect(0, 0, tc.w, tc.h), tc.ratio)
		if w != tc.ww || h != tc.wh {
			t.Fatalf("%dx%d to %s: got %dx%d want %dx%d", tc.w, tc.h, tc.ratio, w, h, tc.ww, tc.wh)
		}
	}
}

func TestCropperSetsModifiedImage(t *testing.T) {
	cropper := editing.NewCropper(logging.NewNop())
	photo := media.Photo{Image: solid(400, 300, color.White), FromCamera: true}
	res, err := cropper.Crop(context.Background(), photo, media.AspectRatio{W: 1, H: 1})
	if err != nil || res.Aborted {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	got := res.Item.(media.Photo)
	if !got.IsModified() || !got.FromCamera {
		t.Fatalf("expected modified camera photo, got %v", got)
	}
	if b := got.ModifiedImage.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("unexpected crop bounds %v", b)
	}
}

type fakeExporter struct {
	block bool
	err   error
	calls atomic.Int32
}

func (f *fakeExporter) Name() string { return "fake" }

func (f *fakeExporter) Export(ctx context.Context, req export.Request) (string, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return req.OutputDir + "/" + strings.TrimSuffix(req.Input, ".mov") + "-" + string(req.Filter) + ".mp4", nil
}

func TestVideoFilterReplacesURL(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	filter := editing.NewVideoFilter(&fakeExporter{}, hub, media.FilterVivid, "/out", logging.NewNop())
	res, err := filter.Apply(context.Background(), media.Video{URL: "clip.mov", FromCamera: true})
	if err != nil || res.Aborted {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	got := res.Item.(media.Video)
	if got.URL != "/out/clip-vivid.mp4" || !got.FromCamera {
		t.Fatalf("unexpected exported video %+v", got)
	}
	if hub.Active() != 0 {
		t.Fatalf("expected operation to be finished, %d active", hub.Active())
	}
}

func TestVideoFilterAbortsWhenHubCancels(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := export.NewHub(logging.NewNop())
	filter := editing.NewVideoFilter(&fakeExporter{block: true}, hub, media.FilterNone, "/out", logging.NewNop())

	done := make(chan stage.Result, 1)
	go func() {
		res, err := filter.Apply(context.Background(), media.Video{URL: "clip.mov"})
		if err != nil {
			t.Errorf("Apply returned error: %v", err)
		}
		done <- res
	}()

	waitFor(t, func() bool { return hub.Active() == 1 })
	hub.CancelAll()

	select {
	case res := <-done:
		if !res.Aborted {
			t.Fatalf("expected abort, got %+v", res)
		}
	case <-time.After(time.Second):
		t.Fatal("video filter did not return after CancelAll")
	}
}

func TestVideoFilterPropagatesExportError(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	boom := services.Wrap(services.ErrExternalTool, "export", "ffmpeg", "failed", nil)
	filter := editing.NewVideoFilter(&fakeExporter{err: boom}, hub, media.FilterNone, "/out", logging.NewNop())
	if _, err := filter.Apply(context.Background(), media.Video{URL: "clip.mov"}); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected export error, got %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

type tagFilter struct {
	abortURL string
	delay    time.Duration
}

func (f tagFilter) Apply(ctx context.Context, item media.Item) (stage.Result, error) {
	v := item.(media.Video)
	if v.URL == f.abortURL {
		return stage.Abort(), nil
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return stage.Result{}, ctx.Err()
	}
	v.URL += "+edited"
	return stage.Accept(v), nil
}

func videoSet(urls ...string) media.ProcessableSet {
	set := make(media.ProcessableSet, len(urls))
	for i, u := range urls {
		set[i] = media.Entry{Index: i * 2, Item: media.Video{URL: u}}
	}
	return set
}

func TestReviewerPreservesOrderAndIndexes(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	reviewer := editing.NewReviewer(hub, logging.NewNop(),
		editing.WithFilters(nil, tagFilter{delay: time.Millisecond}),
		editing.WithConcurrency(2),
	)
	urls := make([]string, 9)
	for i := range urls {
		urls[i] = fmt.Sprintf("v%d", i)
	}
	set := videoSet(urls...)

	out, cancelled, err := reviewer.Review(context.Background(), set)
	if err != nil || cancelled {
		t.Fatalf("unexpected review outcome cancelled=%v err=%v", cancelled, err)
	}
	if len(out) != len(set) {
		t.Fatalf("expected %d results, got %d", len(set), len(out))
	}
	for i := range out {
		if out[i].Index != set[i].Index {
			t.Fatalf("index %d: got %d want %d", i, out[i].Index, set[i].Index)
		}
		if want := urls[i] + "+edited"; out[i].Item.(media.Video).URL != want {
			t.Fatalf("item %d: got %v want %s", i, out[i].Item, want)
		}
	}
}

func TestReviewerAbortCancelsWholeReview(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	reviewer := editing.NewReviewer(hub, logging.NewNop(), editing.WithFilters(nil, tagFilter{abortURL: "b", delay: 50 * time.Millisecond}))
	out, cancelled, err := reviewer.Review(context.Background(), videoSet("a", "b", "c"))
	if err != nil || !cancelled || out != nil {
		t.Fatalf("expected cancelled review, got out=%v cancelled=%v err=%v", out, cancelled, err)
	}
}

func TestReviewerCancelledByHub(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := export.NewHub(logging.NewNop())
	reviewer := editing.NewReviewer(hub, logging.NewNop(), editing.WithFilters(nil, tagFilter{delay: time.Minute}))

	type outcome struct {
		cancelled bool
		err       error
	}
	done := make(chan outcome, 1)
	go func() {
		_, cancelled, err := reviewer.Review(context.Background(), videoSet("a", "b"))
		done <- outcome{cancelled, err}
	}()
	waitFor(t, func() bool { return hub.Active() == 1 })
	hub.CancelAll()

	select {
	case o := <-done:
		if !o.cancelled || o.err != nil {
			t.Fatalf("expected cancellation, got %+v", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("review did not stop after CancelAll")
	}
}

func TestReviewerCropsPhotos(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	reviewer := editing.NewReviewer(hub, logging.NewNop(), editing.WithCrop(editing.NewCropper(logging.NewNop()), media.CropTo(1, 1)))
	set := media.ProcessableSet{
		{Index: 0, Item: media.Photo{Image: solid(20, 10, color.White)}},
		{Index: 1, Item: media.Video{URL: "v"}},
	}
	out, cancelled, err := reviewer.Review(context.Background(), set)
	if err != nil || cancelled {
		t.Fatalf("unexpected outcome cancelled=%v err=%v", cancelled, err)
	}
	photo := out[0].Item.(media.Photo)
	if b := photo.ModifiedImage.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("expected square crop, got %v", b)
	}
	if out[1].Item.(media.Video).URL != "v" {
		t.Fatalf("video should pass unchanged, got %v", out[1].Item)
	}
}

func TestTerminalPrompter(t *testing.T) {
	var out strings.Builder
	p := editing.NewTerminalPrompter(strings.NewReader("\nno\nYES\n"), &out)
	want := []bool{true, false, true, false}
	for i, w := range want {
		got, err := p.Confirm(context.Background(), "Continue?")
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("answer %d: got %v want %v", i, got, w)
		}
	}
	if !strings.Contains(out.String(), "Continue? [Y/n]: ") {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestTerminalPrompterCancelWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	var out strings.Builder
	p := editing.NewTerminalPrompter(r, &out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Confirm(ctx, "Keep?")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Confirm did not return after cancellation")
	}

	// The line typed after cancellation answers the next prompt.
	go func() { _, _ = w.Write([]byte("n\n")) }()
	got, err := p.Confirm(context.Background(), "Keep?")
	if err != nil || got {
		t.Fatalf("expected pending answer no, got %v err=%v", got, err)
	}
}

type scriptedPrompter struct{ answer bool }

func (p scriptedPrompter) Confirm(context.Context, string) (bool, error) { return p.answer, nil }

func TestConfirmCropperDeclineAborts(t *testing.T) {
	cropper := editing.ConfirmCropper(editing.NewCropper(logging.NewNop()), scriptedPrompter{answer: false})
	res, err := cropper.Crop(context.Background(), media.Photo{Image: solid(4, 2, color.White)}, media.AspectRatio{W: 1, H: 1})
	if err != nil || !res.Aborted {
		t.Fatalf("expected abort, got %+v err=%v", res, err)
	}
}

func TestConfirmFilterAcceptKeepsResult(t *testing.T) {
	filter := editing.ConfirmFilter(editing.NewPhotoFilter(media.FilterMono, logging.NewNop()), scriptedPrompter{answer: true})
	res, err := filter.Apply(context.Background(), media.Photo{Image: solid(2, 2, color.White)})
	if err != nil || res.Aborted || !res.Item.(media.Photo).IsModified() {
		t.Fatalf("expected accepted modified photo, got %+v err=%v", res, err)
	}
}
