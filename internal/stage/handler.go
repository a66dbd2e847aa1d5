package stage

import (
	"context"
	"image"

	"mediapick/internal/media"
)

// Result is the outcome of one stage: a replacement item or an abort.
type Result struct {
	Item    media.Item
	Aborted bool
}

// Accept wraps a replacement item. The item may be unchanged.
func Accept(item media.Item) Result { return Result{Item: item} }

// Abort reports that the user backed out of the stage.
func Abort() Result { return Result{Aborted: true} }

// Classifier reports whether a photo's backing asset is an animated format.
type Classifier interface {
	IsAnimated(ctx context.Context, photo media.Photo) (bool, error)
}

// Filter applies a type-specific filter screen to a single item.
type Filter interface {
	Apply(ctx context.Context, item media.Item) (Result, error)
}

// Cropper crops a photo to the configured aspect ratio.
type Cropper interface {
	Crop(ctx context.Context, photo media.Photo, ratio media.AspectRatio) (Result, error)
}

// Reviewer edits a multi-item selection as one unit. It returns a
// replacement of the same length and order, or cancelled=true.
type Reviewer interface {
	Review(ctx context.Context, items media.ProcessableSet) (media.ProcessedSet, bool, error)
}

// AlbumSaver writes finalized pixels to the named photo album and returns a
// reference to the stored asset.
type AlbumSaver interface {
	Save(ctx context.Context, img image.Image, album string) (string, error)
}

// HealthChecker is implemented by handlers that depend on external tools.
type HealthChecker interface {
	HealthCheck(ctx context.Context) Health
}

// Set bundles the handlers the pipeline orchestrates. Nil handlers disable
// the corresponding stage.
type Set struct {
	Classifier  Classifier
	PhotoFilter Filter
	VideoFilter Filter
	Cropper     Cropper
	Reviewer    Reviewer
	Album       AlbumSaver
}

// FilterFor returns the filter handler for the item's kind.
func (s Set) FilterFor(item media.Item) Filter {
	switch item.(type) {
	case media.Photo:
		return s.PhotoFilter
	case media.Video:
		return s.VideoFilter
	default:
		return nil
	}
}

// Health collects readiness from every handler that reports it.
func (s Set) Health(ctx context.Context) []Health {
	handlers := []any{s.Classifier, s.PhotoFilter, s.VideoFilter, s.Cropper, s.Reviewer, s.Album}
	var out []Health
	for _, h := range handlers {
		if checker, ok := h.(HealthChecker); ok {
			out = append(out, checker.HealthCheck(ctx))
		}
	}
	return out
}
