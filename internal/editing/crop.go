package editing

import (
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

// Cropper cuts photos to an aspect ratio around their center.
type Cropper struct {
	logger *slog.Logger
}

// NewCropper constructs a centered cropper.
func NewCropper(logger *slog.Logger) *Cropper {
	return &Cropper{logger: logging.NewComponentLogger(logger, "crop")}
}

// Crop returns the photo with the largest centered region of the given
// ratio as its modification.
func (c *Cropper) Crop(ctx context.Context, photo media.Photo, ratio media.AspectRatio) (stage.Result, error) {
	src := photo.Finalized()
	if src == nil {
		return stage.Result{}, services.Wrap(services.ErrValidation, "crop", "photo", "photo has no pixels", nil)
	}
	if ratio.W <= 0 || ratio.H <= 0 {
		return stage.Result{}, services.Wrap(services.ErrConfiguration, "crop", "photo", "invalid aspect ratio "+ratio.String(), nil)
	}
	if err := ctx.Err(); err != nil {
		return stage.Result{}, err
	}
	w, h := CropSize(src.Bounds(), ratio)
	cropped := imaging.CropCenter(src, w, h)
	logging.WithContext(ctx, c.logger).Debug("photo cropped",
		logging.String("ratio", ratio.String()),
		logging.Int("width", w),
		logging.Int("height", h),
	)
	return stage.Accept(photo.WithModified(cropped)), nil
}

// CropSize returns the largest width and height with the given ratio that
// fit inside bounds.
func CropSize(bounds image.Rectangle, ratio media.AspectRatio) (int, int) {
	bw, bh := bounds.Dx(), bounds.Dy()
	if bw*ratio.H > bh*ratio.W {
		w := bh * ratio.W / ratio.H
		return max(w, 1), bh
	}
	h := bw * ratio.H / ratio.W
	return bw, max(h, 1)
}

var _ stage.Cropper = (*Cropper)(nil)
