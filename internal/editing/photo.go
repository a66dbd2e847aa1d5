package editing

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

// PhotoFilter renders a named look onto photos.
type PhotoFilter struct {
	filter media.FilterName
	logger *slog.Logger
}

// NewPhotoFilter constructs a photo filter handler for the named look.
func NewPhotoFilter(filter media.FilterName, logger *slog.Logger) *PhotoFilter {
	if filter == "" {
		filter = media.FilterNone
	}
	return &PhotoFilter{filter: filter, logger: logging.NewComponentLogger(logger, "photo-filter")}
}

// Apply returns the photo with the look rendered as its modification. The
// none look hands the photo back unchanged.
func (f *PhotoFilter) Apply(ctx context.Context, item media.Item) (stage.Result, error) {
	photo, ok := item.(media.Photo)
	if !ok {
		return stage.Result{}, services.Wrap(services.ErrValidation, "filter", "photo", fmt.Sprintf("expected photo, got %s", item.Kind()), nil)
	}
	if f.filter == media.FilterNone {
		return stage.Accept(photo), nil
	}
	src := photo.Finalized()
	if src == nil {
		return stage.Result{}, services.Wrap(services.ErrValidation, "filter", "photo", "photo has no pixels", nil)
	}
	if err := ctx.Err(); err != nil {
		return stage.Result{}, err
	}
	out, err := RenderLook(src, f.filter)
	if err != nil {
		return stage.Result{}, services.Wrap(services.ErrConfiguration, "filter", "photo", "render look", err)
	}
	logging.WithContext(ctx, f.logger).Debug("photo filter applied", logging.String("filter", string(f.filter)))
	return stage.Accept(photo.WithModified(out)), nil
}

// RenderLook returns a filtered copy of img.
func RenderLook(img image.Image, filter media.FilterName) (image.Image, error) {
	switch filter {
	case media.FilterNone, "":
		return imaging.Clone(img), nil
	case media.FilterMono:
		return imaging.Grayscale(img), nil
	case media.FilterSepia:
		return imaging.AdjustFunc(img, sepia), nil
	case media.FilterVivid:
		return imaging.AdjustContrast(imaging.AdjustSaturation(img, 40), 10), nil
	case media.FilterSoft:
		return imaging.Blur(imaging.AdjustBrightness(imaging.AdjustContrast(img, -8), 3), 0.8), nil
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}
}

func sepia(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp8(0.393*r + 0.769*g + 0.189*b),
		G: clamp8(0.349*r + 0.686*g + 0.168*b),
		B: clamp8(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v + 0.5)
}

var _ stage.Filter = (*PhotoFilter)(nil)
