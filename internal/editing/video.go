package editing

import (
	"context"
	"fmt"
	"log/slog"

	"mediapick/internal/export"
	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

// VideoFilter exports clips through an Exporter with a named look. Every
// export is registered with the cancellation hub.
type VideoFilter struct {
	exporter  export.Exporter
	hub       *export.Hub
	filter    media.FilterName
	outputDir string
	logger    *slog.Logger
}

// NewVideoFilter constructs a video filter handler.
func NewVideoFilter(exporter export.Exporter, hub *export.Hub, filter media.FilterName, outputDir string, logger *slog.Logger) *VideoFilter {
	if filter == "" {
		filter = media.FilterNone
	}
	return &VideoFilter{
		exporter:  exporter,
		hub:       hub,
		filter:    filter,
		outputDir: outputDir,
		logger:    logging.NewComponentLogger(logger, "video-filter"),
	}
}

// Apply exports the clip and returns a video pointing at the exported file.
// A cancelled or superseded export is reported as an abort.
func (f *VideoFilter) Apply(ctx context.Context, item media.Item) (stage.Result, error) {
	video, ok := item.(media.Video)
	if !ok {
		return stage.Result{}, services.Wrap(services.ErrValidation, "filter", "video", fmt.Sprintf("expected video, got %s", item.Kind()), nil)
	}

	op := f.hub.Begin(ctx)
	defer op.Finish()

	out, err := f.exporter.Export(op.Context(), export.Request{Input: video.URL, OutputDir: f.outputDir, Filter: f.filter})
	logger := logging.WithContext(ctx, f.logger)
	if op.Superseded() {
		logger.Debug("discarding superseded export", logging.String("input", video.URL))
		return stage.Abort(), nil
	}
	if err != nil {
		if op.Context().Err() != nil {
			return stage.Abort(), nil
		}
		return stage.Result{}, err
	}

	exported := video
	exported.URL = out
	return stage.Accept(exported), nil
}

// HealthCheck forwards to the exporter when it reports health.
func (f *VideoFilter) HealthCheck(ctx context.Context) stage.Health {
	if checker, ok := f.exporter.(stage.HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return stage.Healthy(f.exporter.Name())
}

var (
	_ stage.Filter        = (*VideoFilter)(nil)
	_ stage.HealthChecker = (*VideoFilter)(nil)
)
