package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	draptolib "github.com/five82/drapto"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

// Drapto exports clips by transcoding them to AV1 with the drapto library.
// It renders no looks, so only the none filter is accepted.
type Drapto struct {
	logger *slog.Logger
}

// NewDrapto constructs a drapto-backed exporter.
func NewDrapto(logger *slog.Logger) *Drapto {
	return &Drapto{logger: logging.NewComponentLogger(logger, "drapto")}
}

func (d *Drapto) Name() string { return "drapto" }

// Export transcodes req.Input into a scratch directory under req.OutputDir
// and moves the result to its final name.
func (d *Drapto) Export(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", services.Wrap(services.ErrValidation, "export", "drapto", "invalid request", err)
	}
	if req.Filter != "" && req.Filter != media.FilterNone {
		return "", services.Wrap(services.ErrConfiguration, "export", "drapto", fmt.Sprintf("filter %q is not supported", req.Filter), nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "export", "drapto", "create output directory", err)
	}
	scratch, err := os.MkdirTemp(req.OutputDir, ".drapto-")
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "export", "drapto", "create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	enc, err := draptolib.New(draptolib.WithResponsive())
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "export", "drapto", "initialize encoder", err)
	}

	logger := logging.WithContext(ctx, d.logger)
	if _, err := enc.EncodeWithReporter(ctx, req.Input, scratch, newProgressReporter(logger)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", services.Wrap(services.ErrExternalTool, "export", "drapto", "encode failed", err)
	}

	produced := filepath.Join(scratch, draptoOutputName(req.Input))
	final := outputPath(req, ".mkv")
	if err := os.Rename(produced, final); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "export", "drapto", "move encoded output", err)
	}
	logger.Info("drapto export complete", logging.String("output", final))
	return final, nil
}

// draptoOutputName is the file drapto writes for input: the source stem
// with an .mkv extension.
func draptoOutputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".mkv"
}

// HealthCheck reports whether the drapto encoder can be constructed.
func (d *Drapto) HealthCheck(context.Context) stage.Health {
	if _, err := draptolib.New(draptolib.WithResponsive()); err != nil {
		return stage.Unhealthy("drapto", err.Error())
	}
	return stage.Healthy("drapto")
}

// progressReporter forwards drapto events to the logger. Progress is logged
// at debug in ten percent steps.
type progressReporter struct {
	logger *slog.Logger

	mu      sync.Mutex
	lastTen int
}

func newProgressReporter(logger *slog.Logger) *progressReporter {
	return &progressReporter{logger: logger, lastTen: -1}
}

func (r *progressReporter) progress(stageName string, percent float64) {
	step := int(percent) / 10
	r.mu.Lock()
	if step <= r.lastTen {
		r.mu.Unlock()
		return
	}
	r.lastTen = step
	r.mu.Unlock()
	r.logger.Debug("drapto progress", logging.String("phase", stageName), logging.Float64("percent", percent))
}

func (r *progressReporter) Hardware(draptolib.HardwareSummary) {}

func (r *progressReporter) Initialization(s draptolib.InitializationSummary) {
	r.logger.Debug("drapto initialized", logging.Any("input", s.InputFile), logging.Any("resolution", s.Resolution))
}

func (r *progressReporter) StageProgress(s draptolib.StageProgress) {
	r.progress(s.Stage, float64(s.Percent))
}

func (r *progressReporter) CropResult(draptolib.CropSummary) {}

func (r *progressReporter) EncodingConfig(draptolib.EncodingConfigSummary) {}

func (r *progressReporter) EncodingStarted(uint64) {
	r.mu.Lock()
	r.lastTen = -1
	r.mu.Unlock()
}

func (r *progressReporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	r.progress("encoding", float64(s.Percent))
}

func (r *progressReporter) ValidationComplete(s draptolib.ValidationSummary) {
	if !s.Passed {
		logging.WarnWithContext(r.logger, "drapto validation failed", "drapto_validation_failed",
			logging.String(logging.FieldErrorHint, "inspect the exported clip before sharing"),
		)
	}
}

func (r *progressReporter) EncodingComplete(draptolib.EncodingOutcome) {}

func (r *progressReporter) Warning(message string) {
	logging.WarnWithContext(r.logger, "drapto warning", "drapto_warning", logging.String("detail", message))
}

func (r *progressReporter) Error(e draptolib.ReporterError) {
	logging.ErrorWithContext(r.logger, "drapto error", "drapto_error",
		logging.Any("title", e.Title),
		logging.Any("detail", e.Message),
		logging.String(logging.FieldErrorHint, fmt.Sprint(e.Suggestion)),
	)
}

func (r *progressReporter) OperationComplete(string) {}

func (r *progressReporter) BatchStarted(draptolib.BatchStartInfo) {}

func (r *progressReporter) FileProgress(draptolib.FileProgressContext) {}

func (r *progressReporter) BatchComplete(draptolib.BatchSummary) {}

var (
	_ draptolib.Reporter = (*progressReporter)(nil)
	_ Exporter           = (*Drapto)(nil)
)
