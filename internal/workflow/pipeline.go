package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mediapick/internal/export"
	"mediapick/internal/ledger"
	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/notifications"
	"mediapick/internal/selection"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

// ErrReviewCardinality is reported when a reviewer returns a different number
// of items, or different positions, than it was given.
var ErrReviewCardinality = errors.New("review changed selection shape")

// Warning describes a recoverable failure that did not stop delivery.
type Warning struct {
	InvocationID string
	Stage        string
	Index        int
	Err          error
}

// Recorder stores finished selections.
type Recorder interface {
	RecordSelection(ctx context.Context, sel ledger.Selection) error
}

// Pipeline orchestrates the post-processing stages for picker selections.
type Pipeline struct {
	opts     Options
	stages   stage.Set
	hub      *export.Hub
	notifier notifications.Service
	recorder Recorder
	onWarn   func(Warning)
	logger   *slog.Logger
	now      func() time.Time
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithNotifier publishes completion and album failure events.
func WithNotifier(n notifications.Service) PipelineOption {
	return func(p *Pipeline) { p.notifier = n }
}

// WithRecorder records every finished invocation.
func WithRecorder(r Recorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

// WithWarningHook receives recoverable failures such as album save errors.
func WithWarningHook(fn func(Warning)) PipelineOption {
	return func(p *Pipeline) { p.onWarn = fn }
}

// NewPipeline wires a pipeline. A nil hub gets a private one.
func NewPipeline(opts Options, stages stage.Set, hub *export.Hub, logger *slog.Logger, options ...PipelineOption) *Pipeline {
	logger = logging.NewComponentLogger(logger, "workflow")
	if hub == nil {
		hub = export.NewHub(logger)
	}
	p := &Pipeline{
		opts:   opts,
		stages: stages,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Hub returns the cancellation hub the pipeline registers with.
func (p *Pipeline) Hub() *export.Hub { return p.hub }

// Stages returns the handler set.
func (p *Pipeline) Stages() stage.Set { return p.stages }

// outcome is what a run hands to the completion plus ledger bookkeeping.
type outcome struct {
	batch       media.Batch
	cancelled   bool
	path        ledger.Path
	passthrough int
	saved       int
	err         error
}

func cancelledOutcome(path ledger.Path, err error) outcome {
	return outcome{cancelled: true, path: path, err: err}
}

// Process starts a pipeline run over batch and returns immediately. The
// completion is invoked exactly once from the invocation goroutine.
func (p *Pipeline) Process(ctx context.Context, batch media.Batch, completion Completion) *Invocation {
	id := uuid.NewString()
	ctx = services.WithInvocationID(ctx, id)
	op := p.hub.Begin(ctx)
	runCtx, cancel := context.WithCancel(op.Context())
	inv := newInvocation(id, cancel, completion)
	input := batch.Clone()

	go func() {
		defer close(inv.done)
		defer op.Finish()
		defer cancel()

		started := p.now()
		logger := logging.WithContext(runCtx, p.logger)
		logger.Debug("invocation started", logging.Int(logging.FieldItemCount, len(input)))

		out := p.run(runCtx, input, logger)
		stale := func() bool { return op.Superseded() || runCtx.Err() != nil }
		if !inv.complete(out.batch, out.cancelled, stale) {
			logger.Debug("discarding late completion")
			return
		}
		if inv.cancelled && !out.cancelled {
			out = cancelledOutcome(out.path, nil)
		}
		p.finish(context.WithoutCancel(ctx), inv, input, out, started, logger)
	}()
	return inv
}

func (p *Pipeline) run(ctx context.Context, batch media.Batch, logger *slog.Logger) outcome {
	processable, passthrough := selection.Partition(ctx, batch, p.stages.Classifier, logger)
	if len(processable) == 0 {
		return outcome{batch: batch, path: ledger.PathPassthrough, passthrough: len(passthrough)}
	}

	var (
		processed media.ProcessedSet
		out       = outcome{passthrough: len(passthrough)}
	)
	switch {
	case len(processable) == 1:
		out.path = ledger.PathChain
		item, saved, err := p.runChain(ctx, processable[0], logger)
		if err != nil {
			return p.abandon(ctx, out.path, err, logger)
		}
		if item == nil {
			return cancelledOutcome(out.path, nil)
		}
		out.saved = saved
		processed = media.ProcessedSet{{Index: processable[0].Index, Item: item}}
	case p.opts.SkipReviewWhenMultiple:
		out.path = ledger.PathSkipReview
		processed = processable.Unchanged()
	default:
		out.path = ledger.PathReview
		result, cancelled, err := p.review(ctx, processable, logger)
		if err != nil {
			return p.abandon(ctx, out.path, err, logger)
		}
		if cancelled {
			return cancelledOutcome(out.path, nil)
		}
		processed = result
	}

	merged, err := selection.Merge(batch, processed)
	if err != nil {
		return p.abandon(ctx, out.path, err, logger)
	}
	out.batch = merged
	return out
}

// abandon converts a stage error into a cancellation. Errors caused by the
// invocation being cancelled are not logged as failures.
func (p *Pipeline) abandon(ctx context.Context, path ledger.Path, err error, logger *slog.Logger) outcome {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		logger.Debug("stage interrupted by cancellation", logging.Error(err))
		return cancelledOutcome(path, nil)
	}
	logging.ErrorWithContext(logger, "selection processing failed", "selection_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
	)
	return cancelledOutcome(path, err)
}

func (p *Pipeline) review(ctx context.Context, processable media.ProcessableSet, logger *slog.Logger) (media.ProcessedSet, bool, error) {
	if p.stages.Reviewer == nil {
		logger.Debug("no reviewer configured; accepting selection as-is")
		return processable.Unchanged(), false, nil
	}
	ctx = services.WithStage(ctx, "review")
	logger.Info("review started", logging.Int(logging.FieldItemCount, len(processable)))
	processed, cancelled, err := p.stages.Reviewer.Review(ctx, processable)
	if err != nil || cancelled {
		return nil, cancelled, err
	}
	if !selection.SameShape(processable, processed) {
		return nil, false, services.Wrap(ErrReviewCardinality, "review", "validate", "reviewer returned a different selection", nil)
	}
	for _, entry := range processed {
		if entry.Item == nil {
			return nil, false, services.Wrap(services.ErrValidation, "review", "validate", fmt.Sprintf("reviewer returned no item for index %d", entry.Index), nil)
		}
	}
	return processed, false, nil
}

func (p *Pipeline) finish(ctx context.Context, inv *Invocation, input media.Batch, out outcome, started time.Time, logger *slog.Logger) {
	mode, _ := services.ModeFromContext(ctx)
	logger.Info("selection finished",
		logging.String(logging.FieldEventType, "selection_finished"),
		logging.Bool("cancelled", out.cancelled),
		logging.String("path", string(out.path)),
		logging.Int(logging.FieldItemCount, len(out.batch)),
		logging.Int("passthrough", out.passthrough),
	)

	if p.recorder != nil {
		sel := ledger.Selection{
			InvocationID:     inv.ID(),
			Mode:             mode,
			InputCount:       len(input),
			OutputCount:      len(out.batch),
			PassthroughCount: out.passthrough,
			Path:             out.path,
			Cancelled:        out.cancelled,
			StartedAt:        started,
			FinishedAt:       p.now(),
		}
		if out.err != nil {
			sel.ErrorMessage = out.err.Error()
		}
		if err := p.recorder.RecordSelection(ctx, sel); err != nil {
			logging.WarnWithContext(logger, "selection not recorded", "ledger_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the state directory and ledger database"),
				logging.String(logging.FieldImpact, "selection missing from history"),
			)
		}
	}

	if p.notifier == nil {
		return
	}
	var (
		event   notifications.Event
		payload notifications.Payload
	)
	switch {
	case out.err != nil:
		event = notifications.EventError
		payload = notifications.Payload{"context": "selection " + string(out.path), "error": out.err}
	case out.cancelled:
		event = notifications.EventSelectionCancelled
		payload = notifications.Payload{"mode": mode}
	default:
		event = notifications.EventSelectionCompleted
		payload = notifications.Payload{"count": len(out.batch), "mode": mode, "saved": out.saved}
	}
	if err := p.notifier.Publish(ctx, event, payload); err != nil {
		logger.Debug("selection notification failed", logging.Error(err))
	}
}
