package editing

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mediapick/internal/export"
	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

var errItemAborted = errors.New("item edit aborted")

const defaultReviewConcurrency = 4

// Reviewer edits every item of a multi-item selection with the configured
// filters and crop, several items at a time. One abort cancels the whole
// review.
type Reviewer struct {
	photo   stage.Filter
	video   stage.Filter
	cropper stage.Cropper
	crop    media.CropPolicy
	hub     *export.Hub
	limit   int
	logger  *slog.Logger
}

// ReviewerOption configures a Reviewer.
type ReviewerOption func(*Reviewer)

// WithFilters sets the per-kind filter handlers. Nil skips filtering for that kind.
func WithFilters(photo, video stage.Filter) ReviewerOption {
	return func(r *Reviewer) {
		r.photo = photo
		r.video = video
	}
}

// WithCrop crops photos to policy when it is enabled.
func WithCrop(cropper stage.Cropper, policy media.CropPolicy) ReviewerOption {
	return func(r *Reviewer) {
		r.cropper = cropper
		r.crop = policy
	}
}

// WithConcurrency bounds how many items are edited at once.
func WithConcurrency(n int) ReviewerOption {
	return func(r *Reviewer) {
		if n > 0 {
			r.limit = n
		}
	}
}

// NewReviewer constructs a headless batch reviewer.
func NewReviewer(hub *export.Hub, logger *slog.Logger, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{
		hub:    hub,
		limit:  defaultReviewConcurrency,
		logger: logging.NewComponentLogger(logger, "review"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Review returns one replacement per entry, in the same order, or
// cancelled=true when any item was aborted or the review was cancelled.
func (r *Reviewer) Review(ctx context.Context, items media.ProcessableSet) (media.ProcessedSet, bool, error) {
	op := r.hub.Begin(ctx)
	defer op.Finish()

	results := make([]media.Item, len(items))
	g, gctx := errgroup.WithContext(op.Context())
	g.SetLimit(r.limit)
	for i, entry := range items {
		g.Go(func() error {
			itemCtx := services.WithItemIndex(gctx, entry.Index)
			edited, err := r.edit(itemCtx, entry.Item)
			if err != nil {
				return err
			}
			results[i] = edited
			return nil
		})
	}
	err := g.Wait()

	logger := logging.WithContext(ctx, r.logger)
	switch {
	case op.Superseded():
		logger.Debug("discarding superseded review")
		return nil, true, nil
	case errors.Is(err, errItemAborted):
		logger.Info("review aborted", logging.Int(logging.FieldItemCount, len(items)))
		return nil, true, nil
	case errors.Is(err, context.Canceled) && op.Context().Err() != nil:
		return nil, true, nil
	case err != nil:
		return nil, false, err
	}
	return items.Replace(results), false, nil
}

func (r *Reviewer) edit(ctx context.Context, item media.Item) (media.Item, error) {
	var filter stage.Filter
	switch item.(type) {
	case media.Photo:
		filter = r.photo
	case media.Video:
		filter = r.video
	}
	if filter != nil {
		res, err := filter.Apply(ctx, item)
		if err != nil {
			return nil, err
		}
		if res.Aborted {
			return nil, errItemAborted
		}
		item = res.Item
	}

	photo, ok := item.(media.Photo)
	if !ok || !r.crop.Enabled || r.cropper == nil {
		return item, nil
	}
	res, err := r.cropper.Crop(ctx, photo, r.crop.Ratio)
	if err != nil {
		return nil, err
	}
	if res.Aborted {
		return nil, errItemAborted
	}
	return res.Item, nil
}

var _ stage.Reviewer = (*Reviewer)(nil)
