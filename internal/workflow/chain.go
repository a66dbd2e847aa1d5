package workflow

import (
	"context"
	"log/slog"

	"mediapick/internal/album"
	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/notifications"
	"mediapick/internal/services"
)

// runChain walks one item through filter, crop, and persist. A nil item with
// a nil error means the user aborted a stage. The int result counts album
// saves.
func (p *Pipeline) runChain(ctx context.Context, entry media.Entry, logger *slog.Logger) (media.Item, int, error) {
	ctx = services.WithItemIndex(ctx, entry.Index)
	item := entry.Item

	if p.opts.ShowsFilters {
		if filter := p.stages.FilterFor(item); filter != nil {
			stageCtx := services.WithStage(ctx, "filter")
			res, err := filter.Apply(stageCtx, item)
			if err != nil {
				return nil, 0, err
			}
			if res.Aborted || ctx.Err() != nil {
				logging.WithContext(stageCtx, logger).Info("filter aborted")
				return nil, 0, nil
			}
			if res.Item == nil {
				return nil, 0, services.Wrap(services.ErrValidation, "filter", "result", "filter returned no item", nil)
			}
			item = res.Item
		}
	}

	photo, isPhoto := item.(media.Photo)
	if !isPhoto {
		return item, 0, nil
	}

	if p.opts.CropPolicy.Enabled && p.stages.Cropper != nil {
		stageCtx := services.WithStage(ctx, "crop")
		res, err := p.stages.Cropper.Crop(stageCtx, photo, p.opts.CropPolicy.Ratio)
		if err != nil {
			return nil, 0, err
		}
		if res.Aborted || ctx.Err() != nil {
			logging.WithContext(stageCtx, logger).Info("crop aborted")
			return nil, 0, nil
		}
		cropped, ok := res.Item.(media.Photo)
		if !ok {
			return nil, 0, services.Wrap(services.ErrValidation, "crop", "result", "cropper returned a non-photo item", nil)
		}
		photo = cropped
		item = cropped
	}

	if !p.opts.shouldPersist(photo) || p.stages.Album == nil {
		return item, 0, nil
	}
	if p.persist(services.WithStage(ctx, "persist"), photo, entry.Index, logger) {
		return item, 1, nil
	}
	return item, 0, nil
}

// persist saves the finalized pixels. Failures never affect delivery.
func (p *Pipeline) persist(ctx context.Context, photo media.Photo, index int, logger *slog.Logger) bool {
	op := p.hub.Begin(album.WithFromCamera(ctx, photo.FromCamera))
	defer op.Finish()

	logger = logging.WithContext(ctx, logger)
	path, err := p.stages.Album.Save(op.Context(), photo.Finalized(), p.opts.AlbumName)
	if op.Superseded() {
		logger.Debug("discarding superseded album save")
		return false
	}
	if err == nil {
		logger.Info("photo saved to album",
			logging.String("album", p.opts.AlbumName),
			logging.String("path", path),
		)
		return true
	}

	logging.WarnWithContext(logger, "album save failed", "album_save_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
		logging.String(logging.FieldImpact, "photo delivered but not saved to album"),
	)
	invocation, _ := services.InvocationIDFromContext(ctx)
	if p.onWarn != nil {
		p.onWarn(Warning{InvocationID: invocation, Stage: "persist", Index: index, Err: err})
	}
	if p.notifier != nil {
		if nerr := p.notifier.Publish(context.WithoutCancel(ctx), notifications.EventAlbumSaveFailed, notifications.Payload{
			"album": p.opts.AlbumName,
			"error": err,
		}); nerr != nil {
			logger.Debug("album failure notification failed", logging.Error(nerr))
		}
	}
	return false
}
