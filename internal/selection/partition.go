package selection

import (
	"context"
	"log/slog"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/stage"
)

// Partition classifies every item of batch. Animated photos are
// pass-through; every other photo and every video is processable. The
// processable set is ordered by ascending original index.
//
// A classifier error is logged and the photo is treated as processable.
// A nil classifier marks every item processable.
func Partition(ctx context.Context, batch media.Batch, classifier stage.Classifier, logger *slog.Logger) (media.ProcessableSet, map[int]struct{}) {
	if logger == nil {
		logger = logging.NewNop()
	}
	processable := make(media.ProcessableSet, 0, len(batch))
	passthrough := make(map[int]struct{})
	for i, item := range batch {
		if photo, ok := item.(media.Photo); ok && isAnimated(ctx, classifier, photo, i, logger) {
			passthrough[i] = struct{}{}
			continue
		}
		processable = append(processable, media.Entry{Index: i, Item: item})
	}
	return processable, passthrough
}

func isAnimated(ctx context.Context, classifier stage.Classifier, photo media.Photo, index int, logger *slog.Logger) bool {
	if classifier == nil {
		return false
	}
	animated, err := classifier.IsAnimated(ctx, photo)
	if err != nil {
		logger.Debug("asset classification failed; treating as still image",
			logging.Int(logging.FieldItemIndex, index),
			logging.Error(err),
		)
		return false
	}
	return animated
}
