package selection

import (
	"errors"
	"fmt"

	"mediapick/internal/media"
)

var (
	// ErrIndexOutOfRange is returned when a processed entry points outside the batch.
	ErrIndexOutOfRange = errors.New("processed index out of range")
	// ErrDuplicateIndex is returned when two processed entries target the same position.
	ErrDuplicateIndex = errors.New("duplicate processed index")
)

// Merge returns a copy of original with each processed entry written to its
// original index. Positions not named in processed are left as they were.
// The result always has len(original) items; on error original is returned
// untouched alongside the error.
func Merge(original media.Batch, processed media.ProcessedSet) (media.Batch, error) {
	seen := make(map[int]struct{}, len(processed))
	for _, entry := range processed {
		if entry.Index < 0 || entry.Index >= len(original) {
			return original, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, entry.Index, len(original))
		}
		if _, dup := seen[entry.Index]; dup {
			return original, fmt.Errorf("%w: %d", ErrDuplicateIndex, entry.Index)
		}
		seen[entry.Index] = struct{}{}
	}

	out := original.Clone()
	if out == nil {
		out = media.Batch{}
	}
	for _, entry := range processed {
		out[entry.Index] = entry.Item
	}
	return out, nil
}

// SameShape reports whether processed covers exactly the indexes of
// processable, in the same order.
func SameShape(processable media.ProcessableSet, processed media.ProcessedSet) bool {
	if len(processable) != len(processed) {
		return false
	}
	for i := range processable {
		if processable[i].Index != processed[i].Index {
			return false
		}
	}
	return true
}
