// Package export runs video export jobs and owns their cancellation.
//
// Hub is the single place a user abort reaches running work: every export,
// transcode, or review unit registers an Operation with Begin and watches
// its context. CancelAll cancels them all and marks them superseded so late
// completions are dropped. FFmpeg and Drapto implement Exporter, turning a
// source clip into a filtered copy under the export directory.
package export
