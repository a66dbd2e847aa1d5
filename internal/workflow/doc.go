// Package workflow runs a selected batch through post-processing and hands
// the final batch back exactly once.
//
// Pipeline.Process partitions the batch into processable and pass-through
// items, then routes the processable subset by size: a single item walks the
// stage chain (filter, crop, persist), several items go to the reviewer as
// one unit, or are accepted verbatim when review is skipped. The processed
// items are merged back by original index so positions never move.
//
// Each invocation runs on its own goroutine and registers with the
// cancellation hub. Any abort, stage error, or hub cancellation turns into a
// cancelled completion with an empty batch. Album save failures are the one
// recoverable condition: they are logged, reported to the warning hook and
// notifier, and the selection is still delivered.
package workflow
