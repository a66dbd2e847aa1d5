// Package logging assembles the slog loggers used across mediapick.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers so pipeline code tags log lines with invocation IDs,
// stages, and batch positions automatically. NewNop gives tests and wiring
// code a logger that cannot fail.
package logging
