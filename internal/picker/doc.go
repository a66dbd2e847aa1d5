// Package picker is the single entry point for camera and library flows.
//
// A Picker owns the mode coordinator, feeds captured or selected media into
// the workflow pipeline, and delivers exactly one final result: the
// processed batch, or an empty cancelled batch when the user closes the
// picker or aborts a stage. After that result the picker is finished and
// rejects further input.
package picker
