// Package editing provides the stage handlers that change pixels or clips:
// the photo and video filter screens, the aspect-ratio cropper, and the
// batch reviewer that runs those edits across a multi-item selection.
//
// The handlers are headless. Confirm wraps any of them with a yes/no prompt
// so a terminal user can back out of a stage, which the pipeline treats as
// an abort.
package editing
