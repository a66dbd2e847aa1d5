// Package stage declares the contracts between the selection pipeline and
// the screens it drives: filter, crop, multi-item review, album save, and
// animated-format classification.
//
// Stages are blocking calls that take a context; a call that returns is a
// resolved stage. Result distinguishes a replacement item from a user abort,
// which is not an error.
package stage
