// Package media defines the selection model shared by the picker pipeline.
//
// An Item is either a Photo or a Video. Items are values: stages never edit
// an item in place, they return a replacement. Batches keep the caller's
// order, and the ProcessableSet/ProcessedSet pair tracks the subset that
// needs work by original index so results can be put back where they came
// from.
package media
