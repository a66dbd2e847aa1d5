// Package ffprobe inspects video files through ffprobe's JSON output.
//
// Inspect runs the probe; Result helpers answer the questions the picker
// asks of a clip: does it carry a video stream, how large is the frame, and
// where should a thumbnail be grabbed from.
package ffprobe
