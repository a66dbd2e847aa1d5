// Package assets resolves files on disk into picker items.
//
// Loader turns library paths (or a camera capture) into media.Photo and
// media.Video values, decoding photos with EXIF orientation applied and
// grabbing a thumbnail frame for videos. Classifier answers the one
// question the eligibility filter asks of a photo: is its backing asset an
// animated format.
package assets
