package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"mediapick/internal/media"
	"mediapick/internal/stage"
)

const gifContentType = "image/gif"

// Classifier detects animated photo assets. GIF is the animated format
// recognised.
type Classifier struct{}

// NewClassifier constructs a Classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// IsAnimated reports whether the photo's backing asset is a GIF. Photos
// without an asset (camera captures) are never animated. A recorded content
// type is trusted; otherwise the file header is sniffed.
func (c *Classifier) IsAnimated(ctx context.Context, photo media.Photo) (bool, error) {
	if photo.Asset == nil {
		return false, nil
	}
	if ct := strings.TrimSpace(photo.Asset.ContentType); ct != "" {
		return isGIF(ct), nil
	}
	if photo.Asset.Path == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ct, err := sniff(photo.Asset.Path)
	if err != nil {
		return false, err
	}
	return isGIF(ct), nil
}

func isGIF(contentType string) bool {
	mediaType, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	return strings.TrimSpace(mediaType) == gifContentType
}

// sniff reads the file header and returns its detected content type.
func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read asset header: %w", err)
	}
	return http.DetectContentType(header[:n]), nil
}

var _ stage.Classifier = (*Classifier)(nil)
