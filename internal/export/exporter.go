package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mediapick/internal/media"
)

// Request describes one export job.
type Request struct {
	Input     string
	OutputDir string
	Filter    media.FilterName
}

// Exporter renders a clip to a new file and returns its path.
type Exporter interface {
	Name() string
	Export(ctx context.Context, req Request) (string, error)
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return errors.New("output directory required")
	}
	return nil
}

// outputPath names the export after its source, the filter, and a short
// random suffix so repeated exports of one clip never collide.
func outputPath(req Request, ext string) string {
	base := filepath.Base(req.Input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "clip"
	}
	filter := req.Filter
	if filter == "" {
		filter = media.FilterNone
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return filepath.Join(strings.TrimSpace(req.OutputDir), fmt.Sprintf("%s-%s-%s%s", stem, filter, suffix, ext))
}
