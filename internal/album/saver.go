package album

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"mediapick/internal/ledger"
	"mediapick/internal/logging"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

const (
	jpegQuality    = 92
	lockRetryDelay = 50 * time.Millisecond
)

// Recorder stores saved assets.
type Recorder interface {
	RecordAlbumAsset(ctx context.Context, asset ledger.AlbumAsset) error
}

// Saver writes photos into album directories.
type Saver struct {
	root     string
	lock     *flock.Flock
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Saver.
type Option func(*Saver)

// WithRecorder records every saved asset.
func WithRecorder(r Recorder) Option {
	return func(s *Saver) { s.recorder = r }
}

// NewSaver builds a Saver rooted at root. lockPath names the lock file that
// serializes writes; empty disables cross-process locking.
func NewSaver(root, lockPath string, logger *slog.Logger, opts ...Option) *Saver {
	s := &Saver{
		root:   root,
		logger: logging.NewComponentLogger(logger, "album"),
		now:    time.Now,
	}
	if strings.TrimSpace(lockPath) != "" {
		s.lock = flock.New(lockPath)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory backing an album.
func (s *Saver) Dir(album string) string {
	return filepath.Join(s.root, Slug(album))
}

// Save encodes img as JPEG into the album and returns the stored path.
func (s *Saver) Save(ctx context.Context, img image.Image, album string) (string, error) {
	if img == nil {
		return "", services.Wrap(services.ErrValidation, "persist", "save", "no image to save", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := NormalizeName(album)
	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "persist", "create album dir", dir, err)
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	id := uuid.NewString()
	created := s.now()
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.jpg", created.Format("20060102-150405"), id[:8]))
	if err := writeJPEG(path, img); err != nil {
		return "", services.Wrap(services.ErrTransient, "persist", "write photo", path, err)
	}

	if s.recorder != nil {
		bounds := img.Bounds()
		invocation, _ := services.InvocationIDFromContext(ctx)
		asset := ledger.AlbumAsset{
			ID:           id,
			InvocationID: invocation,
			Album:        name,
			Path:         path,
			Width:        bounds.Dx(),
			Height:       bounds.Dy(),
			FromCamera:   fromCameraFromContext(ctx),
			CreatedAt:    created,
		}
		if err := s.recorder.RecordAlbumAsset(ctx, asset); err != nil {
			s.logger.Warn("album asset not recorded",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "photo saved but missing from album history"),
			)
		}
	}

	s.logger.Debug("photo saved", logging.String("album", name), logging.String("path", path))
	return path, nil
}

func (s *Saver) acquire(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lock.Path()), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "persist", "create lock dir", s.lock.Path(), err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrTransient, "persist", "lock album", s.lock.Path(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "persist", "lock album", "album lock busy", nil)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Debug("album unlock failed", logging.Error(err))
		}
	}, nil
}

func writeJPEG(path string, img image.Image) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if err := imaging.Encode(pending, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// HealthCheck reports whether the album root is writable.
func (s *Saver) HealthCheck(ctx context.Context) stage.Health {
	const name = "album"
	if strings.TrimSpace(s.root) == "" {
		return stage.Unhealthy(name, "album directory not configured")
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	probePath := probe.Name()
	_ = probe.Close()
	if err := os.Remove(probePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}

type fromCameraKey struct{}

// WithFromCamera marks the photo being saved as a fresh camera capture.
func WithFromCamera(ctx context.Context, fromCamera bool) context.Context {
	return context.WithValue(ctx, fromCameraKey{}, fromCamera)
}

func fromCameraFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(fromCameraKey{}).(bool)
	return v
}

var (
	_ stage.AlbumSaver    = (*Saver)(nil)
	_ stage.HealthChecker = (*Saver)(nil)
)
