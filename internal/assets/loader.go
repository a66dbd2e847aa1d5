package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/media/ffprobe"
	"mediapick/internal/services"
)

var commandContext = exec.CommandContext

const (
	thumbnailWidth  = 320
	thumbnailHeight = 180
)

var videoExtensions = map[string]struct{}{
	".mov": {}, ".mp4": {}, ".m4v": {}, ".mkv": {}, ".webm": {}, ".avi": {}, ".3gp": {},
}

// Loader resolves paths into picker items.
type Loader struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// NewLoader constructs a loader. ffmpegBinary grabs video thumbnails and
// ffprobeBinary validates clips; either may be empty to skip that step.
func NewLoader(ffmpegBinary, ffprobeBinary string, logger *slog.Logger) *Loader {
	return &Loader{
		ffmpeg:  strings.TrimSpace(ffmpegBinary),
		ffprobe: strings.TrimSpace(ffprobeBinary),
		logger:  logging.NewComponentLogger(logger, "assets"),
	}
}

// IsVideoPath reports whether path names a video by extension.
func IsVideoPath(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadLibrary resolves library picks in order. Any unreadable path fails
// the whole batch.
func (l *Loader) LoadLibrary(ctx context.Context, paths []string) (media.Batch, error) {
	batch := make(media.Batch, 0, len(paths))
	for _, path := range paths {
		item, err := l.load(ctx, path, false)
		if err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}
	return batch, nil
}

// LoadCapture resolves a camera capture. Captures carry no library asset.
func (l *Loader) LoadCapture(ctx context.Context, path string) (media.Item, error) {
	return l.load(ctx, path, true)
}

func (l *Loader) load(ctx context.Context, path string, fromCamera bool) (media.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "load", "resolve", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "load", "stat", abs, err)
	}
	if IsVideoPath(abs) {
		return l.loadVideo(ctx, abs, fromCamera)
	}
	return l.loadPhoto(abs, fromCamera)
}

func (l *Loader) loadPhoto(path string, fromCamera bool) (media.Photo, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return media.Photo{}, services.Wrap(services.ErrValidation, "load", "decode photo", path, err)
	}
	photo := media.Photo{Image: img, FromCamera: fromCamera}
	if fromCamera {
		return photo, nil
	}
	contentType, err := sniff(path)
	if err != nil {
		return media.Photo{}, services.Wrap(services.ErrNotFound, "load", "sniff", path, err)
	}
	photo.Asset = &media.AssetRef{ID: uuid.NewString(), Path: path, ContentType: contentType}
	return photo, nil
}

func (l *Loader) loadVideo(ctx context.Context, path string, fromCamera bool) (media.Video, error) {
	video := media.Video{URL: path, FromCamera: fromCamera}
	offset := time.Duration(0)
	if l.ffprobe != "" {
		probe, err := ffprobe.Inspect(ctx, l.ffprobe, path)
		if err != nil {
			return media.Video{}, services.Wrap(services.ErrExternalTool, "load", "probe video", path, err)
		}
		if !probe.HasVideo() {
			return media.Video{}, services.Wrap(services.ErrValidation, "load", "probe video", path+" has no video stream", nil)
		}
		offset = probe.ThumbnailOffset()
	}

	thumb, err := l.thumbnail(ctx, path, offset)
	if err != nil {
		l.logger.Debug("thumbnail unavailable; using placeholder", logging.String("path", path), logging.Error(err))
		thumb = imaging.New(thumbnailWidth, thumbnailHeight, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	}
	video.Thumbnail = thumb
	return video, nil
}

func (l *Loader) thumbnail(ctx context.Context, path string, offset time.Duration) (image.Image, error) {
	if l.ffmpeg == "" {
		return nil, errors.New("no ffmpeg configured")
	}
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe", "-vcodec", "png", "-",
	}
	cmd := commandContext(ctx, l.ffmpeg, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame grab: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	frame, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return imaging.Fit(frame, thumbnailWidth, thumbnailHeight, imaging.Lanczos), nil
}
