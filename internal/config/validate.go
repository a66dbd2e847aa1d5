package config

import (
	"errors"
	"fmt"
	"strings"

	"mediapick/internal/media"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePicker(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AlbumDir) == "" {
		return errors.New("paths.album_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validatePicker() error {
	if _, err := media.ParseCropPolicy(c.Picker.CropAspect); err != nil {
		return fmt.Errorf("picker.crop_aspect: %w", err)
	}
	switch c.Picker.StartMode {
	case startModeCamera, startModeLibrary:
	default:
		return fmt.Errorf("picker.start_mode must be %q or %q, got %q", startModeCamera, startModeLibrary, c.Picker.StartMode)
	}
	if _, err := media.ParseFilter(c.Picker.PhotoFilter); err != nil {
		return fmt.Errorf("picker.photo_filter: %w", err)
	}
	if _, err := media.ParseFilter(c.Picker.VideoFilter); err != nil {
		return fmt.Errorf("picker.video_filter: %w", err)
	}
	if c.Picker.MinimumSelectionCount < 0 {
		return errors.New("picker.minimum_selection_count must be >= 0")
	}
	if c.Picker.MaximumSelectionCount < 0 {
		return errors.New("picker.maximum_selection_count must be >= 0")
	}
	if limit := c.Picker.MaximumSelectionCount; limit > 0 && limit < c.Picker.MinimumSelectionCount {
		return fmt.Errorf("picker.maximum_selection_count (%d) must be 0 or >= minimum_selection_count (%d)", limit, c.Picker.MinimumSelectionCount)
	}
	if _, err := media.ParseLibraryType(c.Picker.LibraryMediaType); err != nil {
		return fmt.Errorf("picker.library_media_type: %w", err)
	}
	if c.Picker.ReviewConcurrency > maxReviewConcurrency {
		return fmt.Errorf("picker.review_concurrency must be <= %d", maxReviewConcurrency)
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Backend {
	case exportBackendFFmpeg:
		return nil
	case exportBackendDrapto:
		if c.Picker.VideoFilter != string(media.FilterNone) {
			return fmt.Errorf("export.backend %q cannot render picker.video_filter %q; use the ffmpeg backend", exportBackendDrapto, c.Picker.VideoFilter)
		}
		return nil
	default:
		return fmt.Errorf("export.backend must be %q or %q, got %q", exportBackendFFmpeg, exportBackendDrapto, c.Export.Backend)
	}
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
