package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePicker()
	c.normalizeExport()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AlbumDir, err = expandPath(c.Paths.AlbumDir); err != nil {
		return fmt.Errorf("paths.album_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePicker() {
	c.Picker.CropAspect = strings.ToLower(strings.TrimSpace(c.Picker.CropAspect))
	if c.Picker.CropAspect == "" {
		c.Picker.CropAspect = defaultCropAspect
	}
	c.Picker.StartMode = strings.ToLower(strings.TrimSpace(c.Picker.StartMode))
	if c.Picker.StartMode == "" {
		c.Picker.StartMode = defaultStartMode
	}
	c.Picker.PhotoFilter = strings.ToLower(strings.TrimSpace(c.Picker.PhotoFilter))
	if c.Picker.PhotoFilter == "" {
		c.Picker.PhotoFilter = defaultPhotoFilter
	}
	c.Picker.VideoFilter = strings.ToLower(strings.TrimSpace(c.Picker.VideoFilter))
	if c.Picker.VideoFilter == "" {
		c.Picker.VideoFilter = defaultVideoFilter
	}
	c.Picker.LibraryMediaType = strings.ToLower(strings.TrimSpace(c.Picker.LibraryMediaType))
	if c.Picker.LibraryMediaType == "" {
		c.Picker.LibraryMediaType = defaultLibraryMediaType
	}
	c.Picker.AlbumName = strings.TrimSpace(c.Picker.AlbumName)
	if c.Picker.AlbumName == "" {
		c.Picker.AlbumName = defaultAlbumName
	}
	if c.Picker.ReviewConcurrency <= 0 {
		c.Picker.ReviewConcurrency = defaultReviewConcurrency
	}
}

func (c *Config) normalizeExport() {
	c.Export.Backend = strings.ToLower(strings.TrimSpace(c.Export.Backend))
	if c.Export.Backend == "" {
		c.Export.Backend = defaultExportBackend
	}
	c.Export.FFmpegBinary = strings.TrimSpace(c.Export.FFmpegBinary)
	if c.Export.FFmpegBinary == "" {
		c.Export.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv(ntfyTopicEnv); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
