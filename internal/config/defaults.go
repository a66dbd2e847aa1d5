package config

const (
	defaultConfigPath        = "~/.config/mediapick/config.toml"
	defaultAlbumDir          = "~/Pictures/mediapick"
	defaultExportDir         = "~/.cache/mediapick/exports"
	defaultStateDir          = "~/.local/share/mediapick"
	defaultLogDir            = "~/.local/share/mediapick/logs"
	defaultAlbumName         = "Mediapick"
	defaultCropAspect        = "none"
	defaultStartMode         = "camera"
	defaultPhotoFilter       = "none"
	defaultVideoFilter       = "none"
	defaultReviewConcurrency = 4
	defaultMinimumSelection  = 1
	defaultMaximumSelection  = 10
	defaultLibraryMediaType  = "photo_and_video"
	defaultExportBackend     = "ffmpeg"
	defaultFFmpegBinary      = "ffmpeg"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultNotifyTimeout     = 10
	maxReviewConcurrency     = 32
	ntfyTopicEnv             = "MEDIAPICK_NTFY_TOPIC"
	startModeCamera          = "camera"
	startModeLibrary         = "library"
	exportBackendFFmpeg      = "ffmpeg"
	exportBackendDrapto      = "drapto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AlbumDir:  defaultAlbumDir,
			ExportDir: defaultExportDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Picker: Picker{
			SkipReviewWhenMultiple: false,
			CropAspect:             defaultCropAspect,
			SaveNewPicturesToAlbum: true,
			MinimumSelectionCount:  defaultMinimumSelection,
			MaximumSelectionCount:  defaultMaximumSelection,
			LibraryMediaType:       defaultLibraryMediaType,
			AlbumName:              defaultAlbumName,
			ShowsFilters:           true,
			StartMode:              defaultStartMode,
			PhotoFilter:            defaultPhotoFilter,
			VideoFilter:            defaultVideoFilter,
			ReviewConcurrency:      defaultReviewConcurrency,
		},
		Export: Export{
			Backend:      defaultExportBackend,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completions:    false,
			Failures:       true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
