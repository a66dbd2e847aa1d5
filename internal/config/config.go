package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mediapick/internal/media"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AlbumDir  string `toml:"album_dir"`
	ExportDir string `toml:"export_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Picker holds the post-processing switches applied to every selection.
type Picker struct {
	SkipReviewWhenMultiple bool   `toml:"skip_review_when_multiple"`
	CropAspect             string `toml:"crop_aspect"`
	SaveNewPicturesToAlbum bool   `toml:"save_new_pictures_to_album"`
	MinimumSelectionCount  int    `toml:"minimum_selection_count"`
	MaximumSelectionCount  int    `toml:"maximum_selection_count"`
	LibraryMediaType       string `toml:"library_media_type"`
	AlbumName              string `toml:"album_name"`
	ShowsFilters           bool   `toml:"shows_filters"`
	StartMode              string `toml:"start_mode"`
	PhotoFilter            string `toml:"photo_filter"`
	VideoFilter            string `toml:"video_filter"`
	ReviewConcurrency      int    `toml:"review_concurrency"`
}

// Export selects the video export backend.
type Export struct {
	Backend      string `toml:"backend"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completions    bool   `toml:"completions"`
	Failures       bool   `toml:"failures"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediapick.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Picker        Picker        `toml:"picker"`
	Export        Export        `toml:"export"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediapick.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the picker writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.AlbumDir, c.Paths.ExportDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CropPolicy returns the parsed crop_aspect setting. Load has already
// validated the value, so a parse failure here falls back to no crop.
func (c *Config) CropPolicy() media.CropPolicy {
	policy, err := media.ParseCropPolicy(c.Picker.CropAspect)
	if err != nil {
		return media.NoCrop
	}
	return policy
}

// LedgerPath returns the sqlite database that records completed selections.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// AlbumLockPath returns the lock file guarding album writes.
func (c *Config) AlbumLockPath() string {
	return filepath.Join(c.Paths.StateDir, "album.lock")
}

// FFmpegBinary returns the ffmpeg executable used for video export.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Export.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable that sits beside the
// configured ffmpeg, or "ffprobe" from PATH.
func (c *Config) FFprobeBinary() string {
	bin := c.FFmpegBinary()
	if dir := filepath.Dir(bin); dir != "." && strings.ContainsRune(bin, filepath.Separator) {
		return filepath.Join(dir, "ffprobe")
	}
	return "ffprobe"
}

// PhotoFilter returns the configured photo filter.
func (c *Config) PhotoFilter() media.FilterName {
	f, _ := media.ParseFilter(c.Picker.PhotoFilter)
	return f
}

// LibraryMediaType returns the item kinds the library may return.
func (c *Config) LibraryMediaType() media.LibraryType {
	t, _ := media.ParseLibraryType(c.Picker.LibraryMediaType)
	return t
}

// VideoFilter returns the configured video filter.
func (c *Config) VideoFilter() media.FilterName {
	f, _ := media.ParseFilter(c.Picker.VideoFilter)
	return f
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
