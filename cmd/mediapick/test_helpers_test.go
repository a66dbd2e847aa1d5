package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediapick/internal/config"
	"mediapick/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, mutate func(*config.Config), opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	if mutate != nil {
		mutate(cfg)
	}
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
album_dir = %q
export_dir = %q
state_dir = %q
log_dir = %q

[picker]
skip_review_when_multiple = %t
crop_aspect = %q
save_new_pictures_to_album = %t
minimum_selection_count = %d
maximum_selection_count = %d
library_media_type = %q
album_name = %q
shows_filters = %t
start_mode = %q
photo_filter = %q

[notifications]
ntfy_topic = %q

[logging]
level = %q
`,
		cfg.Paths.AlbumDir,
		cfg.Paths.ExportDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Picker.SkipReviewWhenMultiple,
		cfg.Picker.CropAspect,
		cfg.Picker.SaveNewPicturesToAlbum,
		cfg.Picker.MinimumSelectionCount,
		cfg.Picker.MaximumSelectionCount,
		cfg.Picker.LibraryMediaType,
		cfg.Picker.AlbumName,
		cfg.Picker.ShowsFilters,
		cfg.Picker.StartMode,
		cfg.Picker.PhotoFilter,
		cfg.Notifications.NtfyTopic,
		cfg.Logging.Level,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
