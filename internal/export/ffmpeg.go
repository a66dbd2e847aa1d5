package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/media/ffprobe"
	"mediapick/internal/services"
	"mediapick/internal/stage"
)

var commandContext = exec.CommandContext

// killGrace bounds how long Wait keeps reading pipes after the process
// group has been killed.
const killGrace = 5 * time.Second

var videoFilterChains = map[media.FilterName]string{
	media.FilterMono:  "hue=s=0",
	media.FilterSepia: "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131",
	media.FilterVivid: "eq=saturation=1.5:contrast=1.1",
	media.FilterSoft:  "eq=contrast=0.92:brightness=0.03,gblur=sigma=0.8",
}

// FFmpeg exports clips by shelling out to ffmpeg. Each run gets its own
// process group so cancellation also stops any helpers ffmpeg spawns.
type FFmpeg struct {
	binary string
	probe  string
	logger *slog.Logger
}

// FFmpegOption configures the FFmpeg exporter.
type FFmpegOption func(*FFmpeg)

// WithProbeBinary sets the ffprobe used to verify exports. An empty value
// disables verification.
func WithProbeBinary(binary string) FFmpegOption {
	return func(f *FFmpeg) { f.probe = strings.TrimSpace(binary) }
}

// NewFFmpeg constructs an exporter for the given ffmpeg binary.
func NewFFmpeg(binary string, logger *slog.Logger, opts ...FFmpegOption) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	f := &FFmpeg{binary: binary, logger: logging.NewComponentLogger(logger, "ffmpeg")}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FFmpeg) Name() string { return "ffmpeg" }

// Export renders req.Input through the named filter into req.OutputDir. The
// unfiltered case remuxes without re-encoding.
func (f *FFmpeg) Export(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", services.Wrap(services.ErrValidation, "export", "ffmpeg", "invalid request", err)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "export", "ffmpeg", "create output directory", err)
	}

	out := outputPath(req, ".mp4")
	args, err := buildArgs(req, out)
	if err != nil {
		return "", err
	}

	logger := logging.WithContext(ctx, f.logger)
	logger.Debug("ffmpeg export starting", logging.String("input", req.Input), logging.String("filter", string(req.Filter)))
	started := time.Now()

	if err := f.run(ctx, args); err != nil {
		_ = os.Remove(out)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", services.Wrap(services.ErrExternalTool, "export", "ffmpeg", "export failed", err)
	}

	if f.probe != "" {
		result, err := ffprobe.Inspect(ctx, f.probe, out)
		if err != nil {
			_ = os.Remove(out)
			return "", services.Wrap(services.ErrExternalTool, "export", "ffprobe", "verify export", err)
		}
		if !result.HasVideo() {
			_ = os.Remove(out)
			return "", services.Wrap(services.ErrValidation, "export", "ffprobe", "export has no video stream", nil)
		}
	}

	logger.Info("ffmpeg export complete",
		logging.String("output", out),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = killGrace

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if tail := lastLines(stderr.String(), 5); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
		return err
	}
	return nil
}

// HealthCheck reports whether the ffmpeg binary is on PATH.
func (f *FFmpeg) HealthCheck(context.Context) stage.Health {
	if _, err := exec.LookPath(f.binary); err != nil {
		return stage.Unhealthy("ffmpeg", fmt.Sprintf("binary %q not found", f.binary))
	}
	return stage.Healthy("ffmpeg")
}

func buildArgs(req Request, out string) ([]string, error) {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y", "-i", req.Input}
	switch req.Filter {
	case "", media.FilterNone:
		args = append(args, "-map", "0", "-c", "copy")
	default:
		chain, ok := videoFilterChains[req.Filter]
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "export", "ffmpeg", fmt.Sprintf("unsupported filter %q", req.Filter), nil)
		}
		args = append(args,
			"-vf", chain,
			"-c:v", "libx264", "-preset", "veryfast", "-crf", "20", "-pix_fmt", "yuv420p",
			"-c:a", "copy",
		)
	}
	return append(args, "-movflags", "+faststart", out), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}

var _ Exporter = (*FFmpeg)(nil)
