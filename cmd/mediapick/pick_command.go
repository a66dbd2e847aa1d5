package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/modes"
	"mediapick/internal/picker"
)

type pickedItem struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	FromCamera bool   `json:"from_camera"`
	Location   string `json:"location,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Edited     bool   `json:"edited"`
}

type pickResult struct {
	Cancelled bool         `json:"cancelled"`
	Items     []pickedItem `json:"items"`
}

func newPickCommand(ctx *commandContext) *cobra.Command {
	var capturePath string
	var confirm bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pick [paths...]",
		Short: "Run a library selection or camera capture through post-processing",
		Long: "Pick loads the given library files (or a single --camera capture), runs them\n" +
			"through filtering, cropping, review, and album saving as configured, and\n" +
			"prints the delivered selection. Ctrl-C cancels the selection.",
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case capturePath == "" && len(args) == 0:
				return errors.New("provide library paths or --camera <file>")
			case capturePath != "" && len(args) > 0:
				return errors.New("--camera cannot be combined with library paths")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			sess, err := buildSession(cfg, logger, sessionOptions{
				confirm: confirm,
				in:      cmd.InOrStdin(),
				out:     cmd.OutOrStdout(),
				warnOut: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			startMode, err := modes.ParseMode(cfg.Picker.StartMode)
			if err != nil {
				return err
			}

			var libraryDir string
			if len(args) > 0 {
				libraryDir = filepath.Dir(args[0])
			}
			var cameraDir string
			if capturePath != "" {
				cameraDir = filepath.Dir(capturePath)
			}

			p := picker.New(picker.Options{
				Pipeline:  sess.pipeline,
				Loader:    sess.loader,
				Camera:    picker.NewDirectorySurface("Camera roll", cameraDir, logger),
				Library:   picker.NewDirectorySurface("Library", libraryDir, logger),
				StartMode: startMode,
				Minimum:   cfg.Picker.MinimumSelectionCount,
				Maximum:   cfg.Picker.MaximumSelectionCount,
				MediaType: cfg.LibraryMediaType(),
				Logger:    logger,
			}, nil)

			errOut := cmd.ErrOrStderr()
			if err := p.Start(runCtx); err != nil {
				fmt.Fprintf(errOut, "warning: %v\n", err)
			}

			go func() {
				select {
				case <-runCtx.Done():
					p.Close()
				case <-p.Finished():
				}
			}()

			if err := submitPick(runCtx, p, capturePath, args, errOut); err != nil {
				if !errors.Is(err, picker.ErrFinished) {
					p.Close()
					p.Drain()
					return err
				}
			}

			batch, cancelled, err := p.Wait(context.Background())
			p.Drain()
			if err != nil {
				return err
			}

			result := describeBatch(batch, cancelled)
			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printPickResult(cmd.OutOrStdout(), result)
			}
			if cancelled {
				logging.WithContext(runCtx, logger).Info("selection cancelled by user")
				return fmt.Errorf("selection cancelled: %w", context.Canceled)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&capturePath, "camera", "", "Treat the file as a fresh camera capture")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask before keeping each edit")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the delivered selection as JSON")
	return cmd
}

// submitPick switches to the mode the input needs, then hands it over. A
// surface that fails to start is only a warning; the mode still changes.
func submitPick(ctx context.Context, p *picker.Picker, capturePath string, paths []string, warn io.Writer) error {
	coord := p.Modes()
	if capturePath != "" {
		if coord.Mode() != modes.ModeCamera {
			if err := coord.Back(ctx); err != nil {
				if errors.Is(err, modes.ErrClosed) {
					return err
				}
				fmt.Fprintf(warn, "warning: %v\n", err)
			}
		}
		return p.CapturePhoto(ctx, capturePath)
	}
	if coord.Mode() != modes.ModeLibrary {
		if err := coord.OpenLibrary(ctx); err != nil {
			if errors.Is(err, modes.ErrClosed) {
				return err
			}
			fmt.Fprintf(warn, "warning: %v\n", err)
		}
	}
	return p.Done(ctx, paths)
}

func describeBatch(batch media.Batch, cancelled bool) pickResult {
	result := pickResult{Cancelled: cancelled, Items: make([]pickedItem, 0, len(batch))}
	for i, item := range batch {
		if item == nil {
			continue
		}
		entry := pickedItem{Index: i, Kind: string(item.Kind()), FromCamera: item.IsFromCamera()}
		switch v := item.(type) {
		case media.Photo:
			if v.Asset != nil {
				entry.Location = v.Asset.Path
			}
			entry.Width, entry.Height = dimensions(v.Finalized())
			entry.Edited = v.IsModified()
		case media.Video:
			entry.Location = v.URL
			entry.Width, entry.Height = dimensions(v.Thumbnail)
		}
		result.Items = append(result.Items, entry)
	}
	return result
}

func dimensions(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func printPickResult(out io.Writer, result pickResult) {
	if result.Cancelled {
		fmt.Fprintln(out, "Selection cancelled")
		return
	}
	fmt.Fprintf(out, "Delivered %d item(s)\n", len(result.Items))
	if len(result.Items) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		source := "library"
		if item.FromCamera {
			source = "camera"
		}
		size := "-"
		if item.Width > 0 {
			size = fmt.Sprintf("%dx%d", item.Width, item.Height)
		}
		location := item.Location
		if location == "" {
			location = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(item.Index + 1),
			item.Kind,
			source,
			size,
			yesNo(item.Edited),
			location,
		})
	}
	printRows(out,
		[]string{"#", "Kind", "Source", "Size", "Edited", "Location"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
