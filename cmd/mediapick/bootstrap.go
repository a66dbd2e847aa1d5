package main

import (
	"fmt"
	"io"
	"log/slog"

	"mediapick/internal/album"
	"mediapick/internal/assets"
	"mediapick/internal/config"
	"mediapick/internal/editing"
	"mediapick/internal/export"
	"mediapick/internal/ledger"
	"mediapick/internal/notifications"
	"mediapick/internal/stage"
	"mediapick/internal/workflow"
)

// session bundles the long-lived components one pick needs.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *ledger.Store
	loader   *assets.Loader
	pipeline *workflow.Pipeline
}

type sessionOptions struct {
	confirm bool
	in      io.Reader
	out     io.Writer
	warnOut io.Writer
}

func buildSession(cfg *config.Config, logger *slog.Logger, opts sessionOptions) (*session, error) {
	store, err := ledger.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	hub := export.NewHub(logger)
	stages := buildStages(cfg, hub, store, logger, opts)

	pipeline := workflow.NewPipeline(
		workflow.OptionsFromConfig(cfg),
		stages,
		hub,
		logger,
		workflow.WithRecorder(store),
		workflow.WithNotifier(notifications.NewService(cfg)),
		workflow.WithWarningHook(func(w workflow.Warning) {
			if opts.warnOut != nil {
				fmt.Fprintf(opts.warnOut, "warning: %s failed for item %d: %v\n", w.Stage, w.Index, w.Err)
			}
		}),
	)

	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		loader:   assets.NewLoader(cfg.FFmpegBinary(), cfg.FFprobeBinary(), logger),
		pipeline: pipeline,
	}, nil
}

func (s *session) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

func buildExporter(cfg *config.Config, logger *slog.Logger) export.Exporter {
	if cfg.Export.Backend == "drapto" {
		return export.NewDrapto(logger)
	}
	return export.NewFFmpeg(cfg.FFmpegBinary(), logger, export.WithProbeBinary(cfg.FFprobeBinary()))
}

// buildStages wires the stage handlers. With confirm set, the single-item
// handlers and the review stage ask on the terminal before keeping results;
// the reviewer's inner handlers stay unprompted so a batch is confirmed once.
func buildStages(cfg *config.Config, hub *export.Hub, store *ledger.Store, logger *slog.Logger, opts sessionOptions) stage.Set {
	photo := editing.NewPhotoFilter(cfg.PhotoFilter(), logger)
	video := editing.NewVideoFilter(buildExporter(cfg, logger), hub, cfg.VideoFilter(), cfg.Paths.ExportDir, logger)
	cropper := editing.NewCropper(logger)

	reviewOpts := []editing.ReviewerOption{
		editing.WithCrop(cropper, cfg.CropPolicy()),
		editing.WithConcurrency(cfg.Picker.ReviewConcurrency),
	}
	if cfg.Picker.ShowsFilters {
		reviewOpts = append(reviewOpts, editing.WithFilters(photo, video))
	}

	set := stage.Set{
		Classifier:  assets.NewClassifier(),
		PhotoFilter: photo,
		VideoFilter: video,
		Cropper:     cropper,
		Reviewer:    editing.NewReviewer(hub, logger, reviewOpts...),
		Album:       album.NewSaver(cfg.Paths.AlbumDir, cfg.AlbumLockPath(), logger, album.WithRecorder(store)),
	}

	if opts.confirm {
		prompter := editing.NewTerminalPrompter(opts.in, opts.out)
		set.PhotoFilter = editing.ConfirmFilter(set.PhotoFilter, prompter)
		set.VideoFilter = editing.ConfirmFilter(set.VideoFilter, prompter)
		set.Cropper = editing.ConfirmCropper(set.Cropper, prompter)
		set.Reviewer = editing.ConfirmReviewer(set.Reviewer, prompter)
	}
	return set
}
