package picker

import (
	"context"
	"errors"
	"log/slog"

	"mediapick/internal/logging"
	"mediapick/internal/preflight"
)

// DirectorySurface is a headless surface backed by a directory. Starting it
// rechecks read/write access; stopping only logs.
type DirectorySurface struct {
	name   string
	dir    string
	logger *slog.Logger
}

// NewDirectorySurface builds a surface named name over dir.
func NewDirectorySurface(name, dir string, logger *slog.Logger) *DirectorySurface {
	return &DirectorySurface{
		name:   name,
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "surface"),
	}
}

// Start rechecks access to the directory.
func (s *DirectorySurface) Start(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	result := preflight.CheckDirectoryAccess(s.name, s.dir)
	if !result.Passed {
		return errors.New(result.Detail)
	}
	logging.WithContext(ctx, s.logger).Debug("surface started", logging.String("surface", s.name), logging.String("dir", s.dir))
	return nil
}

// Stop releases the surface.
func (s *DirectorySurface) Stop() {
	s.logger.Debug("surface stopped", logging.String("surface", s.name))
}
