package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mediapick/internal/logging"
	"mediapick/internal/media"
	"mediapick/internal/modes"
	"mediapick/internal/services"
	"mediapick/internal/workflow"
)

var (
	// ErrFinished is returned once the picker has delivered its result.
	ErrFinished = errors.New("picker already finished")
	// ErrBusy is returned while a selection is still being processed.
	ErrBusy = errors.New("selection already processing")
	// ErrSelectionTooSmall is returned when Done is called below the minimum.
	ErrSelectionTooSmall = errors.New("selection below minimum")
	// ErrSelectionTooLarge is returned when Done is called above the maximum.
	ErrSelectionTooLarge = errors.New("selection above maximum")
	// ErrMediaTypeNotAllowed is returned when the library selection holds a
	// kind the picker was not opened for.
	ErrMediaTypeNotAllowed = errors.New("media type not allowed")
	// ErrWrongMode is returned when an action does not fit the current mode.
	ErrWrongMode = errors.New("action not available in current mode")
)

// Loader resolves capture and library paths into items.
type Loader interface {
	LoadLibrary(ctx context.Context, paths []string) (media.Batch, error)
	LoadCapture(ctx context.Context, path string) (media.Item, error)
}

// Options wires a Picker.
type Options struct {
	Pipeline  *workflow.Pipeline
	Loader    Loader
	Camera    modes.Surface
	Library   modes.Surface
	StartMode modes.Mode
	Minimum   int
	// Maximum caps library selections. Zero means no limit.
	Maximum int
	// MediaType restricts library selections. Empty allows both kinds.
	MediaType   media.LibraryType
	OnActionBar func(modes.ActionBar)
	Logger      *slog.Logger
}

// Picker drives one picking session to a single result.
type Picker struct {
	pipeline  *workflow.Pipeline
	loader    Loader
	coord     *modes.Coordinator
	startMode modes.Mode
	minimum   int
	maximum   int
	mediaType media.LibraryType
	logger    *slog.Logger

	once      sync.Once
	done      chan struct{}
	onFinish  workflow.Completion
	result    media.Batch
	cancelled bool

	mu     sync.Mutex
	active *workflow.Invocation
}

// New builds a picker. onFinish receives the single final result.
func New(opts Options, onFinish workflow.Completion) *Picker {
	p := &Picker{
		pipeline:  opts.Pipeline,
		loader:    opts.Loader,
		startMode: opts.StartMode,
		minimum:   opts.Minimum,
		maximum:   opts.Maximum,
		mediaType: opts.MediaType,
		logger:    logging.NewComponentLogger(opts.Logger, "picker"),
		done:      make(chan struct{}),
		onFinish:  onFinish,
	}
	p.coord = modes.NewCoordinator(modes.Options{
		Camera:      opts.Camera,
		Library:     opts.Library,
		Hub:         opts.Pipeline.Hub(),
		Minimum:     opts.Minimum,
		Maximum:     opts.Maximum,
		OnActionBar: opts.OnActionBar,
		OnClose:     func() { p.finish(media.Batch{}, true) },
		Logger:      opts.Logger,
	})
	return p
}

// Modes exposes the coordinator for mode switches and action bar state.
func (p *Picker) Modes() *modes.Coordinator { return p.coord }

// Start presents the configured start mode.
func (p *Picker) Start(ctx context.Context) error {
	return p.coord.Start(ctx, p.startMode)
}

// CapturePhoto sends a camera capture through the pipeline as a single
// camera-originated item.
func (p *Picker) CapturePhoto(ctx context.Context, path string) error {
	if p.coord.Mode() != modes.ModeCamera {
		return ErrWrongMode
	}
	if err := p.ready(); err != nil {
		return err
	}
	item, err := p.loader.LoadCapture(ctx, path)
	if err != nil {
		return err
	}
	return p.submit(ctx, media.Batch{item}, modes.ModeCamera)
}

// Done resolves the library selection and sends it through the pipeline.
func (p *Picker) Done(ctx context.Context, paths []string) error {
	if p.coord.Mode() != modes.ModeLibrary {
		return ErrWrongMode
	}
	if err := p.ready(); err != nil {
		return err
	}
	p.coord.SetSelectionCount(len(paths))
	if !p.coord.ActionBar().AffirmativeEnabled {
		if p.maximum > 0 && len(paths) > p.maximum {
			return ErrSelectionTooLarge
		}
		return ErrSelectionTooSmall
	}
	batch, err := p.loader.LoadLibrary(ctx, paths)
	if err != nil {
		return err
	}
	if err := p.checkMediaType(batch); err != nil {
		return err
	}
	return p.submit(ctx, batch, modes.ModeLibrary)
}

func (p *Picker) checkMediaType(batch media.Batch) error {
	if p.mediaType == "" {
		return nil
	}
	for i, item := range batch {
		if item == nil || !p.mediaType.Allows(item.Kind()) {
			kind := "empty"
			if item != nil {
				kind = string(item.Kind())
			}
			return services.Wrap(ErrMediaTypeNotAllowed, "picker", "done",
				fmt.Sprintf("item %d is a %s; library is limited to %s", i, kind, p.mediaType), nil)
		}
	}
	return nil
}

func (p *Picker) ready() error {
	if p.finished() {
		return ErrFinished
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		return ErrBusy
	}
	return nil
}

func (p *Picker) submit(ctx context.Context, batch media.Batch, mode modes.Mode) error {
	p.mu.Lock()
	if p.active != nil {
		p.mu.Unlock()
		return ErrBusy
	}
	if p.finished() {
		p.mu.Unlock()
		return ErrFinished
	}
	p.coord.SetLoading(true)
	ctx = services.WithMode(ctx, string(mode))
	p.active = p.pipeline.Process(ctx, batch, func(out media.Batch, cancelled bool) {
		p.coord.SetLoading(false)
		p.finish(out, cancelled)
	})
	p.mu.Unlock()

	logging.WithContext(ctx, p.logger).Info("selection submitted", logging.Int(logging.FieldItemCount, len(batch)))
	return nil
}

// Close ends the session as cancelled. In-flight work is cancelled through
// the hub first. Calling Close after the result was delivered does nothing.
func (p *Picker) Close() {
	if !p.coord.Close() {
		return
	}
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if active != nil {
		active.Cancel()
	}
}

func (p *Picker) finish(batch media.Batch, cancelled bool) {
	p.once.Do(func() {
		if cancelled {
			batch = media.Batch{}
		}
		p.result = batch
		p.cancelled = cancelled
		if p.onFinish != nil {
			p.onFinish(batch, cancelled)
		}
		close(p.done)
	})
}

func (p *Picker) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Finished is closed when the result has been delivered.
func (p *Picker) Finished() <-chan struct{} { return p.done }

// Wait blocks for the result or until ctx ends.
func (p *Picker) Wait(ctx context.Context) (media.Batch, bool, error) {
	select {
	case <-p.done:
		return p.result, p.cancelled, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Drain waits for the pipeline goroutine of the last submission to finish
// its bookkeeping.
func (p *Picker) Drain() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if active != nil {
		<-active.Done()
	}
}
