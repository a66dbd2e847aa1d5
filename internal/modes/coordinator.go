package modes

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mediapick/internal/logging"
	"mediapick/internal/services"
)

// ErrClosed is returned by transitions attempted after Close.
var ErrClosed = errors.New("picker closed")

// Surface is the live presentation for one mode. Start rechecks access and
// brings the surface up; Stop pauses or tears it down.
type Surface interface {
	Start(ctx context.Context) error
	Stop()
}

// Canceller stops in-flight work. *export.Hub satisfies it.
type Canceller interface {
	CancelAll() int
}

// Options configures a Coordinator.
type Options struct {
	Camera  Surface
	Library Surface
	Hub     Canceller
	// Minimum is the library selection count that enables the affirmative
	// action.
	Minimum int
	// Maximum disables the affirmative action above this count. Zero means
	// no limit.
	Maximum int
	// OnActionBar receives every recomputed action bar.
	OnActionBar func(ActionBar)
	// OnClose emits the cancelled completion.
	OnClose func()
	Logger  *slog.Logger
}

// Coordinator is the camera/library state machine.
type Coordinator struct {
	opts   Options
	logger *slog.Logger

	transition sync.Mutex

	mu       sync.Mutex
	mode     Mode
	started  bool
	closed   bool
	count    int
	override bool
	loading  bool
	flash    FlashState
}

// NewCoordinator constructs a coordinator in camera mode. No surface is
// started until Start.
func NewCoordinator(opts Options) *Coordinator {
	return &Coordinator{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "modes"),
		mode:   ModeCamera,
		flash:  FlashAuto,
	}
}

// Start enters the initial mode and starts its surface.
func (c *Coordinator) Start(ctx context.Context, initial Mode) error {
	if initial == "" {
		initial = ModeCamera
	}
	return c.enter(ctx, initial)
}

// OpenLibrary moves from camera to library.
func (c *Coordinator) OpenLibrary(ctx context.Context) error {
	return c.enter(ctx, ModeLibrary)
}

// Back returns from library to camera. In camera mode it only refreshes
// the action bar.
func (c *Coordinator) Back(ctx context.Context) error {
	return c.enter(ctx, ModeCamera)
}

func (c *Coordinator) enter(ctx context.Context, target Mode) error {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	previous, started := c.mode, c.started
	c.mu.Unlock()

	if started && previous == target {
		c.publish()
		return nil
	}

	if started {
		if s := c.surface(previous); s != nil {
			s.Stop()
		}
	}

	c.mu.Lock()
	c.mode = target
	c.started = true
	c.mu.Unlock()

	var startErr error
	if s := c.surface(target); s != nil {
		startErr = s.Start(services.WithMode(ctx, string(target)))
	}
	if startErr != nil {
		logging.WarnWithContext(c.logger, "surface failed to start", "surface_start_failed",
			logging.String(logging.FieldMode, string(target)),
			logging.Error(startErr),
			logging.String(logging.FieldErrorHint, "check permissions on the capture and library paths"),
			logging.String(logging.FieldImpact, "mode is shown without a live surface"),
		)
	} else {
		c.logger.Debug("mode entered", logging.String(logging.FieldMode, string(target)), logging.String("from", string(previous)))
	}
	c.publish()
	return startErr
}

func (c *Coordinator) surface(m Mode) Surface {
	if m == ModeLibrary {
		return c.opts.Library
	}
	return c.opts.Camera
}

// Mode returns the current mode.
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetSelectionCount records the library selection size and refreshes the bar.
func (c *Coordinator) SetSelectionCount(n int) {
	c.update(func() { c.count = n })
}

// SetFirstSelectionOverride enables the affirmative action regardless of
// the selection minimum.
func (c *Coordinator) SetFirstSelectionOverride(on bool) {
	c.update(func() { c.override = on })
}

// SetLoading marks the selection as being processed.
func (c *Coordinator) SetLoading(on bool) {
	c.update(func() { c.loading = on })
}

// SetFlash updates the camera flash indicator.
func (c *Coordinator) SetFlash(state FlashState) {
	c.update(func() { c.flash = state })
}

func (c *Coordinator) update(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn()
	c.mu.Unlock()
	c.publish()
}

// ActionBar returns the controls for the current state.
func (c *Coordinator) ActionBar() ActionBar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.barLocked()
}

func (c *Coordinator) barLocked() ActionBar {
	return computeBar(barState{
		mode:           c.mode,
		selectionCount: c.count,
		minimum:        c.opts.Minimum,
		maximum:        c.opts.Maximum,
		override:       c.override,
		loading:        c.loading,
		flash:          c.flash,
	})
}

func (c *Coordinator) publish() {
	if c.opts.OnActionBar == nil {
		return
	}
	c.opts.OnActionBar(c.ActionBar())
}

// Close is terminal. It cancels in-flight work, emits the cancelled
// completion, then stops the live surface. It returns false when the
// coordinator was already closed.
func (c *Coordinator) Close() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	c.mu.Unlock()

	cancelled := 0
	if c.opts.Hub != nil {
		cancelled = c.opts.Hub.CancelAll()
	}
	if c.opts.OnClose != nil {
		c.opts.OnClose()
	}

	c.transition.Lock()
	c.mu.Lock()
	mode, started := c.mode, c.started
	c.mu.Unlock()
	if started {
		if s := c.surface(mode); s != nil {
			s.Stop()
		}
	}
	c.transition.Unlock()

	c.logger.Info("picker closed",
		logging.String(logging.FieldMode, string(mode)),
		logging.Int("cancelled_operations", cancelled),
	)
	return true
}

// Closed reports whether Close has run.
func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
