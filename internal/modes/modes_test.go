package modes_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mediapick/internal/export"
	"mediapick/internal/logging"
	"mediapick/internal/modes"
	"mediapick/internal/services"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type recordingSurface struct {
	name     string
	log      *eventLog
	startErr error
}

func (s *recordingSurface) Start(ctx context.Context) error {
	mode, _ := services.ModeFromContext(ctx)
	s.log.add("start " + s.name + " as " + mode)
	return s.startErr
}

func (s *recordingSurface) Stop() { s.log.add("stop " + s.name) }

func newCoordinator(log *eventLog, opts modes.Options) *modes.Coordinator {
	if opts.Camera == nil {
		opts.Camera = &recordingSurface{name: "camera", log: log}
	}
	if opts.Library == nil {
		opts.Library = &recordingSurface{name: "library", log: log}
	}
	opts.Logger = logging.NewNop()
	return modes.NewCoordinator(opts)
}

func TestParseMode(t *testing.T) {
	if m, err := modes.ParseMode(" Library "); err != nil || m != modes.ModeLibrary {
		t.Fatalf("unexpected parse result %q err=%v", m, err)
	}
	if _, err := modes.ParseMode("gallery"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestTransitionsStopBeforeStart(t *testing.T) {
	log := &eventLog{}
	c := newCoordinator(log, modes.Options{})
	ctx := context.Background()

	if err := c.Start(ctx, modes.ModeCamera); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.OpenLibrary(ctx); err != nil {
		t.Fatalf("OpenLibrary failed: %v", err)
	}
	if err := c.OpenLibrary(ctx); err != nil {
		t.Fatalf("re-entering library failed: %v", err)
	}
	if err := c.Back(ctx); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if err := c.Back(ctx); err != nil {
		t.Fatalf("Back in camera failed: %v", err)
	}

	want := []string{
		"start camera as camera",
		"stop camera",
		"start library as library",
		"stop library",
		"start camera as camera",
	}
	if diff := cmp.Diff(want, log.snapshot()); diff != "" {
		t.Fatalf("unexpected surface calls (-want +got):\n%s", diff)
	}
	if c.Mode() != modes.ModeCamera {
		t.Fatalf("expected camera mode, got %s", c.Mode())
	}
}

func TestReenteringSameModeRecomputesBar(t *testing.T) {
	log := &eventLog{}
	var bars []modes.ActionBar
	c := newCoordinator(log, modes.Options{OnActionBar: func(b modes.ActionBar) { bars = append(bars, b) }})
	ctx := context.Background()
	_ = c.Start(ctx, modes.ModeLibrary)
	_ = c.OpenLibrary(ctx)
	if len(bars) != 2 {
		t.Fatalf("expected a bar per mode change, got %d", len(bars))
	}
	if len(log.snapshot()) != 1 {
		t.Fatalf("same-mode entry must not restart the surface: %v", log.snapshot())
	}
}

func TestStartErrorIsReportedButModeChanges(t *testing.T) {
	log := &eventLog{}
	denied := errors.New("permission denied")
	c := newCoordinator(log, modes.Options{Library: &recordingSurface{name: "library", log: log, startErr: denied}})
	ctx := context.Background()
	_ = c.Start(ctx, modes.ModeCamera)
	if err := c.OpenLibrary(ctx); !errors.Is(err, denied) {
		t.Fatalf("expected start error, got %v", err)
	}
	if c.Mode() != modes.ModeLibrary {
		t.Fatalf("expected library mode after failed start, got %s", c.Mode())
	}
}

func TestActionBarRules(t *testing.T) {
	c := newCoordinator(&eventLog{}, modes.Options{Minimum: 2})
	ctx := context.Background()

	_ = c.Start(ctx, modes.ModeCamera)
	c.SetFlash(modes.FlashOn)
	bar := c.ActionBar()
	if bar.Affirmative || bar.Flash != modes.FlashOn || !bar.Cancel {
		t.Fatalf("unexpected camera bar %+v", bar)
	}

	_ = c.OpenLibrary(ctx)
	c.SetSelectionCount(1)
	if bar := c.ActionBar(); !bar.Affirmative || bar.AffirmativeEnabled || bar.Flash != "" || !bar.Cancel {
		t.Fatalf("expected disabled affirmative below minimum, got %+v", bar)
	}
	c.SetFirstSelectionOverride(true)
	if !c.ActionBar().AffirmativeEnabled {
		t.Fatal("override should enable the affirmative action")
	}
	c.SetFirstSelectionOverride(false)
	c.SetSelectionCount(2)
	if !c.ActionBar().AffirmativeEnabled {
		t.Fatal("reaching the minimum should enable the affirmative action")
	}
	c.SetLoading(true)
	if bar := c.ActionBar(); bar.AffirmativeEnabled || !bar.Loading {
		t.Fatalf("loading should disable the affirmative action, got %+v", bar)
	}
}

func TestActionBarMaximum(t *testing.T) {
	c := newCoordinator(&eventLog{}, modes.Options{Minimum: 1, Maximum: 3})
	ctx := context.Background()
	_ = c.Start(ctx, modes.ModeLibrary)

	c.SetSelectionCount(3)
	if !c.ActionBar().AffirmativeEnabled {
		t.Fatal("selection at the maximum should be allowed")
	}
	c.SetSelectionCount(4)
	if c.ActionBar().AffirmativeEnabled {
		t.Fatal("selection above the maximum should disable the affirmative action")
	}
	c.SetFirstSelectionOverride(true)
	if c.ActionBar().AffirmativeEnabled {
		t.Fatal("override must not lift the maximum")
	}

	unlimited := newCoordinator(&eventLog{}, modes.Options{Minimum: 1})
	_ = unlimited.Start(ctx, modes.ModeLibrary)
	unlimited.SetSelectionCount(500)
	if !unlimited.ActionBar().AffirmativeEnabled {
		t.Fatal("zero maximum should not limit the selection")
	}
}

func TestCloseCancelsHubThenCompletes(t *testing.T) {
	log := &eventLog{}
	hub := export.NewHub(logging.NewNop())
	op := hub.Begin(context.Background())
	defer op.Finish()

	completions := 0
	c := newCoordinator(log, modes.Options{
		Hub: hub,
		OnClose: func() {
			if op.Context().Err() == nil {
				t.Error("hub must be cancelled before completion is emitted")
			}
			completions++
			log.add("completion")
		},
	})
	ctx := context.Background()
	_ = c.Start(ctx, modes.ModeLibrary)

	if !c.Close() {
		t.Fatal("first Close should report true")
	}
	if c.Close() {
		t.Fatal("second Close should be a no-op")
	}
	if completions != 1 {
		t.Fatalf("expected one completion, got %d", completions)
	}
	if !op.Superseded() {
		t.Fatal("operation begun before Close should be superseded")
	}
	want := []string{"start library as library", "completion", "stop library"}
	if diff := cmp.Diff(want, log.snapshot()); diff != "" {
		t.Fatalf("unexpected close order (-want +got):\n%s", diff)
	}
	if err := c.Back(ctx); !errors.Is(err, modes.ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
	if !c.Closed() {
		t.Fatal("expected Closed to report true")
	}
}
