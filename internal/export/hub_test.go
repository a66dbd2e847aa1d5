package export_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"mediapick/internal/export"
	"mediapick/internal/logging"
)

func TestCancelAllWithNothingInFlight(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	if n := hub.CancelAll(); n != 0 {
		t.Fatalf("expected no-op, cancelled %d", n)
	}
	if n := hub.CancelAll(); n != 0 {
		t.Fatalf("expected second call to be a no-op, cancelled %d", n)
	}
}

func TestCancelAllCancelsAndSupersedes(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := export.NewHub(logging.NewNop())
	first := hub.Begin(context.Background())
	second := hub.Begin(context.Background())
	if hub.Active() != 2 {
		t.Fatalf("expected 2 active operations, got %d", hub.Active())
	}

	var wg sync.WaitGroup
	for _, op := range []*export.Operation{first, second} {
		wg.Add(1)
		go func(op *export.Operation) {
			defer wg.Done()
			<-op.Context().Done()
		}(op)
	}

	if n := hub.CancelAll(); n != 2 {
		t.Fatalf("expected 2 cancelled operations, got %d", n)
	}
	wg.Wait()

	if !first.Superseded() || !second.Superseded() {
		t.Fatal("expected operations begun before CancelAll to be superseded")
	}
	if n := hub.CancelAll(); n != 0 {
		t.Fatalf("expected second CancelAll to be a no-op, cancelled %d", n)
	}
	if hub.Active() != 0 {
		t.Fatalf("expected empty hub, got %d", hub.Active())
	}

	first.Finish()
	first.Finish()
}

func TestFinishedOperationIsNotCancelledLater(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	op := hub.Begin(context.Background())
	op.Finish()
	if hub.Active() != 0 {
		t.Fatalf("expected finish to deregister, got %d active", hub.Active())
	}
	if n := hub.CancelAll(); n != 0 {
		t.Fatalf("expected nothing to cancel, got %d", n)
	}
	if op.Superseded() {
		t.Fatal("finished operation should not be superseded by an empty CancelAll")
	}
}

func TestOperationsBegunAfterCancelAllAreLive(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	old := hub.Begin(context.Background())
	hub.CancelAll()

	fresh := hub.Begin(context.Background())
	defer fresh.Finish()
	if fresh.Superseded() {
		t.Fatal("operation begun after CancelAll must not be superseded")
	}
	select {
	case <-fresh.Context().Done():
		t.Fatal("fresh operation context should be live")
	case <-time.After(10 * time.Millisecond):
	}
	if !old.Superseded() {
		t.Fatal("old operation should stay superseded")
	}
}

func TestParentCancellationPropagates(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	parent, cancel := context.WithCancel(context.Background())
	op := hub.Begin(parent)
	defer op.Finish()
	cancel()
	select {
	case <-op.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("expected parent cancellation to reach the operation")
	}
	if op.Superseded() {
		t.Fatal("parent cancellation alone does not supersede")
	}
}
