package workflow

import (
	"context"
	"testing"

	"mediapick/internal/export"
	"mediapick/internal/logging"
	"mediapick/internal/media"
)

func TestCompleteRechecksStaleBeforeDelivery(t *testing.T) {
	hub := export.NewHub(logging.NewNop())
	op := hub.Begin(context.Background())
	defer op.Finish()

	var gotBatch media.Batch
	gotCancelled := false
	inv := newInvocation("inv", func() {}, func(batch media.Batch, cancelled bool) {
		gotBatch, gotCancelled = batch, cancelled
	})

	// The run finished successfully, then the hub was cancelled before the
	// completion was delivered.
	batch := media.Batch{media.Photo{}}
	if n := hub.CancelAll(); n != 1 {
		t.Fatalf("expected one cancelled operation, got %d", n)
	}
	if !inv.complete(batch, false, op.Superseded) {
		t.Fatal("first complete should fire")
	}
	if !gotCancelled || len(gotBatch) != 0 {
		t.Fatalf("expected cancelled empty delivery, got cancelled=%v len=%d", gotCancelled, len(gotBatch))
	}
	if b, cancelled := inv.batch, inv.cancelled; !cancelled || len(b) != 0 {
		t.Fatalf("invocation state not cancelled: cancelled=%v len=%d", cancelled, len(b))
	}
	if inv.complete(batch, false, nil) {
		t.Fatal("second complete must not fire")
	}
}

func TestCompleteDeliversWhenNotStale(t *testing.T) {
	var got media.Batch
	inv := newInvocation("inv", func() {}, func(batch media.Batch, cancelled bool) {
		if cancelled {
			t.Error("unexpected cancellation")
		}
		got = batch
	})
	inv.complete(media.Batch{media.Photo{}, media.Video{URL: "v"}}, false, func() bool { return false })
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
}
