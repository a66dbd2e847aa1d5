package workflow

import (
	"context"
	"sync"

	"mediapick/internal/media"
)

// Completion receives the final batch. cancelled=true always comes with an
// empty batch.
type Completion func(batch media.Batch, cancelled bool)

// Invocation is one in-flight run of the pipeline.
type Invocation struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	once       sync.Once
	completion Completion
	batch      media.Batch
	cancelled  bool
}

func newInvocation(id string, cancel context.CancelFunc, completion Completion) *Invocation {
	return &Invocation{
		id:         id,
		cancel:     cancel,
		done:       make(chan struct{}),
		completion: completion,
	}
}

// ID returns the invocation identifier stamped on logs and the ledger.
func (inv *Invocation) ID() string { return inv.id }

// Cancel asks the invocation to stop. The stage in flight observes its
// context and the invocation completes as cancelled. Safe to call repeatedly
// and after completion.
func (inv *Invocation) Cancel() { inv.cancel() }

// Done is closed once the completion has fired and bookkeeping finished.
func (inv *Invocation) Done() <-chan struct{} { return inv.done }

// Wait blocks until the invocation finishes and returns what the completion
// received.
func (inv *Invocation) Wait() (media.Batch, bool) {
	<-inv.done
	return inv.batch, inv.cancelled
}

// complete fires the completion at most once and reports whether this call
// was the one that fired it. stale is consulted inside the once so a
// cancellation that lands before delivery still turns the result into a
// cancelled one.
func (inv *Invocation) complete(batch media.Batch, cancelled bool, stale func() bool) bool {
	fired := false
	inv.once.Do(func() {
		fired = true
		if !cancelled && stale != nil && stale() {
			cancelled = true
		}
		if cancelled {
			batch = media.Batch{}
		}
		inv.batch = batch
		inv.cancelled = cancelled
		if inv.completion != nil {
			inv.completion(batch, cancelled)
		}
	})
	return fired
}
