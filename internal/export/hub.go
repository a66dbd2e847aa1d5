package export

import (
	"context"
	"log/slog"
	"sync"

	"mediapick/internal/logging"
)

// Hub tracks in-flight operations so a user abort can stop all of them.
type Hub struct {
	logger *slog.Logger

	mu         sync.Mutex
	nextID     uint64
	generation uint64
	active     map[uint64]*Operation
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logging.NewComponentLogger(logger, "cancellation"),
		active: make(map[uint64]*Operation),
	}
}

// Operation is one registered unit of cancellable work.
type Operation struct {
	hub        *Hub
	id         uint64
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	finish     sync.Once
}

// Begin registers a new operation whose context derives from ctx and is
// additionally cancelled by CancelAll.
func (h *Hub) Begin(ctx context.Context) *Operation {
	opCtx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	op := &Operation{
		hub:        h,
		id:         h.nextID,
		generation: h.generation,
		ctx:        opCtx,
		cancel:     cancel,
	}
	h.active[op.id] = op
	return op
}

// CancelAll cancels every registered operation and marks it superseded. It
// returns the number of operations it cancelled; with nothing in flight it
// does nothing and returns 0.
func (h *Hub) CancelAll() int {
	h.mu.Lock()
	if len(h.active) == 0 {
		h.mu.Unlock()
		return 0
	}
	h.generation++
	ops := make([]*Operation, 0, len(h.active))
	for id, op := range h.active {
		ops = append(ops, op)
		delete(h.active, id)
	}
	h.mu.Unlock()

	for _, op := range ops {
		op.cancel()
	}
	h.logger.Info("cancelled in-flight operations", logging.Int(logging.FieldItemCount, len(ops)))
	return len(ops)
}

// Active returns the number of registered operations.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.active)
}

// Context is cancelled by CancelAll, by Finish, or when the parent context ends.
func (o *Operation) Context() context.Context { return o.ctx }

// Superseded reports whether a CancelAll ran after this operation began.
// Results of a superseded operation must be discarded.
func (o *Operation) Superseded() bool {
	o.hub.mu.Lock()
	defer o.hub.mu.Unlock()
	return o.hub.generation != o.generation
}

// Finish deregisters the operation and releases its context. It is safe to
// call more than once and after CancelAll.
func (o *Operation) Finish() {
	o.finish.Do(func() {
		o.hub.mu.Lock()
		delete(o.hub.active, o.id)
		o.hub.mu.Unlock()
		o.cancel()
	})
}
