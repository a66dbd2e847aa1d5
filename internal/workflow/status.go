package workflow

import (
	"context"

	"mediapick/internal/stage"
)

// StatusSummary represents lightweight pipeline diagnostics.
type StatusSummary struct {
	ActiveOperations int
	StageHealth      map[string]stage.Health
}

// Ready reports whether every stage that reports health is ready.
func (s StatusSummary) Ready() bool {
	for _, h := range s.StageHealth {
		if !h.Ready {
			return false
		}
	}
	return true
}

// Status returns in-flight counts and stage readiness.
func (p *Pipeline) Status(ctx context.Context) StatusSummary {
	health := make(map[string]stage.Health)
	for _, h := range p.stages.Health(ctx) {
		health[h.Name] = h
	}
	return StatusSummary{
		ActiveOperations: p.hub.Active(),
		StageHealth:      health,
	}
}
