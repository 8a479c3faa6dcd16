package rollcall

import (
	"sync"

	"github.com/agentstation/rollcall/pkg/resolver"
)

// Hook function types for resolution events
type (
	// MergedHook is called for each observation merged into an existing entity
	MergedHook func(entity *resolver.Entity, event resolver.MergeEvent)

	// AmbiguousHook is called for each observation that matched several
	// entities at the same layer
	AmbiguousHook func(ambiguity resolver.Ambiguity)
)

// hooks manages event callbacks for resolution runs
type hooks struct {
	mu          sync.RWMutex
	onMerged    []MergedHook
	onAmbiguous []AmbiguousHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnMerged registers a callback for merges
func (h *hooks) OnMerged(fn MergedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMerged = append(h.onMerged, fn)
}

// OnAmbiguous registers a callback for ambiguous matches
func (h *hooks) OnAmbiguous(fn AmbiguousHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAmbiguous = append(h.onAmbiguous, fn)
}

// trigger replays a finished result through the registered hooks, merges
// first in entity order, then ambiguities in observation order
func (h *hooks) trigger(result *resolver.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onMerged) > 0 {
		for _, e := range result.Entities {
			for _, ev := range e.Events {
				for _, hook := range h.onMerged {
					hook(e, ev)
				}
			}
		}
	}
	for _, a := range result.Ambiguities {
		for _, hook := range h.onAmbiguous {
			hook(a)
		}
	}
}
