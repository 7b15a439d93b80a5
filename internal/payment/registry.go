package payment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

// finishedRetention is how long a finished checkout's outcome stays
// readable after its terminal state was recorded.
const finishedRetention = 15 * time.Minute

// Registry tracks live and finished checkouts so the presentation layer
// can read the latest coordinator state by checkout id. The registry only
// records what coordinators emit; it never drives transitions itself.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*registryEntry
	retention time.Duration
}

type registryEntry struct {
	coordinator *Coordinator
	last        domain.StateChange
	finishedAt  time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[string]*registryEntry),
		retention: finishedRetention,
	}
}

// Register assigns a fresh checkout id to a coordinator. Finished entries
// past their retention window are evicted on the way in.
func (r *Registry) Register(c *Coordinator) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sweepLocked(time.Now())
	r.entries[id] = &registryEntry{
		coordinator: c,
		last:        domain.StateChange{State: domain.PaymentStateIdle},
	}
	r.mu.Unlock()
	return id
}

// Record stores the latest state change for a checkout. A terminal change
// drops the coordinator reference; only the outcome is kept for status
// reads until retention runs out.
func (r *Registry) Record(id string, change domain.StateChange) {
	r.mu.Lock()
	if entry, ok := r.entries[id]; ok {
		entry.last = change
		if change.State.IsTerminal() {
			entry.coordinator = nil
			entry.finishedAt = time.Now()
		}
	}
	r.mu.Unlock()
}

// Latest returns the last recorded state change for a checkout.
func (r *Registry) Latest(id string) (domain.StateChange, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return domain.StateChange{}, false
	}
	return entry.last, true
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, entry := range r.entries {
		if entry.coordinator == nil && now.Sub(entry.finishedAt) > r.retention {
			delete(r.entries, id)
		}
	}
}

// Close tears down every live coordinator. Used at shutdown.
//
// The coordinators are copied out first so the registry lock is not held
// across the teardown: a coordinator mid-emission is holding its own lock
// while its listener calls back into Record, which needs the registry
// lock. Holding both here would deadlock against that.
func (r *Registry) Close() {
	r.mu.Lock()
	coordinators := make([]*Coordinator, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.coordinator != nil {
			coordinators = append(coordinators, entry.coordinator)
		}
	}
	r.mu.Unlock()

	for _, c := range coordinators {
		c.Close()
	}
}
