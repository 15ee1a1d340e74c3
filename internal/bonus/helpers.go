package bonus

import (
	"maps"
	"sync"
)

// Helpers owns hired helper counts. Mutations replace the whole map.
type Helpers struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewHelpers returns an empty pool.
func NewHelpers() *Helpers {
	return &Helpers{counts: map[string]int{}}
}

// Hire adds n units of helperID. n <= 0 is a no-op.
func (h *Helpers) Hire(helperID string, n int) {
	if n <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	next := maps.Clone(h.counts)
	next[helperID] += n
	h.counts = next
}

// Count returns units owned; unknown ids are 0.
func (h *Helpers) Count(helperID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[helperID]
}

// Counts returns a copy of every count.
func (h *Helpers) Counts() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return maps.Clone(h.counts)
}

// Reset empties the pool.
func (h *Helpers) Reset() {
	h.mu.Lock()
	h.counts = map[string]int{}
	h.mu.Unlock()
}

// Replace swaps in counts restored from a save. Non-positive counts are dropped.
func (h *Helpers) Replace(counts map[string]int) {
	next := make(map[string]int, len(counts))
	for id, n := range counts {
		if n > 0 {
			next[id] = n
		}
	}
	h.mu.Lock()
	h.counts = next
	h.mu.Unlock()
}
