package bonus

import (
	"maps"
	"slices"
	"sync"

	"github.com/talgya/idle-syndicate/internal/catalog"
)

// Automation tracks which managers are hired this run. The flag is read
// by the game scheduler to restart actions without a manual trigger.
type Automation struct {
	mu    sync.RWMutex
	hired map[string]bool
}

// NewAutomation returns a pool with nobody hired.
func NewAutomation() *Automation {
	return &Automation{hired: map[string]bool{}}
}

// Hire marks managerID hired. Hiring twice is a no-op.
func (a *Automation) Hire(managerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.hired[managerID] {
		return
	}
	next := maps.Clone(a.hired)
	next[managerID] = true
	a.hired = next
}

// Hired reports whether managerID is hired.
func (a *Automation) Hired(managerID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hired[managerID]
}

// HiredIDs returns hired manager ids, sorted.
func (a *Automation) HiredIDs() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ids := make([]string, 0, len(a.hired))
	for id, ok := range a.hired {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Managed reports whether actionID has its manager hired.
func (a *Automation) Managed(actionID string, defs []catalog.Manager) bool {
	for _, m := range defs {
		if m.ActionID == actionID && a.Hired(m.ID) {
			return true
		}
	}
	return false
}

// Reset fires everyone; managers must be rehired each run.
func (a *Automation) Reset() {
	a.mu.Lock()
	a.hired = map[string]bool{}
	a.mu.Unlock()
}

// Replace restores hired managers from a save.
func (a *Automation) Replace(ids []string) {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		next[id] = true
	}
	a.mu.Lock()
	a.hired = next
	a.mu.Unlock()
}
