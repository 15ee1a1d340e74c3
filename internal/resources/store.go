package resources

import "sync"

// Store owns the resource vector. Every mutation replaces the whole vector,
// so readers always see a committed snapshot.
type Store struct {
	mu            sync.RWMutex
	v             Vector
	startingMoney float64
}

// NewStore creates a store at the baseline vector.
func NewStore(startingMoney float64) *Store {
	return &Store{
		v:             Baseline(startingMoney),
		startingMoney: startingMoney,
	}
}

// Snapshot returns the current vector by value.
func (s *Store) Snapshot() Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Get returns a single resource value.
func (s *Store) Get(k Kind) float64 {
	return s.Snapshot().Get(k)
}

// Add adds amount (negative to subtract) to k.
func (s *Store) Add(k Kind, amount float64) {
	s.mu.Lock()
	s.v = s.v.Add(k, amount)
	s.mu.Unlock()
}

// Set writes an exact value for k.
func (s *Store) Set(k Kind, value float64) {
	s.mu.Lock()
	s.v = s.v.With(k, value)
	s.mu.Unlock()
}

// Spend subtracts amount from k if the balance covers it. It reports
// whether the spend happened.
func (s *Store) Spend(k Kind, amount float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.Get(k) < amount {
		return false
	}
	s.v = s.v.Add(k, -amount)
	return true
}

// Replace swaps in a whole vector, e.g. when restoring a save.
func (s *Store) Replace(v Vector) {
	s.mu.Lock()
	s.v = v.With(Trust, v.Trust).With(Heat, v.Heat)
	s.mu.Unlock()
}

// PrestigeReset resets every resource to baseline in one step, carrying
// trust over with trustDelta applied. Trust is floored at MinTrust.
func (s *Store) PrestigeReset(trustDelta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trust := s.v.Trust + trustDelta
	s.v = Baseline(s.startingMoney).With(Trust, trust)
}

// StartingMoney returns the seed money used for the baseline.
func (s *Store) StartingMoney() float64 {
	return s.startingMoney
}
