// Package progress tracks per-action level, unlock status, and completion
// counts for the current run.
package progress

import (
	"maps"
	"sync"
)

// State is one action's progress.
type State struct {
	ActionID       string `json:"actionId"`
	Level          int    `json:"level"`
	Unlocked       bool   `json:"isUnlocked"`
	TimesCompleted int    `json:"timesCompleted"`
}

// Store owns the progress map. Mutations replace the whole map so a
// reader holding All() never sees a partial write.
type Store struct {
	mu           sync.RWMutex
	states       map[string]State
	actionIDs    []string
	foundational string
}

// NewStore returns a store with every id locked at level 1 except
// foundational, which starts unlocked.
func NewStore(actionIDs []string, foundational string) *Store {
	s := &Store{actionIDs: actionIDs, foundational: foundational}
	s.states = s.initial()
	return s
}

func (s *Store) initial() map[string]State {
	m := make(map[string]State, len(s.actionIDs))
	for _, id := range s.actionIDs {
		m[id] = State{ActionID: id, Level: 1, Unlocked: id == s.foundational}
	}
	return m
}

// update applies fn to a copy of the map and swaps it in.
func (s *Store) update(fn func(m map[string]State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := maps.Clone(s.states)
	fn(next)
	s.states = next
}

// Get returns the progress for id. ok is false for untracked ids.
func (s *Store) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	return st, ok
}

// All returns a copy of the whole map.
func (s *Store) All() map[string]State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.states)
}

// Unlock marks id unlocked. An untracked id gets a fresh unlocked entry.
func (s *Store) Unlock(id string) {
	s.update(func(m map[string]State) {
		st, ok := m[id]
		if !ok {
			st = State{ActionID: id, Level: 1}
		}
		st.Unlocked = true
		m[id] = st
	})
}

// Upgrade raises the level of an unlocked action by one.
func (s *Store) Upgrade(id string) bool {
	changed := false
	s.update(func(m map[string]State) {
		st, ok := m[id]
		if !ok || !st.Unlocked {
			return
		}
		st.Level++
		m[id] = st
		changed = true
	})
	return changed
}

// IncrementCompletion counts one completion of an unlocked action.
func (s *Store) IncrementCompletion(id string) bool {
	changed := false
	s.update(func(m map[string]State) {
		st, ok := m[id]
		if !ok || !st.Unlocked {
			return
		}
		st.TimesCompleted++
		m[id] = st
		changed = true
	})
	return changed
}

// Reset restores the initial map.
func (s *Store) Reset() {
	next := s.initial()
	s.mu.Lock()
	s.states = next
	s.mu.Unlock()
}

// Replace restores a saved map on top of the initial one, so actions added
// to the catalog since the save still appear. Levels below 1 are raised to 1.
func (s *Store) Replace(saved map[string]State) {
	next := s.initial()
	for id, st := range saved {
		st.ActionID = id
		st.Level = max(st.Level, 1)
		st.TimesCompleted = max(st.TimesCompleted, 0)
		next[id] = st
	}
	s.mu.Lock()
	s.states = next
	s.mu.Unlock()
}
