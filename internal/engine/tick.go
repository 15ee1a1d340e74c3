package engine

import "time"

// TickInterval is the live cadence: 10 ticks per second.
const TickInterval = 100 * time.Millisecond

// State is the engine clock state.
type State struct {
	LastTick time.Time `json:"last_tick"`
	Active   []*Timer  `json:"active"`
	Paused   bool      `json:"paused"`
	PausedAt time.Time `json:"paused_at,omitzero"`
}

// TickResult is the outcome of one tick.
type TickResult struct {
	State     State
	Delta     time.Duration
	Completed []*Timer // timers that became complete during this tick
}

// NewState creates an empty, running engine state at now.
func NewState(now time.Time) State {
	return State{LastTick: now}
}

// Tick advances every active timer to now. A paused state is returned as is
// with a zero delta and no completions.
func Tick(s State, now time.Time) TickResult {
	if s.Paused {
		return TickResult{State: s}
	}

	var completed []*Timer
	updated := make([]*Timer, len(s.Active))
	for i, t := range s.Active {
		u := UpdateTimer(t, now)
		if !t.Complete && u.Complete {
			completed = append(completed, u)
		}
		updated[i] = u
	}

	next := s
	next.LastTick = now
	next.Active = updated
	return TickResult{
		State:     next,
		Delta:     now.Sub(s.LastTick),
		Completed: completed,
	}
}

// Pause freezes the engine at now. Pausing twice keeps the first instant.
func Pause(s State, now time.Time) State {
	if s.Paused {
		return s
	}
	s.Paused = true
	s.PausedAt = now
	return s
}

// Resume clears the pause and restarts the tick delta from now. The paused
// interval is not credited here; callers hand it to CalculateOfflineProgress
// if they want it counted.
func Resume(s State, now time.Time) State {
	s.Paused = false
	s.PausedAt = time.Time{}
	s.LastTick = now
	return s
}

// AddTimer appends a timer for actionID. Duplicates are not rejected; one
// live timer per action is the caller's rule to keep.
func AddTimer(s State, actionID string, d time.Duration, now time.Time) State {
	active := make([]*Timer, len(s.Active), len(s.Active)+1)
	copy(active, s.Active)
	s.Active = append(active, NewTimer(actionID, d, now))
	return s
}

// RemoveTimer drops every timer for actionID.
func RemoveTimer(s State, actionID string) State {
	active := make([]*Timer, 0, len(s.Active))
	for _, t := range s.Active {
		if t.ActionID != actionID {
			active = append(active, t)
		}
	}
	s.Active = active
	return s
}

// Find returns the first timer for actionID.
func Find(s State, actionID string) (*Timer, bool) {
	for _, t := range s.Active {
		if t.ActionID == actionID {
			return t, true
		}
	}
	return nil, false
}

// Clear drops every timer, keeping the clock and pause markers.
func Clear(s State) State {
	s.Active = nil
	return s
}
