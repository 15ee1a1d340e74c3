// Package engine provides the tick-driven timer state machine, the loop that
// drives it, and the offline catch-up estimator.
//
// Timers and engine states are treated as immutable values: every operation
// returns a new State and never mutates its input, so a snapshot handed to a
// reader stays valid while the loop moves on.
package engine

import "time"

// Timer tracks one running action.
type Timer struct {
	ActionID  string        `json:"action_id"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Complete  bool          `json:"complete"`
}

// NewTimer starts a timer for actionID at now.
func NewTimer(actionID string, d time.Duration, now time.Time) *Timer {
	return &Timer{
		ActionID:  actionID,
		StartTime: now,
		Duration:  d,
	}
}

// EndTime is when the timer is due.
func (t *Timer) EndTime() time.Time {
	return t.StartTime.Add(t.Duration)
}

// TimerProgress returns progress in [0, 1]. A zero or negative duration is
// always fully progressed.
func TimerProgress(t *Timer, now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(t.StartTime)
	if elapsed <= 0 {
		return 0
	}
	return min(float64(elapsed)/float64(t.Duration), 1)
}

// TimerComplete reports whether t is flagged complete or now has reached
// its end time.
func TimerComplete(t *Timer, now time.Time) bool {
	if t.Complete {
		return true
	}
	return !now.Before(t.EndTime())
}

// UpdateTimer returns t itself when nothing changes (already complete, or
// still running) and a new completed copy on the false→true transition.
func UpdateTimer(t *Timer, now time.Time) *Timer {
	if t.Complete || !TimerComplete(t, now) {
		return t
	}
	done := *t
	done.Complete = true
	return &done
}
