package engine

import (
	"math"
	"time"

	"github.com/talgya/idle-syndicate/internal/economy"
	"github.com/talgya/idle-syndicate/internal/resources"
)

const (
	// MaxOffline caps how much away time is ever credited.
	MaxOffline = 8 * time.Hour

	// OfflineEfficiency discounts offline earnings against the live rate.
	OfflineEfficiency = 0.5
)

// RateFunc reports the live reward of one completion of actionID and the
// resource it pays in. ok=false skips the timer's earnings.
type RateFunc func(actionID string) (kind resources.Kind, reward float64, ok bool)

// OfflineProgress summarizes what happened while nobody was ticking.
type OfflineProgress struct {
	Elapsed         time.Duration              `json:"elapsed"`
	CompletedCycles int                        `json:"completed_cycles"`
	Earnings        map[resources.Kind]float64 `json:"earnings"`
}

// CalculateOfflineProgress estimates cycles completed between lastKnown and
// returned for every timer active in s. A paused state only counts up to
// the pause instant. Timers with no duration are degenerate and skipped.
//
// This is an approximation: level-ups and unlocks that a full replay would
// produce mid-gap are not simulated. With a nil rate the earnings are empty.
func CalculateOfflineProgress(lastKnown, returned time.Time, s State, rate RateFunc) OfflineProgress {
	end := returned
	if s.Paused && !s.PausedAt.IsZero() {
		end = s.PausedAt
	}
	elapsed := economy.Clamp(end.Sub(lastKnown), 0, MaxOffline)

	progress := OfflineProgress{
		Elapsed:  elapsed,
		Earnings: make(map[resources.Kind]float64),
	}

	for _, t := range s.Active {
		if t.Duration <= 0 {
			continue
		}
		cycles := int(elapsed / t.Duration)
		progress.CompletedCycles += cycles

		if rate == nil || cycles == 0 {
			continue
		}
		kind, reward, ok := rate(t.ActionID)
		if !ok {
			continue
		}
		earned := float64(cycles) * reward * OfflineEfficiency
		if resources.Integer(kind) {
			earned = math.Floor(earned)
		}
		progress.Earnings[kind] += earned
	}

	return progress
}
