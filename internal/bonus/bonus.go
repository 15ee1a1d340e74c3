// Package bonus aggregates the two helper pools: countable employees that
// add linear speed and reward fractions to one action, and one-time
// managers that automate an action.
//
// Bonuses are always derived from the current counts and never cached.
package bonus

import "github.com/talgya/idle-syndicate/internal/catalog"

// Bonuses is a speed and reward fraction pair (0.25 = 25%).
type Bonuses struct {
	Speed  float64 `json:"speed"`
	Reward float64 `json:"reward"`
}

// SpeedBonus sums SpeedBoost × count over counts. Helpers missing from
// defs contribute nothing.
func SpeedBonus(counts map[string]int, defs []catalog.Helper) float64 {
	return sum(counts, defs, func(h catalog.Helper) float64 { return h.SpeedBoost })
}

// RewardBonus sums RewardBoost × count over counts.
func RewardBonus(counts map[string]int, defs []catalog.Helper) float64 {
	return sum(counts, defs, func(h catalog.Helper) float64 { return h.RewardBoost })
}

func sum(counts map[string]int, defs []catalog.Helper, boost func(catalog.Helper) float64) float64 {
	total := 0.0
	for _, h := range defs {
		if n := counts[h.ID]; n > 0 {
			total += boost(h) * float64(n)
		}
	}
	return total
}

// Totals returns the bonuses across every helper.
func Totals(counts map[string]int, defs []catalog.Helper) Bonuses {
	return Bonuses{
		Speed:  SpeedBonus(counts, defs),
		Reward: RewardBonus(counts, defs),
	}
}

// ForAction returns the bonuses from helpers whose back-reference is actionID.
func ForAction(actionID string, counts map[string]int, defs []catalog.Helper) Bonuses {
	var relevant []catalog.Helper
	for _, h := range defs {
		if h.ActionID == actionID {
			relevant = append(relevant, h)
		}
	}
	return Totals(counts, relevant)
}
