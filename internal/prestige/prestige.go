// Package prestige resets a run. The player either escapes clean (trust
// goes up, everything else is lost) or snitches (trust goes down, a cut of
// each resettable resource is kept).
package prestige

import (
	"math"

	"github.com/talgya/idle-syndicate/internal/resources"
)

// Choice is the player's prestige decision.
type Choice string

const (
	CleanEscapeChoice Choice = "clean-escape"
	SnitchChoice      Choice = "snitch"
)

// Valid reports whether c names a known choice.
func (c Choice) Valid() bool {
	return c == CleanEscapeChoice || c == SnitchChoice
}

const (
	MaxHeat              = 100.0
	CleanEscapeTrustGain = 10.0
	SnitchTrustPenalty   = -5.0
	SnitchKeepFraction   = 0.1
)

// Bonus is a resource amount carried into the next run.
type Bonus struct {
	Type   resources.Kind `json:"type"`
	Amount float64        `json:"amount"`
}

// Result describes a prestige. Bonuses is nil for a clean escape.
type Result struct {
	Choice        Choice  `json:"choice"`
	PreviousTrust float64 `json:"previousTrust"`
	NewTrust      float64 `json:"newTrust"`
	Bonuses       []Bonus `json:"bonuses,omitempty"`
}

// TrustDelta is the change applied to trust by this result.
func (r Result) TrustDelta() float64 {
	return r.NewTrust - r.PreviousTrust
}

// Rules holds the tunable prestige constants.
type Rules struct {
	MaxHeat      float64 `yaml:"max_heat"`
	TrustGain    float64 `yaml:"clean_escape_trust_gain"`
	TrustPenalty float64 `yaml:"snitch_trust_penalty"`
	KeepFraction float64 `yaml:"snitch_keep_fraction"`
}

// DefaultRules returns the published constants.
func DefaultRules() Rules {
	return Rules{
		MaxHeat:      MaxHeat,
		TrustGain:    CleanEscapeTrustGain,
		TrustPenalty: SnitchTrustPenalty,
		KeepFraction: SnitchKeepFraction,
	}
}

// snitchKept lists what a snitch keeps, in bonus order. Crypto keeps its
// fractional part.
var snitchKept = []resources.Kind{
	resources.Money,
	resources.Bots,
	resources.Reputation,
	resources.Crypto,
	resources.SkillPoints,
}

// Forced reports whether heat has hit the ceiling.
func (r Rules) Forced(heat float64) bool {
	return heat >= r.MaxHeat
}

// CleanEscape computes a clean escape from trust.
func (r Rules) CleanEscape(trust float64) Result {
	return Result{
		Choice:        CleanEscapeChoice,
		PreviousTrust: trust,
		NewTrust:      trust + r.TrustGain,
	}
}

// Snitch computes a snitch from trust and the pre-reset vector. Trust
// never drops below resources.MinTrust, and resources at zero produce no
// bonus entry.
func (r Rules) Snitch(trust float64, v resources.Vector) Result {
	res := Result{
		Choice:        SnitchChoice,
		PreviousTrust: trust,
		NewTrust:      math.Max(resources.MinTrust, trust+r.TrustPenalty),
		Bonuses:       []Bonus{},
	}
	for _, k := range snitchKept {
		have := v.Get(k)
		if have <= 0 {
			continue
		}
		amount := have * r.KeepFraction
		if resources.Integer(k) {
			amount = math.Floor(amount)
		}
		res.Bonuses = append(res.Bonuses, Bonus{Type: k, Amount: amount})
	}
	return res
}

// Compute dispatches on choice. ok is false for an unknown choice.
func (r Rules) Compute(choice Choice, v resources.Vector) (Result, bool) {
	switch choice {
	case CleanEscapeChoice:
		return r.CleanEscape(v.Trust), true
	case SnitchChoice:
		return r.Snitch(v.Trust, v), true
	}
	return Result{}, false
}

// Forced reports whether heat has hit MaxHeat under the default rules.
func Forced(heat float64) bool { return DefaultRules().Forced(heat) }

// CleanEscape computes a clean escape under the default rules.
func CleanEscape(trust float64) Result { return DefaultRules().CleanEscape(trust) }

// Snitch computes a snitch under the default rules.
func Snitch(trust float64, v resources.Vector) Result { return DefaultRules().Snitch(trust, v) }
