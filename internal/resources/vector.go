// Package resources holds the player's resource vector and the store that
// owns it. Trust is the only field that survives a prestige reset.
package resources

import "math"

// Kind identifies a resource field. The string value is the wire name.
type Kind string

const (
	Money       Kind = "money"
	Reputation  Kind = "reputation"
	Heat        Kind = "heat"
	Bots        Kind = "bots"
	SkillPoints Kind = "skill-points"
	Crypto      Kind = "crypto"
	Trust       Kind = "trust"
)

// AllKinds lists every resource in display order.
var AllKinds = []Kind{Money, Reputation, Heat, Bots, SkillPoints, Crypto, Trust}

// MinTrust is the floor trust can never drop below.
const MinTrust = 1.0

// Vector is the full set of player resources.
type Vector struct {
	Money       float64 `json:"money"`
	Reputation  float64 `json:"reputation"`
	Heat        float64 `json:"heat"`
	Bots        float64 `json:"bots"`
	SkillPoints float64 `json:"skillPoints"`
	Crypto      float64 `json:"crypto"`
	Trust       float64 `json:"trust"`
}

// Baseline returns the reset vector: seed money, trust at its floor,
// everything else zero.
func Baseline(startingMoney float64) Vector {
	return Vector{
		Money: startingMoney,
		Trust: MinTrust,
	}
}

// Get returns the value for k. Unknown kinds read as zero.
func (v Vector) Get(k Kind) float64 {
	switch k {
	case Money:
		return v.Money
	case Reputation:
		return v.Reputation
	case Heat:
		return v.Heat
	case Bots:
		return v.Bots
	case SkillPoints:
		return v.SkillPoints
	case Crypto:
		return v.Crypto
	case Trust:
		return v.Trust
	}
	return 0
}

// With returns a copy of v with k set to value, normalized so trust stays
// at or above MinTrust and heat never goes negative. Unknown kinds return v
// unchanged.
func (v Vector) With(k Kind, value float64) Vector {
	switch k {
	case Money:
		v.Money = value
	case Reputation:
		v.Reputation = value
	case Heat:
		v.Heat = math.Max(0, value)
	case Bots:
		v.Bots = value
	case SkillPoints:
		v.SkillPoints = value
	case Crypto:
		v.Crypto = value
	case Trust:
		v.Trust = math.Max(MinTrust, value)
	}
	return v
}

// Add returns a copy of v with amount added to k.
func (v Vector) Add(k Kind, amount float64) Vector {
	return v.With(k, v.Get(k)+amount)
}

// Integer reports whether k is tracked in whole units. Crypto is the one
// fractional currency; heat and trust accept fractions too.
func Integer(k Kind) bool {
	switch k {
	case Money, Reputation, Bots, SkillPoints:
		return true
	}
	return false
}
