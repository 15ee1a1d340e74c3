// Package economy provides the bracket-based scaling model: durations,
// rewards, upgrade costs, and the purchase curves built on top of them.
// Every function here is pure.
package economy

// Bracket is a level range with its own per-level multipliers.
type Bracket struct {
	MaxLevel   int     `yaml:"max_level" json:"max_level"` // inclusive
	SpeedMult  float64 `yaml:"speed_mult" json:"speed_mult"`
	ProfitMult float64 `yaml:"profit_mult" json:"profit_mult"`
	CostMult   float64 `yaml:"cost_mult" json:"cost_mult"`
}

// LevelBrackets is the published bracket table. Each level inside a bracket
// adds mult × tierRate percent to the cumulative bonus.
var LevelBrackets = []Bracket{
	{MaxLevel: 25, SpeedMult: 1.0, ProfitMult: 3.0, CostMult: 5.0},
	{MaxLevel: 50, SpeedMult: 2.0, ProfitMult: 5.0, CostMult: 8.0},
	{MaxLevel: 75, SpeedMult: 4.0, ProfitMult: 8.0, CostMult: 12.0},
	{MaxLevel: 100, SpeedMult: 8.0, ProfitMult: 12.0, CostMult: 18.0},
	{MaxLevel: 150, SpeedMult: 16.0, ProfitMult: 18.0, CostMult: 25.0},
	{MaxLevel: 250, SpeedMult: 32.0, ProfitMult: 25.0, CostMult: 35.0},
	{MaxLevel: 500, SpeedMult: 64.0, ProfitMult: 35.0, CostMult: 50.0},
	{MaxLevel: 1000, SpeedMult: 128.0, ProfitMult: 50.0, CostMult: 70.0},
}

// Per-tier base rates. Higher tiers speed up more slowly.
var (
	SpeedBaseRates = map[int]float64{
		1: 1.0, 2: 0.9, 3: 0.8, 4: 0.7, 5: 0.6,
		6: 0.5, 7: 0.45, 8: 0.4, 9: 0.35, 10: 0.3,
	}
	ProfitBaseRates = map[int]float64{
		1: 1.0, 2: 1.0, 3: 1.0, 4: 1.0, 5: 1.0,
		6: 1.0, 7: 1.0, 8: 1.0, 9: 1.0, 10: 1.0,
	}
	CostBaseRates = map[int]float64{
		1: 1.0, 2: 1.0, 3: 1.0, 4: 1.0, 5: 1.0,
		6: 1.0, 7: 1.0, 8: 1.0, 9: 1.0, 10: 1.0,
	}
)

// HeatPerTier is the escalation added by one completion, by action tier.
var HeatPerTier = map[int]float64{
	1: 0.5,
	2: 1,
	3: 2,
	4: 3,
	5: 5,
}

const (
	// MinDurationFraction floors any duration at 10% of its base.
	MinDurationFraction = 0.1

	// BotCompoundRate is the reward bonus per bot owned on bot-producing actions.
	BotCompoundRate = 0.01

	// BotPurchaseBasePrice scales the quadratic direct-purchase price.
	BotPurchaseBasePrice = 100.0

	// BaseUpgradeCost is multiplied by tier: 10 for tier 1, 100 for tier 10.
	BaseUpgradeCost = 10.0

	// HelperCostGrowth is the exponential growth per helper already hired.
	HelperCostGrowth = 1.15
)
