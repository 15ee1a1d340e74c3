package economy

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/resources"
)

// BonusKey selects which bracket multiplier to accumulate.
type BonusKey int

const (
	SpeedKey BonusKey = iota
	ProfitKey
	CostKey
)

func (b Bracket) mult(key BonusKey) float64 {
	switch key {
	case SpeedKey:
		return b.SpeedMult
	case ProfitKey:
		return b.ProfitMult
	case CostKey:
		return b.CostMult
	}
	return 0
}

// CumulativeBonus returns the multiplier (1.0 = no bonus) for level.
// Level 1 and below carry no bonus. The L-1 bonus levels are consumed
// bracket by bracket in a single pass; anything past the last bracket is
// priced at the last bracket's multiplier.
func CumulativeBonus(brackets []Bracket, level int, tierRate float64, key BonusKey) float64 {
	if level <= 1 || len(brackets) == 0 {
		return 1
	}

	bonusLevels := level - 1
	total := 0.0
	processed := 0
	prevMax := 0

	for _, b := range brackets {
		if processed >= bonusLevels {
			break
		}
		capacity := b.MaxLevel - prevMax
		n := min(capacity, bonusLevels-processed)
		if n > 0 {
			total += float64(n) * b.mult(key) * tierRate
			processed += n
		}
		prevMax = b.MaxLevel
	}

	if processed < bonusLevels {
		last := brackets[len(brackets)-1]
		total += float64(bonusLevels-processed) * last.mult(key) * tierRate
	}

	return 1 + total/100
}

// BracketFor returns the bracket containing level, or the last bracket for
// levels past the table.
func BracketFor(brackets []Bracket, level int) Bracket {
	for _, b := range brackets {
		if level <= b.MaxLevel {
			return b
		}
	}
	return brackets[len(brackets)-1]
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Model bundles the balance tables. The zero value is not usable; start
// from DefaultModel.
type Model struct {
	Brackets            []Bracket
	SpeedRates          map[int]float64
	ProfitRates         map[int]float64
	CostRates           map[int]float64
	HeatPerTier         map[int]float64
	MinDurationFraction float64
	BotCompoundRate     float64
	BotBasePrice        float64
	BaseUpgradeCost     float64
	HelperCostGrowth    float64
}

// DefaultModel returns the published balance.
func DefaultModel() Model {
	return Model{
		Brackets:            LevelBrackets,
		SpeedRates:          SpeedBaseRates,
		ProfitRates:         ProfitBaseRates,
		CostRates:           CostBaseRates,
		HeatPerTier:         HeatPerTier,
		MinDurationFraction: MinDurationFraction,
		BotCompoundRate:     BotCompoundRate,
		BotBasePrice:        BotPurchaseBasePrice,
		BaseUpgradeCost:     BaseUpgradeCost,
		HelperCostGrowth:    HelperCostGrowth,
	}
}

// tierRate falls back to tier 1 for tiers outside the table.
func tierRate(rates map[int]float64, tier int) float64 {
	if r, ok := rates[tier]; ok {
		return r
	}
	return rates[1]
}

func roundMillis(ms float64) time.Duration {
	return time.Duration(math.Round(ms)) * time.Millisecond
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Duration returns how long def takes at level. Higher levels are faster,
// but never below MinDurationFraction of the base.
func (m Model) Duration(def catalog.Action, level int) time.Duration {
	speed := CumulativeBonus(m.Brackets, level, tierRate(m.SpeedRates, def.Tier), SpeedKey)
	return m.floorDuration(millis(def.BaseDuration)/speed, def.BaseDuration)
}

func (m Model) floorDuration(ms float64, base time.Duration) time.Duration {
	calculated := roundMillis(ms)
	minimum := roundMillis(millis(base) * m.MinDurationFraction)
	return max(calculated, minimum)
}

// Reward returns the floored payout for one completion. Trust multiplies
// every reward; bots owned compound only bot-producing actions.
func (m Model) Reward(def catalog.Action, level int, trust, bots float64) float64 {
	profit := CumulativeBonus(m.Brackets, level, tierRate(m.ProfitRates, def.Tier), ProfitKey)
	botMult := 1.0
	if def.Produces == resources.Bots {
		botMult = m.BotMultiplier(bots)
	}
	return math.Floor(def.BaseReward * profit * trust * botMult)
}

// UpgradeCost returns the price to go from level to level+1.
func (m Model) UpgradeCost(def catalog.Action, level int) float64 {
	cost := CumulativeBonus(m.Brackets, level, tierRate(m.CostRates, def.Tier), CostKey)
	return math.Floor(m.BaseUpgradeCost * float64(def.Tier) * cost)
}

// BotMultiplier is 1 + bots × rate, linear and uncapped.
func (m Model) BotMultiplier(bots float64) float64 {
	return 1 + bots*m.BotCompoundRate
}

// BotPurchasePrice is base × (owned+1)², steep on purpose since bots compound.
func (m Model) BotPurchasePrice(owned float64) float64 {
	n := owned + 1
	return m.BotBasePrice * n * n
}

// HeatFor returns the heat one completion of def generates.
func (m Model) HeatFor(def catalog.Action) float64 {
	return tierRate(m.HeatPerTier, def.Tier)
}

// HelperCost returns floor(base × growth^owned).
func (m Model) HelperCost(h catalog.Helper, owned int) float64 {
	return math.Floor(h.BaseCost * math.Pow(m.HelperCostGrowth, float64(owned)))
}

// ApplySpeedBonus shortens d by a helper speed bonus (0.25 = 25% faster),
// keeping the MinDurationFraction floor relative to base.
func (m Model) ApplySpeedBonus(d, base time.Duration, bonus float64) time.Duration {
	if bonus <= 0 {
		return d
	}
	return m.floorDuration(millis(d)/(1+bonus), base)
}

// ApplyRewardBonus scales r by a helper reward bonus (0.5 = +50%).
func (m Model) ApplyRewardBonus(r, bonus float64) float64 {
	if bonus <= 0 {
		return r
	}
	return math.Floor(r * (1 + bonus))
}
