package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/resources"
)

func testAction(tier int, base time.Duration, reward float64, produces resources.Kind) catalog.Action {
	return catalog.Action{
		ID:           "test-scam",
		Tier:         tier,
		BaseDuration: base,
		BaseReward:   reward,
		Produces:     produces,
	}
}

func TestCumulativeBonusLevelOneIsIdentity(t *testing.T) {
	for _, key := range []BonusKey{SpeedKey, ProfitKey, CostKey} {
		for _, rate := range []float64{0, 0.3, 1, 7.5} {
			assert.Equal(t, 1.0, CumulativeBonus(LevelBrackets, 1, rate, key))
			assert.Equal(t, 1.0, CumulativeBonus(LevelBrackets, 0, rate, key))
			assert.Equal(t, 1.0, CumulativeBonus(LevelBrackets, -4, rate, key))
		}
	}
}

func TestCumulativeBonusStrictlyIncreasing(t *testing.T) {
	for _, key := range []BonusKey{SpeedKey, ProfitKey, CostKey} {
		prev := CumulativeBonus(LevelBrackets, 1, 1.0, key)
		for level := 2; level <= 1200; level++ {
			cur := CumulativeBonus(LevelBrackets, level, 1.0, key)
			require.Greater(t, cur, prev, "key %d level %d", key, level)
			prev = cur
		}
	}
}

func TestCumulativeBonusAcrossBrackets(t *testing.T) {
	// 25 levels in bracket one at speed 1.
	assert.InDelta(t, 1.25, CumulativeBonus(LevelBrackets, 26, 1.0, SpeedKey), 1e-9)
	// Bracket boundary: cumulative value is continuous, the marginal rate jumps.
	assert.InDelta(t, 1.27, CumulativeBonus(LevelBrackets, 27, 1.0, SpeedKey), 1e-9)
	// 25 at x1 plus 25 at x2.
	assert.InDelta(t, 1.75, CumulativeBonus(LevelBrackets, 51, 1.0, SpeedKey), 1e-9)
	// Tier rate scales the whole curve.
	assert.InDelta(t, 1.125, CumulativeBonus(LevelBrackets, 26, 0.5, SpeedKey), 1e-9)
	assert.InDelta(t, 1.03, CumulativeBonus(LevelBrackets, 2, 1.0, ProfitKey), 1e-9)
}

func TestCumulativeBonusPastLastBracket(t *testing.T) {
	a := CumulativeBonus(LevelBrackets, 1001, 1.0, ProfitKey)
	b := CumulativeBonus(LevelBrackets, 1002, 1.0, ProfitKey)
	c := CumulativeBonus(LevelBrackets, 1003, 1.0, ProfitKey)
	assert.InDelta(t, 0.5, b-a, 1e-9)
	assert.InDelta(t, 0.5, c-b, 1e-9)
}

func TestBracketFor(t *testing.T) {
	assert.Equal(t, 25, BracketFor(LevelBrackets, 1).MaxLevel)
	assert.Equal(t, 25, BracketFor(LevelBrackets, 25).MaxLevel)
	assert.Equal(t, 50, BracketFor(LevelBrackets, 26).MaxLevel)
	assert.Equal(t, 1000, BracketFor(LevelBrackets, 5000).MaxLevel)
}

func TestDurationScenario(t *testing.T) {
	m := DefaultModel()
	def := testAction(1, time.Second, 1, resources.Money)

	assert.Equal(t, time.Second, m.Duration(def, 1))
	at26 := m.Duration(def, 26)
	assert.Equal(t, 800*time.Millisecond, at26)
	assert.Less(t, at26, m.Duration(def, 1))
}

func TestDurationFloor(t *testing.T) {
	m := DefaultModel()
	def := testAction(1, time.Second, 1, resources.Money)
	assert.Equal(t, 100*time.Millisecond, m.Duration(def, 1000))
	assert.Equal(t, 100*time.Millisecond, m.Duration(def, 100000))
}

func TestUnknownTierFallsBackToTierOne(t *testing.T) {
	m := DefaultModel()
	t1 := testAction(1, 10*time.Second, 10, resources.Money)
	t42 := testAction(42, 10*time.Second, 10, resources.Money)
	assert.Equal(t, m.Duration(t1, 30), m.Duration(t42, 30))
	assert.Equal(t, m.HeatFor(t1), m.HeatFor(t42))
}

func TestReward(t *testing.T) {
	m := DefaultModel()
	money := testAction(1, 5*time.Second, 15, resources.Money)
	bots := testAction(1, time.Second, 1, resources.Bots)

	assert.Equal(t, 15.0, m.Reward(money, 1, 1, 0))
	assert.Equal(t, 30.0, m.Reward(money, 1, 2, 0))
	// Fractional trust is floored after multiplying.
	assert.Equal(t, 22.0, m.Reward(money, 1, 1.5, 0))
	// Bots only compound bot-producing actions.
	assert.Equal(t, 15.0, m.Reward(money, 1, 1, 100))
	assert.Equal(t, 1.0, m.Reward(bots, 1, 1, 0))
	assert.Equal(t, 2.0, m.Reward(bots, 1, 1, 100))
	// Level 2 profit bonus: 15 * 1.03 = 15.45.
	assert.Equal(t, 15.0, m.Reward(money, 2, 1, 0))
	assert.Equal(t, 46.0, m.Reward(money, 2, 3, 0))
}

func TestUpgradeCost(t *testing.T) {
	m := DefaultModel()
	tier1 := testAction(1, time.Second, 1, resources.Money)
	tier3 := testAction(3, time.Second, 1, resources.Money)

	assert.Equal(t, 10.0, m.UpgradeCost(tier1, 1))
	assert.Equal(t, 10.0, m.UpgradeCost(tier1, 2))
	assert.Equal(t, 15.0, m.UpgradeCost(tier1, 11))
	assert.Equal(t, 30.0, m.UpgradeCost(tier3, 1))
}

func TestBotPricing(t *testing.T) {
	m := DefaultModel()
	assert.Equal(t, 100.0, m.BotPurchasePrice(0))
	assert.Equal(t, 400.0, m.BotPurchasePrice(1))
	assert.Equal(t, 3600.0, m.BotPurchasePrice(5))
	assert.Equal(t, 1.0, m.BotMultiplier(0))
	assert.InDelta(t, 3.5, m.BotMultiplier(250), 1e-9)
}

func TestHelperCost(t *testing.T) {
	m := DefaultModel()
	h := catalog.Helper{BaseCost: 50}
	assert.Equal(t, 50.0, m.HelperCost(h, 0))
	assert.Equal(t, 57.0, m.HelperCost(h, 1))
	assert.Equal(t, 66.0, m.HelperCost(h, 2))
}

func TestApplyBonuses(t *testing.T) {
	m := DefaultModel()
	assert.Equal(t, 800*time.Millisecond, m.ApplySpeedBonus(time.Second, time.Second, 0.25))
	assert.Equal(t, 100*time.Millisecond, m.ApplySpeedBonus(time.Second, time.Second, 100))
	assert.Equal(t, time.Second, m.ApplySpeedBonus(time.Second, time.Second, 0))

	assert.Equal(t, 18.0, m.ApplyRewardBonus(15, 0.24))
	assert.Equal(t, 15.0, m.ApplyRewardBonus(15, 0))
}

func TestHeatPerTier(t *testing.T) {
	m := DefaultModel()
	assert.Equal(t, 0.5, m.HeatFor(testAction(1, time.Second, 1, resources.Money)))
	assert.Equal(t, 5.0, m.HeatFor(testAction(5, time.Second, 1, resources.Money)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(9, 0, 5))
	assert.Equal(t, 0, Clamp(-3, 0, 5))
	assert.Equal(t, 2*time.Hour, Clamp(2*time.Hour, 0, 8*time.Hour))
}
