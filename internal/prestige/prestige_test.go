package prestige

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/idle-syndicate/internal/bonus"
	"github.com/talgya/idle-syndicate/internal/progress"
	"github.com/talgya/idle-syndicate/internal/resources"
)

func TestForced(t *testing.T) {
	assert.False(t, Forced(99.5))
	assert.True(t, Forced(100))
	assert.True(t, Forced(130))
}

func TestCleanEscape(t *testing.T) {
	r := CleanEscape(5)
	assert.Equal(t, CleanEscapeChoice, r.Choice)
	assert.Equal(t, 5.0, r.PreviousTrust)
	assert.Equal(t, 15.0, r.NewTrust)
	assert.Nil(t, r.Bonuses)
}

func TestSnitchTrustFloor(t *testing.T) {
	r := Snitch(2, resources.Vector{Trust: 2})
	assert.Equal(t, 1.0, r.NewTrust)
	assert.Equal(t, -1.0, r.TrustDelta())
	assert.Empty(t, r.Bonuses)
}

func TestSnitchFlooring(t *testing.T) {
	v := resources.Vector{
		Money:       33,
		Bots:        9,
		Reputation:  120,
		Crypto:      15.5,
		SkillPoints: 0,
		Trust:       20,
	}
	r := Snitch(v.Trust, v)
	assert.Equal(t, 15.0, r.NewTrust)

	require.Len(t, r.Bonuses, 4, "zero skill points are omitted")
	assert.Equal(t, Bonus{Type: resources.Money, Amount: 3}, r.Bonuses[0])
	assert.Equal(t, Bonus{Type: resources.Bots, Amount: 0}, r.Bonuses[1])
	assert.Equal(t, Bonus{Type: resources.Reputation, Amount: 12}, r.Bonuses[2])
	assert.Equal(t, resources.Crypto, r.Bonuses[3].Type)
	assert.InDelta(t, 1.55, r.Bonuses[3].Amount, 1e-9)
}

func TestComputeUnknown(t *testing.T) {
	_, ok := DefaultRules().Compute("surrender", resources.Vector{Trust: 1})
	assert.False(t, ok)
	assert.False(t, Choice("surrender").Valid())
	assert.True(t, SnitchChoice.Valid())
}

type fixture struct {
	res   *resources.Store
	prog  *progress.Store
	help  *bonus.Helpers
	auto  *bonus.Automation
	orch  *Orchestrator
	start float64
}

func newFixture(startingMoney float64) fixture {
	f := fixture{
		res:   resources.NewStore(startingMoney),
		prog:  progress.NewStore([]string{"bot-farms", "phishing"}, "bot-farms"),
		help:  bonus.NewHelpers(),
		auto:  bonus.NewAutomation(),
		start: startingMoney,
	}
	f.orch = &Orchestrator{
		Rules:      DefaultRules(),
		Resources:  f.res,
		Progress:   f.prog,
		Helpers:    f.help,
		Automation: f.auto,
	}
	return f
}

func (f fixture) dirty() {
	f.prog.Unlock("phishing")
	f.prog.Upgrade("phishing")
	f.help.Hire("wrangler", 3)
	f.auto.Hire("prince")
	f.res.Set(resources.Heat, 100)
}

func TestExecuteSnitchScenario(t *testing.T) {
	for _, start := range []float64{10, 0} {
		f := newFixture(start)
		f.dirty()
		f.res.Set(resources.Money, 10000)
		f.res.Set(resources.Trust, 75)

		r, err := f.orch.Execute(SnitchChoice)
		require.NoError(t, err)

		assert.Equal(t, 75.0, r.PreviousTrust)
		assert.Equal(t, 70.0, r.NewTrust)

		v := f.res.Snapshot()
		assert.Equal(t, start+1000, v.Money)
		assert.Equal(t, 70.0, v.Trust)
		assert.Zero(t, v.Heat)

		ph, _ := f.prog.Get("phishing")
		assert.False(t, ph.Unlocked)
		assert.Equal(t, 1, ph.Level)
		assert.Zero(t, f.help.Count("wrangler"))
		assert.Empty(t, f.auto.HiredIDs())
	}
}

func TestExecuteCleanEscape(t *testing.T) {
	f := newFixture(10)
	f.dirty()
	f.res.Set(resources.Money, 5000)
	f.res.Set(resources.Trust, 3)

	r, err := f.orch.Execute(CleanEscapeChoice)
	require.NoError(t, err)
	assert.Equal(t, 13.0, r.NewTrust)
	assert.Equal(t, resources.Vector{Money: 10, Trust: 13}, f.res.Snapshot())
}

func TestExecuteUnknownChoiceResetsNothing(t *testing.T) {
	f := newFixture(10)
	f.dirty()
	before := f.res.Snapshot()

	_, err := f.orch.Execute("surrender")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownChoice))

	assert.Equal(t, before, f.res.Snapshot())
	assert.Equal(t, 3, f.help.Count("wrangler"))
	ph, _ := f.prog.Get("phishing")
	assert.True(t, ph.Unlocked)
}

func TestResetAllKeepsTrust(t *testing.T) {
	f := newFixture(10)
	f.dirty()
	f.res.Set(resources.Trust, 42)

	f.orch.ResetAll()
	assert.Equal(t, resources.Vector{Money: 10, Trust: 42}, f.res.Snapshot())
	assert.Empty(t, f.help.Counts())
	assert.Empty(t, f.auto.HiredIDs())
}
