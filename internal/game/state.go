package game

import (
	"time"

	"github.com/talgya/idle-syndicate/internal/bonus"
	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/persistence"
	"github.com/talgya/idle-syndicate/internal/resources"
)

// Snapshot captures the game for saving.
func (g *Game) Snapshot() *persistence.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return persistence.CreateSnapshot(
		g.clock.Now(),
		g.res.Snapshot(),
		g.prog.All(),
		g.helpers.Counts(),
		g.automation.HiredIDs(),
		g.eng,
	)
}

// Restore replaces the game state with a migrated snapshot. Timers for
// actions no longer in the catalog are dropped. A restored vector already
// at the heat ceiling comes back with a prestige pending.
func (g *Game) Restore(s *persistence.Snapshot) {
	r := persistence.ApplySnapshot(persistence.Migrate(s))

	g.mu.Lock()
	defer g.mu.Unlock()

	g.res.Replace(r.Resources)
	g.prog.Replace(r.Progress)
	g.helpers.Replace(r.Helpers)
	g.automation.Replace(r.Managers)

	eng := r.Engine
	active := make([]*engine.Timer, 0, len(eng.Active))
	for _, t := range eng.Active {
		if _, ok := g.cat.Action(t.ActionID); ok {
			active = append(active, t)
		}
	}
	eng.Active = active
	g.eng = eng
	g.pending = g.rules.Forced(r.Resources.Heat)
}

// LastTick is the instant the engine last advanced.
func (g *Game) LastTick() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.LastTick
}

// Resources returns the current vector.
func (g *Game) Resources() resources.Vector {
	return g.res.Snapshot()
}

// ActionView is one catalog action with its live numbers.
type ActionView struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Tier           int            `json:"tier"`
	Produces       resources.Kind `json:"produces"`
	Unlocked       bool           `json:"unlocked"`
	UnlockCost     *float64       `json:"unlock_cost,omitempty"`
	Level          int            `json:"level"`
	TimesCompleted int            `json:"times_completed"`
	DurationMS     int64          `json:"duration_ms"`
	Reward         float64        `json:"reward"`
	UpgradeCost    float64        `json:"upgrade_cost"`
	Running        bool           `json:"running"`
	Progress       float64        `json:"progress"`
	Managed        bool           `json:"managed"`
	Helpers        int            `json:"helpers"`
	Bonus          bonus.Bonuses  `json:"bonus"`
}

// Actions lists every catalog action in order.
func (g *Game) Actions() []ActionView {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if g.eng.Paused {
		now = g.eng.PausedAt
	}
	counts := g.helpers.Counts()

	views := make([]ActionView, 0, len(g.cat.Actions))
	for _, def := range g.cat.Actions {
		st, _ := g.prog.Get(def.ID)
		v := ActionView{
			ID:             def.ID,
			Name:           def.Name,
			Tier:           def.Tier,
			Produces:       def.Produces,
			Unlocked:       st.Unlocked,
			UnlockCost:     def.UnlockCost,
			Level:          max(st.Level, 1),
			TimesCompleted: st.TimesCompleted,
			DurationMS:     g.duration(def).Milliseconds(),
			Reward:         g.reward(def),
			UpgradeCost:    g.model.UpgradeCost(def, max(st.Level, 1)),
			Managed:        g.automation.Managed(def.ID, g.cat.Managers),
			Bonus:          bonus.ForAction(def.ID, counts, g.cat.Helpers),
		}
		for _, h := range g.cat.HelpersFor(def.ID) {
			v.Helpers += counts[h.ID]
		}
		if t, ok := engine.Find(g.eng, def.ID); ok {
			v.Running = true
			v.Progress = engine.TimerProgress(t, now)
		}
		views = append(views, v)
	}
	return views
}

// Status is a point-in-time summary of the game.
type Status struct {
	Now             time.Time        `json:"now"`
	Resources       resources.Vector `json:"resources"`
	HeatRatio       float64          `json:"heat_ratio"`
	Paused          bool             `json:"paused"`
	PrestigePending bool             `json:"prestige_pending"`
	Running         int              `json:"running"`
	Helpers         map[string]int   `json:"helpers"`
	Managers        []string         `json:"managers"`
	Bonus           bonus.Bonuses    `json:"bonus"`
	BotPrice        float64          `json:"bot_price"`
	CryptoPrice     float64          `json:"crypto_price"`
	Stats           Stats            `json:"stats"`
}

// Status summarizes the game.
func (g *Game) Status() Status {
	stats := g.Stats()

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	v := g.res.Snapshot()
	counts := g.helpers.Counts()
	return Status{
		Now:             now,
		Resources:       v,
		HeatRatio:       v.Heat / g.rules.MaxHeat,
		Paused:          g.eng.Paused,
		PrestigePending: g.pending,
		Running:         len(g.eng.Active),
		Helpers:         counts,
		Managers:        g.automation.HiredIDs(),
		Bonus:           bonus.Totals(counts, g.cat.Helpers),
		BotPrice:        g.model.BotPurchasePrice(v.Bots),
		CryptoPrice:     g.market.Price(now),
		Stats:           stats,
	}
}
