// Package game ties the progression engine to the stores it drives. A Game
// owns the engine state, the per-run stores, and a bounded event log, and
// serializes every operation behind one mutex so the tick loop and API
// handlers can share it.
package game

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/talgya/idle-syndicate/internal/bonus"
	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/clock"
	"github.com/talgya/idle-syndicate/internal/config"
	"github.com/talgya/idle-syndicate/internal/economy"
	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/format"
	"github.com/talgya/idle-syndicate/internal/market"
	"github.com/talgya/idle-syndicate/internal/prestige"
	"github.com/talgya/idle-syndicate/internal/progress"
	"github.com/talgya/idle-syndicate/internal/resources"
)

// Event categories.
const (
	CategoryAction   = "action"
	CategoryEconomy  = "economy"
	CategoryPrestige = "prestige"
	CategorySystem   = "system"
)

// Game is the live game aggregate.
type Game struct {
	mu sync.Mutex

	cat    *catalog.Catalog
	model  economy.Model
	rules  prestige.Rules
	clock  clock.Clock
	market *market.Market

	res        *resources.Store
	prog       *progress.Store
	helpers    *bonus.Helpers
	automation *bonus.Automation
	orch       *prestige.Orchestrator

	eng     engine.State
	pending bool // heat hit the ceiling; only Prestige may proceed

	events    []engine.Event // recent events, bounded by maxEvents
	unsaved   []engine.Event // events not yet handed to storage
	maxEvents int

	stats Stats

	// OnPrestige, if set, is called after every prestige with the lock
	// released. It must not call back into the Game synchronously.
	OnPrestige func(r prestige.Result, at time.Time)
}

// Stats tracks per-session counters.
type Stats struct {
	Completions int                        `json:"completions"`
	Earned      map[resources.Kind]float64 `json:"earned"`
	Prestiges   int                        `json:"prestiges"`
}

// Completion is one action payout produced by a tick.
type Completion struct {
	ActionID string         `json:"action_id"`
	Kind     resources.Kind `json:"kind"`
	Reward   float64        `json:"reward"`
	Heat     float64        `json:"heat"`
}

// New creates a fresh game at the baseline. Every store is constructed
// here and handed to the prestige orchestrator by reference.
func New(cfg *config.Config, cat *catalog.Catalog, clk clock.Clock) *Game {
	g := &Game{
		cat:        cat,
		model:      cfg.Model(),
		rules:      cfg.Prestige,
		clock:      clk,
		market:     market.New(cfg.Market.Seed, cfg.Market.BasePrice, cfg.Market.Swing, cfg.Market.Period),
		res:        resources.NewStore(cfg.Balance.StartingMoney),
		prog:       progress.NewStore(cat.ActionIDs(), cat.Foundational),
		helpers:    bonus.NewHelpers(),
		automation: bonus.NewAutomation(),
		eng:        engine.NewState(clk.Now()),
		maxEvents:  max(cfg.Runtime.EventBuffer, 1),
		stats:      Stats{Earned: map[resources.Kind]float64{}},
	}
	g.orch = &prestige.Orchestrator{
		Rules:      g.rules,
		Resources:  g.res,
		Progress:   g.prog,
		Helpers:    g.helpers,
		Automation: g.automation,
	}
	return g
}

// Now reads the game clock.
func (g *Game) Now() time.Time {
	return g.clock.Now()
}

// Tick advances the engine to now and settles every completion: the reward
// is credited, heat is added, the completion is counted, the timer is
// collected, and managed actions restart. Reaching the heat ceiling marks a
// prestige as pending.
func (g *Game) Tick(now time.Time) []Completion {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := engine.Tick(g.eng, now)
	g.eng = result.State
	if len(result.Completed) == 0 {
		return nil
	}

	out := make([]Completion, 0, len(result.Completed))
	for _, t := range result.Completed {
		def, ok := g.cat.Action(t.ActionID)
		g.eng = engine.RemoveTimer(g.eng, t.ActionID)
		if !ok {
			continue
		}
		out = append(out, g.settle(def, now))
	}

	for _, c := range out {
		if g.pending {
			break
		}
		if g.automation.Managed(c.ActionID, g.cat.Managers) {
			if _, running := engine.Find(g.eng, c.ActionID); !running {
				def, _ := g.cat.Action(c.ActionID)
				g.eng = engine.AddTimer(g.eng, def.ID, g.duration(def), now)
			}
		}
	}
	return out
}

// settle pays out one completion. Caller holds g.mu.
func (g *Game) settle(def catalog.Action, now time.Time) Completion {
	reward := g.reward(def)
	heat := g.model.HeatFor(def)

	g.res.Add(def.Produces, reward)
	g.res.Add(resources.Heat, heat)
	g.prog.IncrementCompletion(def.ID)

	g.stats.Completions++
	g.stats.Earned[def.Produces] += reward

	if !g.pending && g.rules.Forced(g.res.Get(resources.Heat)) {
		g.pending = true
		g.record(now, CategoryPrestige, "the heat is on: prestige required")
		slog.Warn("heat ceiling reached", "heat", g.res.Get(resources.Heat), "max", g.rules.MaxHeat)
	}

	return Completion{ActionID: def.ID, Kind: def.Produces, Reward: reward, Heat: heat}
}

// duration is the live duration of def: level scaling, then the helper
// speed bonus. Caller holds g.mu.
func (g *Game) duration(def catalog.Action) time.Duration {
	st, _ := g.prog.Get(def.ID)
	d := g.model.Duration(def, max(st.Level, 1))
	b := bonus.ForAction(def.ID, g.helpers.Counts(), g.cat.Helpers)
	return g.model.ApplySpeedBonus(d, def.BaseDuration, b.Speed)
}

// reward is the live payout of def. Caller holds g.mu.
func (g *Game) reward(def catalog.Action) float64 {
	st, _ := g.prog.Get(def.ID)
	v := g.res.Snapshot()
	r := g.model.Reward(def, max(st.Level, 1), v.Trust, v.Bots)
	b := bonus.ForAction(def.ID, g.helpers.Counts(), g.cat.Helpers)
	return g.model.ApplyRewardBonus(r, b.Reward)
}

// record appends an event, trimming the oldest past maxEvents. Caller
// holds g.mu.
func (g *Game) record(at time.Time, category, description string) {
	e := engine.Event{At: at, Description: description, Category: category}
	g.events = append(g.events, e)
	if len(g.events) > g.maxEvents {
		g.events = g.events[len(g.events)-g.maxEvents:]
	}
	g.unsaved = append(g.unsaved, e)
	if len(g.unsaved) > g.maxEvents {
		g.unsaved = g.unsaved[len(g.unsaved)-g.maxEvents:]
	}
}

// Events returns up to limit recent events, newest first.
func (g *Game) Events(limit int) []engine.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := min(limit, len(g.events))
	out := make([]engine.Event, 0, max(n, 0))
	for i := len(g.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, g.events[i])
	}
	return out
}

// DrainEvents returns the events recorded since the last drain, oldest
// first, for the storage layer.
func (g *Game) DrainEvents() []engine.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.unsaved
	g.unsaved = nil
	return out
}

// Pause freezes every timer.
func (g *Game) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.eng.Paused {
		return
	}
	now := g.clock.Now()
	g.eng = engine.Pause(g.eng, now)
	g.record(now, CategorySystem, "paused")
}

// Resume restarts ticking from now. Running timers are shifted by the
// paused interval so they pick up where they froze.
func (g *Game) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.eng.Paused {
		return
	}
	now := g.clock.Now()
	frozen := now.Sub(g.eng.PausedAt)
	if g.eng.PausedAt.IsZero() || frozen < 0 {
		frozen = 0
	}

	active := make([]*engine.Timer, len(g.eng.Active))
	for i, t := range g.eng.Active {
		if !t.Complete && frozen > 0 {
			t = engine.NewTimer(t.ActionID, t.Duration, t.StartTime.Add(frozen))
		}
		active[i] = t
	}
	g.eng.Active = active
	g.eng = engine.Resume(g.eng, now)
	g.record(now, CategorySystem, "resumed")
}

// Paused reports whether the engine is paused.
func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Paused
}

// PrestigePending reports whether heat has forced a prestige.
func (g *Game) PrestigePending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// CatchUp credits the gap between lastKnown and now using the offline
// estimator at the live reward rate. Timers that completed at least one
// cycle keep their phase: each restarts at the end of the credited gap
// minus the unfinished part of its current cycle. While paused the gap ends
// at the pause instant, so Resume's shift still lines up.
func (g *Game) CatchUp(lastKnown, now time.Time) engine.OfflineProgress {
	g.mu.Lock()
	defer g.mu.Unlock()

	rate := func(actionID string) (resources.Kind, float64, bool) {
		def, ok := g.cat.Action(actionID)
		if !ok {
			return "", 0, false
		}
		return def.Produces, g.reward(def), true
	}
	op := engine.CalculateOfflineProgress(lastKnown, now, g.eng, rate)

	for k, amt := range op.Earnings {
		g.res.Add(k, amt)
		g.stats.Earned[k] += amt
	}

	if op.CompletedCycles > 0 {
		anchor := now
		if g.eng.Paused && !g.eng.PausedAt.IsZero() {
			anchor = g.eng.PausedAt
		}
		active := make([]*engine.Timer, 0, len(g.eng.Active))
		for _, t := range g.eng.Active {
			if t.Duration > 0 && op.Elapsed >= t.Duration {
				into := op.Elapsed % t.Duration
				t = engine.NewTimer(t.ActionID, t.Duration, anchor.Add(-into))
			}
			active = append(active, t)
		}
		g.eng.Active = active
	}
	if !g.eng.Paused {
		g.eng.LastTick = now
	}

	if op.Elapsed > 0 {
		g.record(now, CategorySystem, fmt.Sprintf("away %s: %d cycles, %s money earned",
			format.Duration(op.Elapsed), op.CompletedCycles, format.Number(op.Earnings[resources.Money])))
		slog.Info("offline progress credited",
			"away", format.Duration(op.Elapsed),
			"cycles", op.CompletedCycles,
			"earnings", op.Earnings,
		)
	}
	return op
}

// Prestige resets the run with choice. Running timers are dropped first;
// the orchestrator then resets every store and applies carry-over.
func (g *Game) Prestige(choice prestige.Choice) (prestige.Result, error) {
	if !choice.Valid() {
		return prestige.Result{}, fmt.Errorf("prestige %q: %w", choice, prestige.ErrUnknownChoice)
	}

	g.mu.Lock()
	now := g.clock.Now()

	g.eng = engine.Clear(g.eng)
	r, err := g.orch.Execute(choice)
	if err != nil {
		g.mu.Unlock()
		return prestige.Result{}, err
	}
	g.pending = false
	g.stats.Prestiges++
	g.record(now, CategoryPrestige, fmt.Sprintf("%s: trust %s → %s", r.Choice,
		format.Number(r.PreviousTrust), format.Number(r.NewTrust)))
	hook := g.OnPrestige
	g.mu.Unlock()

	slog.Info("prestige",
		"choice", r.Choice,
		"previous_trust", r.PreviousTrust,
		"new_trust", r.NewTrust,
		"bonuses", len(r.Bonuses),
	)
	if hook != nil {
		hook(r, now)
	}
	return r, nil
}

// ResolvePending runs a prestige with choice if one is pending. It reports
// whether a prestige ran.
func (g *Game) ResolvePending(choice prestige.Choice) (bool, error) {
	if !g.PrestigePending() {
		return false, nil
	}
	if _, err := g.Prestige(choice); err != nil {
		return false, err
	}
	return true, nil
}

// Stats returns a copy of the session counters.
func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.stats
	s.Earned = maps.Clone(g.stats.Earned)
	return s
}
