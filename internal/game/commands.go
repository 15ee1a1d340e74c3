package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/format"
	"github.com/talgya/idle-syndicate/internal/resources"
)

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownHelper     = errors.New("unknown helper")
	ErrUnknownManager    = errors.New("unknown manager")
	ErrLocked            = errors.New("action is locked")
	ErrAlreadyRunning    = errors.New("action already running")
	ErrPrestigePending   = errors.New("prestige pending")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// StartAction starts a timer for id at the live duration.
func (g *Game) StartAction(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending {
		return ErrPrestigePending
	}
	def, ok := g.cat.Action(id)
	if !ok {
		return fmt.Errorf("start %q: %w", id, ErrUnknownAction)
	}
	if st, _ := g.prog.Get(id); !st.Unlocked {
		return fmt.Errorf("start %q: %w", id, ErrLocked)
	}
	if _, running := engine.Find(g.eng, id); running {
		return fmt.Errorf("start %q: %w", id, ErrAlreadyRunning)
	}

	g.eng = engine.AddTimer(g.eng, id, g.duration(def), g.clock.Now())
	return nil
}

// Unlock buys access to id. Free actions cost nothing; unlocking twice is
// a no-op.
func (g *Game) Unlock(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	def, ok := g.cat.Action(id)
	if !ok {
		return fmt.Errorf("unlock %q: %w", id, ErrUnknownAction)
	}
	if st, _ := g.prog.Get(id); st.Unlocked {
		return nil
	}
	if def.UnlockCost != nil && !g.res.Spend(resources.Money, *def.UnlockCost) {
		return fmt.Errorf("unlock %q costs %s: %w", id, format.Money(*def.UnlockCost), ErrInsufficientFunds)
	}

	g.prog.Unlock(id)
	g.record(g.clock.Now(), CategoryEconomy, fmt.Sprintf("unlocked %s", def.Name))
	return nil
}

// Upgrade buys one level of id. The action must be unlocked.
func (g *Game) Upgrade(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	def, ok := g.cat.Action(id)
	if !ok {
		return fmt.Errorf("upgrade %q: %w", id, ErrUnknownAction)
	}
	st, _ := g.prog.Get(id)
	if !st.Unlocked {
		return fmt.Errorf("upgrade %q: %w", id, ErrLocked)
	}
	cost := g.model.UpgradeCost(def, st.Level)
	if !g.res.Spend(resources.Money, cost) {
		return fmt.Errorf("upgrade %q costs %s: %w", id, format.Money(cost), ErrInsufficientFunds)
	}

	g.prog.Upgrade(id)
	return nil
}

// UpgradeCost is the price of the next level of id.
func (g *Game) UpgradeCost(id string) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	def, ok := g.cat.Action(id)
	if !ok {
		return 0, fmt.Errorf("upgrade cost %q: %w", id, ErrUnknownAction)
	}
	st, _ := g.prog.Get(id)
	return g.model.UpgradeCost(def, max(st.Level, 1)), nil
}

// MaxHire bounds a single HireHelper call.
const MaxHire = 10_000

// HireHelper hires n units of helper id, each priced on the count owned
// before it. All n are bought or none.
func (g *Game) HireHelper(id string, n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n <= 0 {
		return fmt.Errorf("hire %d x %q: %w", n, id, ErrInvalidAmount)
	}
	h, ok := g.cat.Helper(id)
	if !ok {
		return fmt.Errorf("hire %q: %w", id, ErrUnknownHelper)
	}

	if n > MaxHire {
		return fmt.Errorf("hire %d x %q: over %d at once: %w", n, id, MaxHire, ErrInvalidAmount)
	}

	owned := g.helpers.Count(id)
	money := g.res.Get(resources.Money)
	total := 0.0
	for i := 0; i < n; i++ {
		total += g.model.HelperCost(h, owned+i)
		if total > money {
			return fmt.Errorf("hire %d x %q costs more than %s: %w", n, id, format.Money(money), ErrInsufficientFunds)
		}
	}
	if !g.res.Spend(resources.Money, total) {
		return fmt.Errorf("hire %d x %q costs %s: %w", n, id, format.Money(total), ErrInsufficientFunds)
	}

	g.helpers.Hire(id, n)
	g.record(g.clock.Now(), CategoryEconomy, fmt.Sprintf("hired %d %s", n, h.Name))
	return nil
}

// HireManager hires manager id once. A hired manager starts its action
// right away if it is unlocked and idle.
func (g *Game) HireManager(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.cat.Manager(id)
	if !ok {
		return fmt.Errorf("hire manager %q: %w", id, ErrUnknownManager)
	}
	if g.automation.Hired(id) {
		return nil
	}
	if !g.res.Spend(resources.Money, m.Cost) {
		return fmt.Errorf("hire manager %q costs %s: %w", id, format.Money(m.Cost), ErrInsufficientFunds)
	}

	g.automation.Hire(id)
	now := g.clock.Now()
	g.record(now, CategoryEconomy, fmt.Sprintf("%s now runs %s", m.Name, m.ActionID))

	if g.pending {
		return nil
	}
	def, ok := g.cat.Action(m.ActionID)
	st, _ := g.prog.Get(m.ActionID)
	if _, running := engine.Find(g.eng, m.ActionID); ok && st.Unlocked && !running {
		g.eng = engine.AddTimer(g.eng, def.ID, g.duration(def), now)
	}
	return nil
}

// BuyBot buys one bot at the quadratic price.
func (g *Game) BuyBot() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.model.BotPurchasePrice(g.res.Get(resources.Bots))
	if !g.res.Spend(resources.Money, p) {
		return fmt.Errorf("buy bot costs %s: %w", format.Money(p), ErrInsufficientFunds)
	}
	g.res.Add(resources.Bots, 1)
	return nil
}

// SellCrypto converts amount crypto into money at the current quote and
// returns the money received.
func (g *Game) SellCrypto(amount float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if amount <= 0 || math.IsNaN(amount) {
		return 0, fmt.Errorf("sell %v crypto: %w", amount, ErrInvalidAmount)
	}
	if !g.res.Spend(resources.Crypto, amount) {
		return 0, fmt.Errorf("sell %v crypto: %w", amount, ErrInsufficientFunds)
	}
	now := g.clock.Now()
	money := g.market.SellValue(amount, now)
	g.res.Add(resources.Money, money)
	g.record(now, CategoryEconomy, fmt.Sprintf("sold %s crypto for %s", format.Number(amount), format.Money(money)))
	return money, nil
}

// BuyCrypto spends whole money on crypto at the current quote and returns
// the crypto bought.
func (g *Game) BuyCrypto(money float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	money = math.Floor(money)
	if money <= 0 || math.IsNaN(money) {
		return 0, fmt.Errorf("buy crypto with %v: %w", money, ErrInvalidAmount)
	}
	if !g.res.Spend(resources.Money, money) {
		return 0, fmt.Errorf("buy crypto with %s: %w", format.Money(money), ErrInsufficientFunds)
	}
	amount := g.market.BuyAmount(money, g.clock.Now())
	g.res.Add(resources.Crypto, amount)
	return amount, nil
}
