// Package catalog holds the static content tables: actions, helpers, and
// managers. Definitions are never mutated at runtime.
package catalog

import (
	"time"

	"github.com/talgya/idle-syndicate/internal/resources"
)

// Action is an immutable scam definition.
type Action struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tier         int            `json:"tier"`
	BaseDuration time.Duration  `json:"base_duration"`
	BaseReward   float64        `json:"base_reward"`
	Produces     resources.Kind `json:"produces"`
	Description  string         `json:"description"`
	UnlockCost   *float64       `json:"unlock_cost,omitempty"` // nil = free
}

// Helper is a hireable employee that boosts one action per unit owned.
type Helper struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ActionID    string  `json:"action_id"`
	BaseCost    float64 `json:"base_cost"`
	SpeedBoost  float64 `json:"speed_boost"`  // fraction per unit, 0.03 = 3%
	RewardBoost float64 `json:"reward_boost"` // fraction per unit
}

// Manager is a one-time hire that automates its action.
type Manager struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ActionID   string  `json:"action_id"`
	Cost       float64 `json:"cost"`
	FlavorText string  `json:"flavor_text"`
}

// Catalog is the ordered content set handed to the engine.
type Catalog struct {
	Actions      []Action
	Helpers      []Helper
	Managers     []Manager
	Foundational string // action unlocked at the start of every run

	actionIndex  map[string]int
	helperIndex  map[string]int
	managerIndex map[string]int
}

// New indexes the given tables.
func New(foundational string, actions []Action, helpers []Helper, managers []Manager) *Catalog {
	c := &Catalog{
		Actions:      actions,
		Helpers:      helpers,
		Managers:     managers,
		Foundational: foundational,
		actionIndex:  make(map[string]int, len(actions)),
		helperIndex:  make(map[string]int, len(helpers)),
		managerIndex: make(map[string]int, len(managers)),
	}
	for i, a := range actions {
		c.actionIndex[a.ID] = i
	}
	for i, h := range helpers {
		c.helperIndex[h.ID] = i
	}
	for i, m := range managers {
		c.managerIndex[m.ID] = i
	}
	return c
}

// Action looks up an action definition by id.
func (c *Catalog) Action(id string) (Action, bool) {
	i, ok := c.actionIndex[id]
	if !ok {
		return Action{}, false
	}
	return c.Actions[i], true
}

// Helper looks up a helper definition by id.
func (c *Catalog) Helper(id string) (Helper, bool) {
	i, ok := c.helperIndex[id]
	if !ok {
		return Helper{}, false
	}
	return c.Helpers[i], true
}

// Manager looks up a manager definition by id.
func (c *Catalog) Manager(id string) (Manager, bool) {
	i, ok := c.managerIndex[id]
	if !ok {
		return Manager{}, false
	}
	return c.Managers[i], true
}

// HelpersFor returns the helpers that work on actionID (may be empty).
func (c *Catalog) HelpersFor(actionID string) []Helper {
	var out []Helper
	for _, h := range c.Helpers {
		if h.ActionID == actionID {
			out = append(out, h)
		}
	}
	return out
}

// ManagerFor returns the manager that automates actionID, if any.
func (c *Catalog) ManagerFor(actionID string) (Manager, bool) {
	for _, m := range c.Managers {
		if m.ActionID == actionID {
			return m, true
		}
	}
	return Manager{}, false
}

// ActionIDs lists action ids in catalog order.
func (c *Catalog) ActionIDs() []string {
	ids := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		ids[i] = a.ID
	}
	return ids
}

func price(v float64) *float64 { return &v }
