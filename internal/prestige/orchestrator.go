package prestige

import (
	"errors"
	"fmt"

	"github.com/talgya/idle-syndicate/internal/bonus"
	"github.com/talgya/idle-syndicate/internal/progress"
	"github.com/talgya/idle-syndicate/internal/resources"
)

// ErrUnknownChoice is returned for a choice other than clean-escape or snitch.
var ErrUnknownChoice = errors.New("unknown prestige choice")

// Orchestrator resets every per-run store in a fixed order. It holds
// references to the stores it coordinates; callers construct and own them.
type Orchestrator struct {
	Rules      Rules
	Resources  *resources.Store
	Progress   *progress.Store
	Helpers    *bonus.Helpers
	Automation *bonus.Automation
}

// Execute performs a prestige. The steps run in order: read the pre-reset
// vector, compute the result, reset resources with the trust delta in the
// same write, reset progress, reset both helper pools, then credit any
// carry-over bonuses on top of the baseline. An unknown choice resets nothing.
func (o *Orchestrator) Execute(choice Choice) (Result, error) {
	before := o.Resources.Snapshot()

	result, ok := o.Rules.Compute(choice, before)
	if !ok {
		return Result{}, fmt.Errorf("execute prestige %q: %w", choice, ErrUnknownChoice)
	}

	o.Resources.PrestigeReset(result.TrustDelta())
	o.Progress.Reset()
	o.Helpers.Reset()
	o.Automation.Reset()

	for _, b := range result.Bonuses {
		o.Resources.Add(b.Type, b.Amount)
	}
	return result, nil
}

// ResetAll resets every store to its initial state, keeping trust as is.
func (o *Orchestrator) ResetAll() {
	o.Resources.PrestigeReset(0)
	o.Progress.Reset()
	o.Helpers.Reset()
	o.Automation.Reset()
}
