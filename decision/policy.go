// Package decision maps an exposed agent and its visible context to an
// action, content, a mood transition, and reasoning. Two interchangeable
// strategies implement the same capability; the simulator never branches on
// which one is active.
package decision

import (
	"context"

	"github.com/mimetic-labs/resonance/core"
)

// Context is everything an agent can see when deciding: the campaign and the
// most recent visible reactions, oldest first.
type Context struct {
	Seed    core.CampaignSeed
	Visible []core.Interaction
	// Names maps agent ids to display names for rendering visible reactions.
	Names map[string]string
}

// Decision is the four-tuple a strategy produces.
type Decision struct {
	Action    core.ActionType
	Content   string
	NewMood   core.Mood
	Reasoning string
}

// Policy is the decision capability. Implementations must be safe for
// concurrent use: the simulator dispatches same-tick decisions in parallel
// batches. A non-nil error means the decision could not be produced; callers
// degrade to the returned Decision (ignore, mood unchanged) rather than
// aborting the tick.
type Policy interface {
	Decide(ctx context.Context, agent *core.AgentProfile, dctx Context) (Decision, error)
}

// ignoreDecision is the defensive default for a failed decision.
func ignoreDecision(agent *core.AgentProfile) Decision {
	return Decision{
		Action:  core.ActionIgnore,
		NewMood: agent.Mood,
	}
}
