// Package population supplies the initial agent set for a run.
package population

import (
	"context"

	"github.com/mimetic-labs/resonance/core"
)

// Provider generates the agent population a simulation runs against. Agent
// ids must be unique and stable for the run's lifetime.
type Provider interface {
	Generate(ctx context.Context, seed core.CampaignSeed, count int) ([]*core.AgentProfile, error)
}
