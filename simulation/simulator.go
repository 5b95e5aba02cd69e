// Package simulation drives one generation of campaign propagation: tick by
// tick it computes who is exposed, asks the decision policy what each
// exposed agent does, records the result, and hands the finished ledger to
// analytics.
package simulation

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
	"github.com/mimetic-labs/resonance/graph"
)

// ErrEmptyPopulation means the simulation cannot start at all.
var ErrEmptyPopulation = errors.New("simulation requires at least one agent")

// ContagionMode selects when recorded interactions push the actor's mood
// onto followers.
type ContagionMode int

const (
	ContagionOff ContagionMode = iota
	// ContagionStrongActions fires only on share, quote_share, and mock.
	ContagionStrongActions
	ContagionAllActions
)

// Options tune one generation of propagation.
type Options struct {
	// Ticks is the fixed number of propagation steps T.
	Ticks int
	// BatchSize bounds concurrently outstanding decisions within a tick.
	BatchSize int
	// VisibleWindow is K, the number of recent non-ignore interactions an
	// exposed agent sees.
	VisibleWindow int
	// SurfacingProbability is the per-follower chance a comment/mock relay
	// gets surfaced by feed ranking. Shares always surface.
	SurfacingProbability float64
	// SeedInfluencers is how many top influencers see the post at tick 0.
	SeedInfluencers int
	Contagion       ContagionMode
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Ticks:                3,
		BatchSize:            5,
		VisibleWindow:        10,
		SurfacingProbability: 0.3,
		SeedInfluencers:      5,
		Contagion:            ContagionStrongActions,
	}
}

// Simulator runs generations against a fixed population and graph. It is
// agnostic to which decision strategy is active.
type Simulator struct {
	graph   *graph.Graph
	policy  decision.Policy
	rng     *rand.Rand
	events  core.EventPublisher
	subject string
	opts    Options

	names map[string]string
}

// New creates a simulator. Pass core.NoopPublisher{} when no event sink is
// wired; correctness never depends on consumers.
func New(g *graph.Graph, policy decision.Policy, rng *rand.Rand, events core.EventPublisher, subject string, opts Options) *Simulator {
	names := make(map[string]string, len(g.Agents()))
	for _, a := range g.Agents() {
		names[a.ID] = a.Name
	}
	return &Simulator{
		graph:   g,
		policy:  policy,
		rng:     rng,
		events:  events,
		subject: subject,
		opts:    opts,
		names:   names,
	}
}

// Run executes one generation against the seed. The returned result always
// has analytics computed, even when the context is cancelled between ticks:
// a partial ledger is a valid ledger.
func (s *Simulator) Run(ctx context.Context, seed core.CampaignSeed, generation int) (*core.SimulationResult, error) {
	agents := s.graph.Agents()
	if len(agents) == 0 {
		return nil, ErrEmptyPopulation
	}

	result := &core.SimulationResult{
		Generation: generation,
		Seed:       seed,
	}

	exposed := make(map[string]bool, len(agents))
	influencers := make(map[string]bool, s.opts.SeedInfluencers)
	for _, a := range s.graph.Influencers(s.opts.SeedInfluencers) {
		influencers[a.ID] = true
	}

	var mu sync.Mutex // serializes ledger appends and the failure counter

	for tick := 0; tick < s.opts.Ticks; tick++ {
		select {
		case <-ctx.Done():
			result.ComputeAnalytics()
			return result, ctx.Err()
		default:
		}

		var viewers []string
		if tick == 0 {
			viewers = s.seedExposure(exposed, influencers)
		} else {
			viewers = s.relayExposure(result.Interactions, exposed)
		}

		core.PublishEvent(s.events, s.subject, core.EventTickStarted, map[string]interface{}{
			"generation": generation,
			"tick":       tick,
			"exposed":    len(viewers),
		})

		if len(viewers) == 0 {
			// No candidates is not an error; the tick is a no-op.
			continue
		}
		for _, id := range viewers {
			exposed[id] = true
		}

		s.runTick(ctx, tick, seed, viewers, influencers, result, &mu)
	}

	result.ComputeAnalytics()

	core.PublishEvent(s.events, s.subject, core.EventGenerationResult, result)
	return result, nil
}

// runTick decides all newly exposed agents in bounded concurrent batches.
// The ledger preserves tick order; within a batch interactions append in
// completion order, which is accepted nondeterminism.
func (s *Simulator) runTick(ctx context.Context, tick int, seed core.CampaignSeed, viewers []string, influencers map[string]bool, result *core.SimulationResult, mu *sync.Mutex) {
	batch := s.opts.BatchSize
	if batch <= 0 {
		batch = 1
	}

	for start := 0; start < len(viewers); start += batch {
		end := start + batch
		if end > len(viewers) {
			end = len(viewers)
		}

		batchStart := len(result.Interactions)

		var wg sync.WaitGroup
		for _, id := range viewers[start:end] {
			agent := s.graph.Agent(id)
			if agent == nil {
				continue
			}
			wg.Add(1)
			go func(agent *core.AgentProfile) {
				defer wg.Done()
				s.decideOne(ctx, tick, seed, agent, influencers, result, mu)
			}(agent)
		}
		wg.Wait()

		// Contagion runs after the batch so follower moods are never
		// written while those followers may be deciding concurrently.
		if s.opts.Contagion != ContagionOff {
			mu.Lock()
			recorded := result.Interactions[batchStart:]
			mu.Unlock()
			for _, ix := range recorded {
				s.applyContagion(ix)
			}
		}
	}
}

// decideOne invokes the policy for a single agent and records the outcome.
// A failed decision degrades to ignore with the mood unchanged; it is
// logged and counted, never retried (a retry could consume a second
// exposure for the same agent).
func (s *Simulator) decideOne(ctx context.Context, tick int, seed core.CampaignSeed, agent *core.AgentProfile, influencers map[string]bool, result *core.SimulationResult, mu *sync.Mutex) {
	mu.Lock()
	visible := s.visibleTo(agent, result.Interactions, influencers)
	mu.Unlock()

	d, err := s.policy.Decide(ctx, agent, decision.Context{
		Seed:    seed,
		Visible: visible,
		Names:   s.names,
	})
	if err != nil {
		log.Printf("decision failed (agent=%s tick=%d), degrading to ignore: %v", agent.ID, tick, err)
	}

	// Only the agent's own decision writes its mood; never contended.
	agent.Mood = d.NewMood

	ix := core.Interaction{
		ID:        core.NewInteractionID(),
		AgentID:   agent.ID,
		Tick:      tick,
		Action:    d.Action,
		Content:   d.Content,
		Reasoning: d.Reasoning,
		NewMood:   d.NewMood,
	}

	mu.Lock()
	result.Interactions = append(result.Interactions, ix)
	if err != nil {
		result.FailedDecisions++
	}
	mu.Unlock()

	core.PublishEvent(s.events, s.subject, core.EventInteraction, map[string]interface{}{
		"agent_name":  agent.Name,
		"interaction": ix,
	})
}

// visibleTo returns the most recent VisibleWindow non-ignore interactions
// the agent can see: authored by someone it follows, or by a top
// influencer, whichever is broader. Oldest first.
func (s *Simulator) visibleTo(agent *core.AgentProfile, ledger []core.Interaction, influencers map[string]bool) []core.Interaction {
	var visible []core.Interaction
	for i := len(ledger) - 1; i >= 0 && len(visible) < s.opts.VisibleWindow; i-- {
		ix := ledger[i]
		if ix.Action == core.ActionIgnore {
			continue
		}
		if agent.Follows(ix.AgentID) || influencers[ix.AgentID] {
			visible = append(visible, ix)
		}
	}
	// Reverse into chronological order.
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}
	return visible
}
