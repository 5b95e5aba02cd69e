package evolution

import (
	"context"
	"fmt"
	"log"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/insights"
	"github.com/mimetic-labs/resonance/simulation"
)

// Options bound the loop.
type Options struct {
	// MaxGenerations caps the number of simulated generations.
	MaxGenerations int
	// FitnessThreshold stops the loop early once a generation scores at or
	// above it. Set above 1 to force the cap branch.
	FitnessThreshold float64
}

// DefaultOptions returns the standard loop bounds.
func DefaultOptions() Options {
	return Options{MaxGenerations: 3, FitnessThreshold: 0.75}
}

// Generation pairs a finished result with its score and, when the loop
// mutated afterwards, the analyst's rationale for the rewrite.
type Generation struct {
	Result    *core.SimulationResult `json:"result"`
	Fitness   float64                `json:"fitness"`
	Rationale *Rationale             `json:"rationale,omitempty"`
}

// Loop runs generations until the campaign is good enough or the cap is
// reached. Agents and the social graph persist across generations; only the
// seed and agent moods carry forward.
type Loop struct {
	sim     *simulation.Simulator
	analyst Analyst
	events  core.EventPublisher
	subject string
	opts    Options
}

// NewLoop wires a loop. Pass core.NoopPublisher{} when nothing listens.
func NewLoop(sim *simulation.Simulator, analyst Analyst, events core.EventPublisher, subject string, opts Options) *Loop {
	return &Loop{sim: sim, analyst: analyst, events: events, subject: subject, opts: opts}
}

// Run executes the loop. Prior generations are retained for reporting and
// never replayed. On a simulator or analyst failure the completed
// generations are returned alongside the error so partial runs stay usable.
func (l *Loop) Run(ctx context.Context, seed core.CampaignSeed) ([]Generation, error) {
	var history []Generation

	for g := 1; g <= l.opts.MaxGenerations; g++ {
		result, err := l.sim.Run(ctx, seed, g)
		if err != nil {
			if result != nil && len(result.Interactions) > 0 {
				history = append(history, Generation{Result: result, Fitness: insights.Fitness(result)})
			}
			return history, fmt.Errorf("generation %d aborted: %w", g, err)
		}

		fitness := insights.Fitness(result)
		history = append(history, Generation{Result: result, Fitness: fitness})
		log.Printf("generation %d scored %.3f (threshold %.3f)", g, fitness, l.opts.FitnessThreshold)

		if fitness >= l.opts.FitnessThreshold {
			log.Printf("fitness threshold reached, stopping after generation %d", g)
			break
		}
		if g == l.opts.MaxGenerations {
			break
		}

		next, rationale, err := l.analyst.Analyze(ctx, result)
		if err != nil {
			// Stopping beats mutating with garbage.
			return history, fmt.Errorf("evolution halted after generation %d: %w", g, err)
		}
		history[len(history)-1].Rationale = rationale

		core.PublishEvent(l.events, l.subject, core.EventEvolution, map[string]interface{}{
			"generation": g,
			"fitness":    fitness,
			"rationale":  rationale,
			"next_seed":  next,
		})

		seed = next
	}

	return history, nil
}
