package evolution

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
	"github.com/mimetic-labs/resonance/graph"
	"github.com/mimetic-labs/resonance/simulation"
)

// countingAnalyst appends a revision marker each call, or fails.
type countingAnalyst struct {
	calls int
	err   error
}

func (a *countingAnalyst) Analyze(_ context.Context, result *core.SimulationResult) (core.CampaignSeed, *Rationale, error) {
	a.calls++
	if a.err != nil {
		return core.CampaignSeed{}, nil, a.err
	}
	next := result.Seed
	next.Content = fmt.Sprintf("%s (rev %d)", result.Seed.Content, a.calls)
	return next, &Rationale{Analysis: "needs work", Confidence: 0.5}, nil
}

type fixedPolicy struct{ action core.ActionType }

func (p fixedPolicy) Decide(_ context.Context, agent *core.AgentProfile, _ decision.Context) (decision.Decision, error) {
	return decision.Decision{Action: p.action, NewMood: agent.Mood}, nil
}

func newSim(n int, policy decision.Policy) *simulation.Simulator {
	agents := make([]*core.AgentProfile, n)
	for i := range agents {
		agents[i] = &core.AgentProfile{
			ID:             fmt.Sprintf("agent-%02d", i),
			MBTI:           core.ENFP,
			Mood:           core.MoodNeutral,
			InfluenceScore: 0.5,
		}
	}
	for _, a := range agents {
		for _, b := range agents {
			if a.ID != b.ID {
				a.Following = append(a.Following, b.ID)
				b.Followers = append(b.Followers, a.ID)
			}
		}
	}
	g := graph.New(agents, graph.DefaultConfig())
	return simulation.New(g, policy, rand.New(rand.NewSource(1)), core.NoopPublisher{}, "test", simulation.DefaultOptions())
}

func campaign() core.CampaignSeed {
	return core.CampaignSeed{Content: "Launch day!", Goal: core.GoalEngagement, TargetAudience: "everyone"}
}

func TestLoopCapBranch(t *testing.T) {
	analyst := &countingAnalyst{}
	loop := NewLoop(newSim(10, fixedPolicy{core.ActionLike}), analyst, core.NoopPublisher{}, "test", Options{
		MaxGenerations:   4,
		FitnessThreshold: 1.1, // unreachable, must terminate via the cap
	})

	history, err := loop.Run(context.Background(), campaign())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("ran %d generations, want exactly 4", len(history))
	}
	if analyst.calls != 3 {
		t.Errorf("analyst called %d times, want 3 (never after the final generation)", analyst.calls)
	}
	for i, gen := range history {
		if gen.Result.Generation != i+1 {
			t.Errorf("history[%d] is generation %d", i, gen.Result.Generation)
		}
	}
	// Every mutation except the last generation's should carry a rationale.
	for i, gen := range history[:3] {
		if gen.Rationale == nil {
			t.Errorf("generation %d mutated without a rationale", i+1)
		}
	}
	if history[3].Rationale != nil {
		t.Error("final generation should not carry a rationale")
	}
}

func TestLoopThresholdBranch(t *testing.T) {
	analyst := &countingAnalyst{}
	// A unanimous share cascade maxes out every engagement term.
	loop := NewLoop(newSim(10, fixedPolicy{core.ActionShare}), analyst, core.NoopPublisher{}, "test", Options{
		MaxGenerations:   5,
		FitnessThreshold: 0.75,
	})

	history, err := loop.Run(context.Background(), campaign())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("ran %d generations, want 1 (threshold stop)", len(history))
	}
	if analyst.calls != 0 {
		t.Errorf("analyst called %d times after a winning generation", analyst.calls)
	}
	if history[0].Fitness < 0.75 {
		t.Errorf("winning fitness = %f", history[0].Fitness)
	}
}

func TestLoopAnalystFailureHalts(t *testing.T) {
	analyst := &countingAnalyst{err: errors.New("model unavailable")}
	loop := NewLoop(newSim(10, fixedPolicy{core.ActionLike}), analyst, core.NoopPublisher{}, "test", Options{
		MaxGenerations:   4,
		FitnessThreshold: 1.1,
	})

	history, err := loop.Run(context.Background(), campaign())
	if err == nil {
		t.Fatal("analyst failure must surface an error")
	}
	if len(history) != 1 {
		t.Fatalf("kept %d generations, want the 1 completed before the halt", len(history))
	}
}

func TestLoopCancelledRunKeepsPartial(t *testing.T) {
	analyst := &countingAnalyst{}
	loop := NewLoop(newSim(10, fixedPolicy{core.ActionLike}), analyst, core.NoopPublisher{}, "test", DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history, err := loop.Run(ctx, campaign())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(history) != 0 {
		t.Errorf("pre-cancelled loop kept %d generations", len(history))
	}
}
