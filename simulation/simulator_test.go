package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
	"github.com/mimetic-labs/resonance/graph"
)

// scriptPolicy always produces the same action, optionally failing first.
type scriptPolicy struct {
	action core.ActionType
	err    error
}

func (p *scriptPolicy) Decide(_ context.Context, agent *core.AgentProfile, _ decision.Context) (decision.Decision, error) {
	if p.err != nil {
		return decision.Decision{Action: core.ActionIgnore, NewMood: agent.Mood}, p.err
	}
	return decision.Decision{Action: p.action, NewMood: agent.Mood}, nil
}

// denseGraph returns n agents where everyone follows everyone else.
func denseGraph(n int) *graph.Graph {
	agents := make([]*core.AgentProfile, n)
	for i := range agents {
		agents[i] = &core.AgentProfile{
			ID:             fmt.Sprintf("agent-%02d", i),
			Name:           fmt.Sprintf("Agent %d", i),
			MBTI:           core.ENFP,
			Mood:           core.MoodNeutral,
			InfluenceScore: 0.5,
		}
	}
	for _, a := range agents {
		for _, b := range agents {
			if a.ID == b.ID {
				continue
			}
			a.Following = append(a.Following, b.ID)
			b.Followers = append(b.Followers, a.ID)
		}
	}
	return graph.New(agents, graph.DefaultConfig())
}

func testSim(g *graph.Graph, policy decision.Policy, opts Options) *Simulator {
	return New(g, policy, rand.New(rand.NewSource(1)), core.NoopPublisher{}, "test", opts)
}

func seed() core.CampaignSeed {
	return core.CampaignSeed{Content: "Big launch!", Goal: core.GoalEngagement, TargetAudience: "everyone"}
}

func TestRunExposesEachAgentAtMostOnce(t *testing.T) {
	g := denseGraph(20)
	sim := testSim(g, &scriptPolicy{action: core.ActionShare}, DefaultOptions())

	result, err := sim.Run(context.Background(), seed(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]int)
	for _, ix := range result.Interactions {
		seen[ix.AgentID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("agent %s decided %d times in one generation", id, n)
		}
	}
	// Everyone shares and everyone follows everyone, so the cascade covers
	// the whole population by tick 1.
	if len(result.Interactions) != 20 {
		t.Errorf("ledger has %d entries, want 20", len(result.Interactions))
	}
}

func TestRunSingleAgent(t *testing.T) {
	g := denseGraph(1)
	sim := testSim(g, &scriptPolicy{action: core.ActionShare}, DefaultOptions())

	result, err := sim.Run(context.Background(), seed(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Interactions) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(result.Interactions))
	}
	if result.Shares != 1 || result.Reach != 1 {
		t.Errorf("analytics: shares %d reach %d", result.Shares, result.Reach)
	}
}

func TestRunEmptyPopulation(t *testing.T) {
	g := denseGraph(0)
	sim := testSim(g, &scriptPolicy{action: core.ActionShare}, DefaultOptions())

	if _, err := sim.Run(context.Background(), seed(), 1); !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("err = %v, want ErrEmptyPopulation", err)
	}
}

func TestRunAllIgnoreStallsWithoutError(t *testing.T) {
	g := denseGraph(15)
	sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, DefaultOptions())

	result, err := sim.Run(context.Background(), seed(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Nothing relays, so only the tick-0 audience ever decides and later
	// ticks are no-ops.
	if result.Reach != 0 {
		t.Errorf("reach = %d, want 0", result.Reach)
	}
	if len(result.Interactions) == 0 || len(result.Interactions) >= 15 {
		t.Errorf("tick-0 audience decided %d times, want partial coverage", len(result.Interactions))
	}
	for _, ix := range result.Interactions {
		if ix.Tick != 0 {
			t.Errorf("interaction on tick %d after a stalled cascade", ix.Tick)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	g := denseGraph(10)
	sim := testSim(g, &scriptPolicy{action: core.ActionShare}, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, seed(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil {
		t.Fatal("cancelled run must still return its partial result")
	}
	if len(result.Interactions) != 0 {
		t.Errorf("pre-cancelled run recorded %d interactions", len(result.Interactions))
	}
}

func TestRunFailedDecisionsDegrade(t *testing.T) {
	g := denseGraph(12)
	sim := testSim(g, &scriptPolicy{action: core.ActionShare, err: errors.New("backend down")}, DefaultOptions())

	result, err := sim.Run(context.Background(), seed(), 1)
	if err != nil {
		t.Fatalf("a failing policy must not abort the run: %v", err)
	}
	if result.FailedDecisions != len(result.Interactions) {
		t.Errorf("FailedDecisions = %d, ledger has %d entries", result.FailedDecisions, len(result.Interactions))
	}
	for _, ix := range result.Interactions {
		if ix.Action != core.ActionIgnore {
			t.Errorf("degraded decision recorded as %s", ix.Action)
		}
		if ix.NewMood != core.MoodNeutral {
			t.Errorf("degraded decision changed mood to %s", ix.NewMood)
		}
	}
}

func TestVisibleWindow(t *testing.T) {
	g := denseGraph(3)
	sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, DefaultOptions())

	author := g.Agents()[1].ID
	var ledger []core.Interaction
	for i := 0; i < 15; i++ {
		ledger = append(ledger, core.Interaction{
			ID:      fmt.Sprintf("ix-%02d", i),
			AgentID: author,
			Tick:    0,
			Action:  core.ActionComment,
		})
	}
	ledger = append(ledger, core.Interaction{ID: "ignored", AgentID: author, Action: core.ActionIgnore})

	visible := sim.visibleTo(g.Agents()[0], ledger, map[string]bool{})
	if len(visible) != DefaultOptions().VisibleWindow {
		t.Fatalf("visible window has %d entries, want %d", len(visible), DefaultOptions().VisibleWindow)
	}
	// Most recent K, oldest first.
	if visible[0].ID != "ix-05" || visible[len(visible)-1].ID != "ix-14" {
		t.Errorf("window spans %s..%s, want ix-05..ix-14", visible[0].ID, visible[len(visible)-1].ID)
	}
	for _, ix := range visible {
		if ix.Action == core.ActionIgnore {
			t.Error("ignores must never be visible")
		}
	}
}

func TestVisibilityRequiresFollowOrInfluencer(t *testing.T) {
	agents := []*core.AgentProfile{
		{ID: "a", MBTI: core.ENFP, Mood: core.MoodNeutral},
		{ID: "b", MBTI: core.ENFP, Mood: core.MoodNeutral},
		{ID: "c", MBTI: core.ENFP, Mood: core.MoodNeutral},
	}
	g := graph.New(agents, graph.DefaultConfig())
	sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, DefaultOptions())

	ledger := []core.Interaction{{ID: "x", AgentID: "b", Action: core.ActionComment}}

	if got := sim.visibleTo(agents[0], ledger, map[string]bool{}); len(got) != 0 {
		t.Errorf("unfollowed non-influencer author should be invisible, got %d", len(got))
	}
	if got := sim.visibleTo(agents[0], ledger, map[string]bool{"b": true}); len(got) != 1 {
		t.Errorf("influencer author should be visible, got %d", len(got))
	}
}

func TestRelayExposure(t *testing.T) {
	g := denseGraph(10)
	opts := DefaultOptions()

	t.Run("shares always surface", func(t *testing.T) {
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)
		ledger := []core.Interaction{{AgentID: "agent-00", Action: core.ActionShare}}
		exposed := map[string]bool{"agent-00": true}
		viewers := sim.relayExposure(ledger, exposed)
		if len(viewers) != 9 {
			t.Errorf("share relayed to %d followers, want all 9", len(viewers))
		}
	})

	t.Run("comments surface probabilistically", func(t *testing.T) {
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)
		ledger := []core.Interaction{{AgentID: "agent-00", Action: core.ActionComment}}
		exposed := map[string]bool{"agent-00": true}
		viewers := sim.relayExposure(ledger, exposed)
		if len(viewers) == 9 {
			t.Error("comment relay should be filtered by the surfacing coin")
		}
	})

	t.Run("exposed agents are skipped", func(t *testing.T) {
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)
		ledger := []core.Interaction{{AgentID: "agent-00", Action: core.ActionShare}}
		exposed := map[string]bool{}
		for _, a := range g.Agents() {
			exposed[a.ID] = true
		}
		if viewers := sim.relayExposure(ledger, exposed); len(viewers) != 0 {
			t.Errorf("fully exposed population still yielded %d viewers", len(viewers))
		}
	})

	t.Run("likes never relay", func(t *testing.T) {
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)
		ledger := []core.Interaction{{AgentID: "agent-00", Action: core.ActionLike}}
		if viewers := sim.relayExposure(ledger, map[string]bool{}); len(viewers) != 0 {
			t.Errorf("like relayed to %d followers", len(viewers))
		}
	})
}

func TestContagion(t *testing.T) {
	t.Run("eligibility by mode", func(t *testing.T) {
		g := denseGraph(2)
		cases := []struct {
			mode   ContagionMode
			action core.ActionType
			want   bool
		}{
			{ContagionOff, core.ActionMock, false},
			{ContagionStrongActions, core.ActionMock, true},
			{ContagionStrongActions, core.ActionShare, true},
			{ContagionStrongActions, core.ActionQuoteShare, true},
			{ContagionStrongActions, core.ActionLike, false},
			{ContagionStrongActions, core.ActionComment, false},
			{ContagionAllActions, core.ActionLike, true},
			{ContagionAllActions, core.ActionIgnore, false},
		}
		for _, c := range cases {
			opts := DefaultOptions()
			opts.Contagion = c.mode
			sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)
			if got := sim.contagionEligible(c.action); got != c.want {
				t.Errorf("mode %d action %s: eligible = %v, want %v", c.mode, c.action, got, c.want)
			}
		}
	})

	t.Run("hub mood infects some followers", func(t *testing.T) {
		g := denseGraph(200)
		hub := g.Agents()[0]
		hub.InfluenceScore = 1.0
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, DefaultOptions())

		sim.applyContagion(core.Interaction{
			AgentID: hub.ID,
			Action:  core.ActionMock,
			NewMood: core.MoodCynical,
		})

		infected := 0
		for _, a := range g.Agents()[1:] {
			if a.Mood == core.MoodCynical {
				infected++
			}
		}
		if infected == 0 {
			t.Error("maximum-influence mock infected nobody")
		}
		if infected == 199 {
			t.Error("contagion infected every follower, should be probabilistic")
		}
	})

	t.Run("off mode never mutates moods", func(t *testing.T) {
		g := denseGraph(50)
		opts := DefaultOptions()
		opts.Contagion = ContagionOff
		sim := testSim(g, &scriptPolicy{action: core.ActionIgnore}, opts)

		sim.applyContagion(core.Interaction{
			AgentID: g.Agents()[0].ID,
			Action:  core.ActionShare,
			NewMood: core.MoodExcited,
		})
		for _, a := range g.Agents()[1:] {
			if a.Mood != core.MoodNeutral {
				t.Fatalf("contagion off still changed %s to %s", a.ID, a.Mood)
			}
		}
	})
}
