package insights

import (
	"math"
	"strings"
	"testing"

	"github.com/mimetic-labs/resonance/core"
)

func resultWith(goal core.Goal, actions ...core.ActionType) *core.SimulationResult {
	r := &core.SimulationResult{Seed: core.CampaignSeed{Goal: goal}}
	for _, a := range actions {
		r.Interactions = append(r.Interactions, core.Interaction{
			ID: core.NewInteractionID(), AgentID: core.NewAgentID(), Action: a,
		})
	}
	r.ComputeAnalytics()
	return r
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitness(t *testing.T) {
	t.Run("zero reach scores zero", func(t *testing.T) {
		for _, goal := range core.Goals {
			r := resultWith(goal, core.ActionIgnore, core.ActionIgnore)
			if got := Fitness(r); got != 0 {
				t.Errorf("%s with zero reach = %f, want 0", goal, got)
			}
		}
	})

	t.Run("empty ledger scores zero", func(t *testing.T) {
		r := &core.SimulationResult{Seed: core.CampaignSeed{Goal: core.GoalEngagement}}
		r.ComputeAnalytics()
		if got := Fitness(r); got != 0 {
			t.Errorf("empty ledger = %f, want 0", got)
		}
	})

	t.Run("engagement formula", func(t *testing.T) {
		// 10 interactions: 4 likes, 2 shares, 2 comments, 2 ignores.
		r := resultWith(core.GoalEngagement,
			core.ActionLike, core.ActionLike, core.ActionLike, core.ActionLike,
			core.ActionShare, core.ActionShare,
			core.ActionComment, core.ActionComment,
			core.ActionIgnore, core.ActionIgnore,
		)
		// reachTerm = 8/10, sentiment = (4+2-0)/8 -> term = (0.75+1)/2,
		// virality = 2/8, mockRate = 0.
		want := 0.4*0.8 + 0.3*0.875 + 0.2*0.25 + 0.1*1.0
		if got := Fitness(r); !almost(got, want) {
			t.Errorf("engagement fitness = %f, want %f", got, want)
		}
	})

	t.Run("controversy rewards mockery", func(t *testing.T) {
		// 10 interactions, all reached: 6 mocks, 2 shares, 2 likes.
		r := resultWith(core.GoalControversy,
			core.ActionMock, core.ActionMock, core.ActionMock,
			core.ActionMock, core.ActionMock, core.ActionMock,
			core.ActionShare, core.ActionShare,
			core.ActionLike, core.ActionLike,
		)
		if r.MockRate() != 0.6 {
			t.Fatalf("mockRate = %f, want 0.6", r.MockRate())
		}
		if r.ViralityScore != 0.2 {
			t.Fatalf("virality = %f, want 0.2", r.ViralityScore)
		}
		// sentiment = (2+2-6)/10 = -0.2 -> term = 0.4
		want := 0.2*1.0 + 0.1*0.4 + 0.3*0.2 + 0.4*0.6
		if got := Fitness(r); !almost(got, want) {
			t.Errorf("controversy fitness = %f, want %f", got, want)
		}
	})

	t.Run("mockery hurts every other goal", func(t *testing.T) {
		clean := resultWith(core.GoalBrandAwareness,
			core.ActionLike, core.ActionLike, core.ActionShare, core.ActionComment)
		mocked := resultWith(core.GoalBrandAwareness,
			core.ActionMock, core.ActionMock, core.ActionShare, core.ActionComment)
		if Fitness(mocked) >= Fitness(clean) {
			t.Errorf("mocked campaign scored %f, clean %f", Fitness(mocked), Fitness(clean))
		}
	})

	t.Run("bounded in unit interval", func(t *testing.T) {
		extremes := []*core.SimulationResult{
			resultWith(core.GoalClicks, core.ActionShare, core.ActionShare, core.ActionShare),
			resultWith(core.GoalControversy, core.ActionMock, core.ActionMock, core.ActionMock),
			resultWith(core.GoalEngagement, core.ActionLike),
		}
		for _, r := range extremes {
			got := Fitness(r)
			if got < 0 || got > 1 {
				t.Errorf("fitness %f outside [0, 1] for %s", got, r.Seed.Goal)
			}
		}
	})
}

func TestReport(t *testing.T) {
	r := resultWith(core.GoalEngagement, core.ActionLike, core.ActionMock, core.ActionIgnore)
	r.Generation = 2
	text := Report(r)
	if !strings.Contains(text, "Generation 2") {
		t.Errorf("report missing generation header: %q", text)
	}
	if !strings.Contains(text, "Fitness") {
		t.Errorf("report missing fitness line: %q", text)
	}
}
