package evolution

import (
	"context"
	"testing"

	"github.com/mimetic-labs/resonance/ai"
	"github.com/mimetic-labs/resonance/core"
)

type cannedCompleter struct {
	reply string
	err   error
}

func (c *cannedCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return c.reply, c.err
}

func finishedResult() *core.SimulationResult {
	r := &core.SimulationResult{
		Generation: 1,
		Seed: core.CampaignSeed{
			Content:        "Try our protein bars",
			Goal:           core.GoalClicks,
			TargetAudience: "gym goers",
		},
		Interactions: []core.Interaction{
			{AgentID: "a", Action: core.ActionMock, Content: "tastes like cardboard lol"},
			{AgentID: "b", Action: core.ActionLike},
		},
	}
	r.ComputeAnalytics()
	return r
}

func noSearch() ai.SearchConfig {
	cfg := ai.DefaultSearchConfig()
	cfg.Enabled = false
	return cfg
}

func TestAIAnalyst(t *testing.T) {
	t.Run("goal and audience preserved", func(t *testing.T) {
		a := NewAIAnalyst(&cannedCompleter{reply: `{
			"analysis": "mocked for taste claims",
			"strengths": ["clear product"],
			"weaknesses": ["taste skepticism"],
			"revised_content": "New recipe, actually tastes good. Try it free.",
			"revised_image_description": "athlete mid-workout",
			"confidence": 0.7
		}`}, noSearch())

		next, rationale, err := a.Analyze(context.Background(), finishedResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Goal != core.GoalClicks || next.TargetAudience != "gym goers" {
			t.Errorf("analyst mutated the brief: goal %s audience %q", next.Goal, next.TargetAudience)
		}
		if next.Content == finishedResult().Seed.Content {
			t.Error("content was not rewritten")
		}
		if rationale == nil || rationale.Confidence != 0.7 {
			t.Errorf("rationale = %+v", rationale)
		}
	})

	t.Run("empty rewrite is a failure", func(t *testing.T) {
		a := NewAIAnalyst(&cannedCompleter{reply: `{"analysis": "fine", "revised_content": "  "}`}, noSearch())
		if _, _, err := a.Analyze(context.Background(), finishedResult()); err == nil {
			t.Fatal("blank revised content must fail rather than feed the next generation garbage")
		}
	})

	t.Run("prose reply is a failure", func(t *testing.T) {
		a := NewAIAnalyst(&cannedCompleter{reply: "I think the campaign went poorly."}, noSearch())
		if _, _, err := a.Analyze(context.Background(), finishedResult()); err == nil {
			t.Fatal("non-JSON reply must fail")
		}
	})
}
