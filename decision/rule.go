package decision

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/utils"
)

// RulePolicy is the always-available strategy: a weighted draw over the six
// action types, with weights keyed by a coarse personality class and
// adjusted by mood, influence tier, visible social pressure, and interest
// match. It is the default and the fallback when no generative backend is
// configured.
type RulePolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRulePolicy creates a rule-based strategy drawing from the given source.
func NewRulePolicy(rng *rand.Rand) *RulePolicy {
	return &RulePolicy{rng: rng}
}

// actionWeights holds a mutable weight per action type.
type actionWeights map[core.ActionType]float64

// baseWeights keys the starting distribution on introvert/extrovert (first
// MBTI letter) and thinker/feeler (third letter).
func baseWeights(m core.MBTIType) actionWeights {
	switch {
	case m.Introvert() && m.Thinker():
		return actionWeights{
			core.ActionIgnore:     3.0,
			core.ActionLike:       1.5,
			core.ActionComment:    1.0,
			core.ActionShare:      0.5,
			core.ActionQuoteShare: 0.6,
			core.ActionMock:       0.9,
		}
	case m.Introvert():
		return actionWeights{
			core.ActionIgnore:     2.5,
			core.ActionLike:       2.2,
			core.ActionComment:    1.0,
			core.ActionShare:      0.8,
			core.ActionQuoteShare: 0.5,
			core.ActionMock:       0.5,
		}
	case m.Thinker():
		return actionWeights{
			core.ActionIgnore:     1.5,
			core.ActionLike:       1.8,
			core.ActionComment:    2.0,
			core.ActionShare:      1.0,
			core.ActionQuoteShare: 1.0,
			core.ActionMock:       1.0,
		}
	default:
		return actionWeights{
			core.ActionIgnore:     1.2,
			core.ActionLike:       2.5,
			core.ActionComment:    2.0,
			core.ActionShare:      1.5,
			core.ActionQuoteShare: 0.9,
			core.ActionMock:       0.6,
		}
	}
}

func applyMood(w actionWeights, mood core.Mood) {
	switch mood {
	case core.MoodCynical, core.MoodIrritable:
		w[core.ActionMock] *= 2.0
		w[core.ActionIgnore] *= 0.7
	case core.MoodHappy, core.MoodExcited:
		w[core.ActionLike] *= 1.5
		w[core.ActionShare] *= 1.5
		w[core.ActionMock] *= 0.3
	case core.MoodBored:
		w[core.ActionIgnore] *= 1.8
	}
}

func applyInfluence(w actionWeights, influence float64) {
	switch {
	case influence > 0.5:
		w[core.ActionComment] *= 1.5
		w[core.ActionShare] *= 1.5
		w[core.ActionQuoteShare] *= 1.5
	case influence < 0.2:
		w[core.ActionIgnore] *= 1.5
		w[core.ActionLike] *= 1.3
	}
}

// applySocialPressure boosts mocking when the agent can see others mocking.
// Pile-on strength depends on the agent's current mood.
func applySocialPressure(w actionWeights, mood core.Mood, visible []core.Interaction) {
	mocked := false
	for _, ix := range visible {
		if ix.Action == core.ActionMock {
			mocked = true
			break
		}
	}
	if !mocked {
		return
	}
	switch mood {
	case core.MoodCynical:
		w[core.ActionMock] *= 2.5
	case core.MoodIrritable:
		w[core.ActionMock] *= 2.2
	case core.MoodAnxious, core.MoodBored:
		w[core.ActionMock] *= 1.8
	default:
		w[core.ActionMock] *= 1.4
	}
}

// applyInterestMatch compares agent interests against the campaign text.
func applyInterestMatch(w actionWeights, agent *core.AgentProfile, seed core.CampaignSeed) {
	haystack := strings.ToLower(seed.Content + " " + seed.ImageDescription + " " + seed.TargetAudience)
	matched := false
	for _, interest := range agent.Interests {
		if interest == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(interest)) {
			matched = true
			break
		}
	}
	if matched {
		w[core.ActionComment] *= 1.5
		w[core.ActionShare] *= 1.3
	} else {
		w[core.ActionIgnore] *= 2.0
	}
}

// Decide implements Policy. It never fails.
func (p *RulePolicy) Decide(_ context.Context, agent *core.AgentProfile, dctx Context) (Decision, error) {
	w := baseWeights(agent.MBTI)
	applyMood(w, agent.Mood)
	applyInfluence(w, agent.InfluenceScore)
	applySocialPressure(w, agent.Mood, dctx.Visible)
	applyInterestMatch(w, agent, dctx.Seed)

	// Fixed iteration order keeps the draw deterministic for a given seed.
	choices := make([]utils.Weighted[core.ActionType], 0, len(core.Actions))
	for _, a := range core.Actions {
		choices = append(choices, utils.Weighted[core.ActionType]{Item: a, Weight: w[a]})
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	action := utils.WeightedDraw(p.rng, choices)

	d := Decision{
		Action:    action,
		Reasoning: drawLine(p.rng, reasoningPools[action]),
		NewMood:   utils.WeightedDraw(p.rng, moodTransitions[action]),
	}
	if action.RequiresContent() {
		d.Content = drawLine(p.rng, contentPools[action])
	}
	return d, nil
}

func drawLine(rng *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
