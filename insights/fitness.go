// Package insights turns a raw interaction ledger into the numbers the
// evolution loop optimizes: a single goal-weighted fitness score plus a
// human-readable report.
package insights

import (
	"fmt"
	"strings"

	"github.com/mimetic-labs/resonance/core"
)

// weights holds the per-goal blend of the four normalized terms. Every row
// sums to 1 so fitness stays in [0, 1].
type weights struct {
	reach     float64
	sentiment float64
	virality  float64
	mock      float64 // applied to (1-mockRate), except controversy
}

var goalWeights = map[core.Goal]weights{
	core.GoalEngagement:     {reach: 0.4, sentiment: 0.3, virality: 0.2, mock: 0.1},
	core.GoalBrandAwareness: {reach: 0.3, sentiment: 0.2, virality: 0.4, mock: 0.1},
	core.GoalClicks:         {reach: 0.5, sentiment: 0.2, virality: 0.2, mock: 0.1},
	core.GoalControversy:    {reach: 0.2, sentiment: 0.1, virality: 0.3, mock: 0.4},
}

// Fitness scores a finished generation against its campaign goal. All four
// terms are normalized to [0, 1] before blending: reach against the number
// of agents who made any decision, sentiment shifted from [-1, 1], virality
// and mock rate already being rates. For every goal except controversy a
// high mock rate is a penalty; controversy rewards it outright. A
// generation that reached nobody scores zero regardless of goal.
func Fitness(result *core.SimulationResult) float64 {
	if result.Reach == 0 || len(result.Interactions) == 0 {
		return 0
	}

	w, ok := goalWeights[result.Seed.Goal]
	if !ok {
		w = goalWeights[core.GoalEngagement]
	}

	reachTerm := float64(result.Reach) / float64(len(result.Interactions))
	sentimentTerm := (result.SentimentScore + 1) / 2
	viralityTerm := result.ViralityScore
	mockRate := result.MockRate()

	mockTerm := 1 - mockRate
	if result.Seed.Goal == core.GoalControversy {
		mockTerm = mockRate
	}

	return w.reach*reachTerm + w.sentiment*sentimentTerm + w.virality*viralityTerm + w.mock*mockTerm
}

// Report renders a generation summary suitable for logs and the API.
func Report(result *core.SimulationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generation %d (%s)\n", result.Generation, result.Seed.Goal)
	fmt.Fprintf(&b, "  Reach: %d of %d decisions\n", result.Reach, len(result.Interactions))
	fmt.Fprintf(&b, "  Likes: %d  Comments: %d  Shares: %d  Mocks: %d\n",
		result.Likes, result.Comments, result.Shares, result.Mocks)
	fmt.Fprintf(&b, "  Discourse volume: %d\n", result.DiscourseVolume)
	fmt.Fprintf(&b, "  Sentiment: %+.2f  Virality: %.2f  Mock rate: %.2f\n",
		result.SentimentScore, result.ViralityScore, result.MockRate())
	if result.FailedDecisions > 0 {
		fmt.Fprintf(&b, "  Degraded decisions: %d\n", result.FailedDecisions)
	}
	fmt.Fprintf(&b, "  Fitness: %.3f\n", Fitness(result))
	return b.String()
}
