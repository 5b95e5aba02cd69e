package population

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/utils"
)

// LocalProvider generates a population without any model backend: names,
// ages, and interests come from fixed pools, influence is skewed so a few
// agents become hubs. The default when no API key is configured, and the
// deterministic choice for tests.
type LocalProvider struct {
	rng *rand.Rand
}

// NewLocalProvider creates a pool-based population provider.
func NewLocalProvider(rng *rand.Rand) *LocalProvider {
	return &LocalProvider{rng: rng}
}

var names = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Quinn", "Avery",
	"Skyler", "Dakota", "Phoenix", "River", "Sage", "Blake", "Drew", "Jamie",
	"Reese", "Cameron", "Hayden", "Parker", "Rowan", "Finley", "Emery", "Kai",
	"Charlie", "Sam", "Pat", "Robin", "Jesse", "Lee", "Max", "Zoe", "Nina",
	"Omar", "Priya", "Chen", "Fatima", "Luis", "Aisha", "Yuki", "Dmitri",
}

var locations = []string{
	"London", "Berlin", "Austin", "Toronto", "Lagos", "Mumbai",
	"Seoul", "Lisbon", "Melbourne", "Sao Paulo",
}

var interestPools = map[string][]string{
	"tech":      {"AI", "startups", "gadgets", "programming", "crypto", "gaming"},
	"lifestyle": {"fitness", "travel", "food", "fashion", "wellness", "home decor"},
	"culture":   {"music", "movies", "art", "books", "podcasts", "memes"},
	"business":  {"investing", "entrepreneurship", "marketing", "finance", "career"},
	"social":    {"politics", "environment", "social justice", "community", "volunteering"},
}

var interestCategories = []string{"tech", "lifestyle", "culture", "business", "social"}

// ageBuckets approximate platform demographics.
var ageBuckets = []utils.Weighted[[2]int]{
	{Item: [2]int{13, 17}, Weight: 0.05},
	{Item: [2]int{18, 24}, Weight: 0.25},
	{Item: [2]int{25, 34}, Weight: 0.30},
	{Item: [2]int{35, 44}, Weight: 0.20},
	{Item: [2]int{45, 54}, Weight: 0.15},
	{Item: [2]int{55, 70}, Weight: 0.05},
}

// Generate implements Provider. count must be positive.
func (p *LocalProvider) Generate(_ context.Context, _ core.CampaignSeed, count int) ([]*core.AgentProfile, error) {
	if count <= 0 {
		return nil, fmt.Errorf("population count must be positive, got %d", count)
	}

	agents := make([]*core.AgentProfile, 0, count)
	for i := 0; i < count; i++ {
		bucket := utils.WeightedDraw(p.rng, ageBuckets)
		age := bucket[0] + p.rng.Intn(bucket[1]-bucket[0]+1)

		// Two categories, 1-2 interests each.
		cats := p.rng.Perm(len(interestCategories))[:2]
		var interests []string
		for _, c := range cats {
			pool := interestPools[interestCategories[c]]
			picks := 1 + p.rng.Intn(2)
			for _, idx := range p.rng.Perm(len(pool))[:picks] {
				if len(interests) < 3 {
					interests = append(interests, pool[idx])
				}
			}
		}

		// Square the draw so high influence stays rare and the graph
		// builder grows a few hubs.
		influence := p.rng.Float64()
		influence *= influence

		name := names[p.rng.Intn(len(names))]
		agents = append(agents, &core.AgentProfile{
			ID:               core.NewAgentID(),
			Name:             fmt.Sprintf("%s%02d", name, 10+p.rng.Intn(90)),
			Age:              age,
			Location:         locations[p.rng.Intn(len(locations))],
			Bio:              fmt.Sprintf("%s enjoyer, posts about %s", interests[0], interests[len(interests)-1]),
			MBTI:             core.MBTITypes[p.rng.Intn(len(core.MBTITypes))],
			PoliticalLeaning: core.PoliticalLeanings[p.rng.Intn(len(core.PoliticalLeanings))],
			PurchasingPower:  core.PurchasingPowers[p.rng.Intn(len(core.PurchasingPowers))],
			Interests:        interests,
			Mood:             core.Moods[p.rng.Intn(len(core.Moods))],
			InfluenceScore:   influence,
		})
	}
	return agents, nil
}
