package population

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"github.com/mimetic-labs/resonance/ai"
	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
)

// batchSize bounds how many personas one prompt asks for; larger batches
// degrade into repetitive profiles.
const batchSize = 5

// AIProvider generates personas with a language model, batch by batch.
// Malformed profiles are repaired with defaults rather than dropped; a
// failed batch is logged and skipped.
type AIProvider struct {
	completer decision.Completer
	rng       *rand.Rand
}

// NewAIProvider creates a model-backed population provider.
func NewAIProvider(c decision.Completer, rng *rand.Rand) *AIProvider {
	return &AIProvider{completer: c, rng: rng}
}

// rawProfile is the JSON shape a generated persona arrives in.
type rawProfile struct {
	Name             string   `json:"name"`
	Age              int      `json:"age"`
	Location         string   `json:"location"`
	Bio              string   `json:"bio"`
	MBTI             string   `json:"mbti"`
	PoliticalLeaning string   `json:"political_leaning"`
	PurchasingPower  string   `json:"purchasing_power"`
	Interests        []string `json:"interests"`
	InfluenceScore   float64  `json:"influence_score"`
}

// Generate implements Provider.
func (p *AIProvider) Generate(ctx context.Context, seed core.CampaignSeed, count int) ([]*core.AgentProfile, error) {
	var agents []*core.AgentProfile

	for remaining := count; remaining > 0; remaining -= batchSize {
		batch := batchSize
		if remaining < batch {
			batch = remaining
		}

		raw, err := p.completer.Complete(ctx,
			"You are a persona generator. Output ONLY a valid JSON array. No markdown fences, no explanation, no text before or after the JSON.",
			ai.PopulationPrompt(seed.TargetAudience, batch),
		)
		if err != nil {
			log.Printf("population batch failed: %v", err)
			continue
		}

		parsed, err := p.parseProfiles(raw)
		if err != nil {
			log.Printf("population batch unparseable: %v", err)
			continue
		}
		agents = append(agents, parsed...)
	}

	if len(agents) == 0 {
		return nil, fmt.Errorf("population generation produced zero agents")
	}
	return agents, nil
}

// parseProfiles converts a raw JSON array into agent profiles, substituting
// defaults for out-of-vocabulary fields.
func (p *AIProvider) parseProfiles(raw string) ([]*core.AgentProfile, error) {
	var parsed []rawProfile
	if err := json.Unmarshal([]byte(ai.StripFences(raw)), &parsed); err != nil {
		return nil, err
	}

	agents := make([]*core.AgentProfile, 0, len(parsed))
	for _, r := range parsed {
		if r.Name == "" {
			continue
		}
		mbti, err := core.ParseMBTI(r.MBTI)
		if err != nil {
			mbti = core.ENFP
		}
		pol, err := core.ParsePoliticalLeaning(r.PoliticalLeaning)
		if err != nil {
			pol = core.Center
		}
		pp, err := core.ParsePurchasingPower(r.PurchasingPower)
		if err != nil {
			pp = core.PowerMedium
		}
		age := r.Age
		if age <= 0 {
			age = 25
		}
		location := r.Location
		if location == "" {
			location = "Unknown"
		}
		interests := r.Interests
		if len(interests) > 3 {
			interests = interests[:3]
		}
		influence := r.InfluenceScore
		if influence < 0 {
			influence = 0
		}
		if influence > 1 {
			influence = 1
		}

		agents = append(agents, &core.AgentProfile{
			ID:               core.NewAgentID(),
			Name:             r.Name,
			Age:              age,
			Location:         location,
			Bio:              r.Bio,
			MBTI:             mbti,
			PoliticalLeaning: pol,
			PurchasingPower:  pp,
			Interests:        interests,
			Mood:             core.Moods[p.rng.Intn(len(core.Moods))],
			InfluenceScore:   influence,
		})
	}
	return agents, nil
}
