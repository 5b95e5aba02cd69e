package ai

import (
	"fmt"
	"strings"

	"github.com/mimetic-labs/resonance/core"
)

// All prompt builders live here so the wording is tuned in one place.

// PostContext renders what an exposed agent sees: the sponsored post plus
// the reactions visible to it. names maps agent ids to display names.
func PostContext(seed core.CampaignSeed, visible []core.Interaction, names map[string]string) string {
	var b strings.Builder
	b.WriteString("=== SPONSORED POST ===\n")
	b.WriteString(seed.Content)
	b.WriteString("\n")
	if seed.ImageDescription != "" {
		fmt.Fprintf(&b, "[Image: %s]\n", seed.ImageDescription)
	}
	b.WriteString("\n")

	shown := false
	for _, ix := range visible {
		if ix.Action == core.ActionIgnore {
			continue
		}
		if !shown {
			b.WriteString("=== REACTIONS YOU CAN SEE ===\n")
			shown = true
		}
		author := names[ix.AgentID]
		if author == "" {
			author = "Unknown"
		}
		fmt.Fprintf(&b, "@%s [%s]: %s\n", author, ix.Action, ix.Content)
	}
	if !shown {
		b.WriteString("(You are one of the first to see this post. No reactions yet.)\n")
	}
	return b.String()
}

// AgentBrainPrompt instructs the model to act as the agent and return the
// action tuple as strict JSON.
func AgentBrainPrompt(agent *core.AgentProfile, context string) string {
	return fmt.Sprintf(`You are simulating a social-media user. Stay 100%% in character.

YOUR PROFILE:
- Name: %s | Age: %d | Location: %s
- Bio: %s
- MBTI: %s | Politics: %s | Purchasing power: %s
- Interests: %s
- Current mood: %s
- Influence (0-1): %.2f

CONTEXT:
%s

Based on your personality, mood, and what you see, respond with ONLY a JSON object:
{
  "action": one of ["ignore", "like", "comment", "share", "quote_share", "mock"],
  "content": "your comment/quote text if action is comment, quote_share, or mock - otherwise empty string",
  "new_mood": one of ["happy", "neutral", "irritable", "bored", "excited", "anxious", "cynical"],
  "reasoning": "one sentence on WHY you chose this action (internal monologue)"
}

Rules:
- Be authentic to your personality. A cynical INTJ won't gush over a basic ad.
- If you see other people mocking, you might pile on (or defend, depending on type).
- If the content doesn't match your interests, you'll probably ignore it.
- Influencers are more likely to comment/share. Lurkers mostly ignore or like.
- Your mood should shift based on what you're seeing.
Return ONLY the JSON object, no markdown fences.`,
		agent.Name, agent.Age, agent.Location,
		agent.Bio,
		agent.MBTI, agent.PoliticalLeaning, agent.PurchasingPower,
		strings.Join(agent.Interests, ", "),
		agent.Mood,
		agent.InfluenceScore,
		context,
	)
}

// PopulationPrompt asks for a batch of persona profiles as a JSON array.
func PopulationPrompt(targetAudience string, count int) string {
	return fmt.Sprintf(`Generate %d diverse social-media user profiles for audience: "%s".
Mix: lurkers, influencers, trolls, normies, contrarians.
Return ONLY a JSON array. No markdown. Each object:
{"name":"string","age":int,"location":"string","bio":"short","mbti":"INTJ|ENFP|etc","political_leaning":"left|center|right|far_left|far_right|center_left|center_right","purchasing_power":"low|medium|high|luxury","interests":["a","b"],"influence_score":0.0-1.0}
Keep bios under 10 words. Keep interests to 3 items max.`, count, targetAudience)
}

// EvolutionPrompt asks the strategist model to analyze a finished generation
// and propose the next campaign variant. research, if non-empty, is
// prepended as background findings.
func EvolutionPrompt(result *core.SimulationResult, research string) string {
	var comments, mocks []string
	for _, ix := range result.Interactions {
		if ix.Content == "" {
			continue
		}
		switch ix.Action {
		case core.ActionComment, core.ActionQuoteShare:
			if len(comments) < 15 {
				comments = append(comments, "- "+ix.Content)
			}
		case core.ActionMock:
			if len(mocks) < 10 {
				mocks = append(mocks, "- "+ix.Content)
			}
		}
	}
	sampleComments := "(No comments)"
	if len(comments) > 0 {
		sampleComments = strings.Join(comments, "\n")
	}
	sampleMocks := "(No mocks)"
	if len(mocks) > 0 {
		sampleMocks = strings.Join(mocks, "\n")
	}

	researchBlock := ""
	if research != "" {
		researchBlock = "\nRELEVANT RESEARCH FINDINGS:\n" + research + "\n"
	}

	return fmt.Sprintf(`You are an expert social-media strategist analyzing a simulated campaign run.
%s
CAMPAIGN:
- Content: %s
- Image: %s
- Goal: %s
- Target audience: %s

RESULTS (Generation %d):
- Total reach: %d
- Likes: %d
- Comments: %d
- Shares: %d
- Mocks: %d
- Sentiment score (-1 to 1): %.2f
- Virality score (0 to 1): %.2f

SAMPLE COMMENTS:
%s

SAMPLE MOCKS:
%s

---

Analyze:
1. WHY did the post perform this way? Be specific - reference the comments.
2. What resonated? What fell flat? What triggered backlash?
3. How should the copy/image be changed for the next generation?

Return ONLY a JSON object:
{
  "analysis": "2-3 sentence summary of why this happened",
  "strengths": ["list of what worked"],
  "weaknesses": ["list of what didn't work"],
  "revised_content": "the rewritten ad copy for generation %d",
  "revised_image_description": "updated image direction if needed (or same)",
  "confidence": float 0-1 for how much improvement is expected
}
Return ONLY the JSON object, no markdown fences.`,
		researchBlock,
		result.Seed.Content,
		result.Seed.ImageDescription,
		result.Seed.Goal,
		result.Seed.TargetAudience,
		result.Generation,
		result.Reach,
		result.Likes,
		result.Comments,
		result.Shares,
		result.Mocks,
		result.SentimentScore,
		result.ViralityScore,
		sampleComments,
		sampleMocks,
		result.Generation+1,
	)
}
