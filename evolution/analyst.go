// Package evolution closes the feedback loop: it scores each finished
// generation and, when the campaign underperforms, asks an analyst to
// rewrite it for the next one.
package evolution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mimetic-labs/resonance/ai"
	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
)

// Rationale explains why the analyst rewrote the campaign the way it did.
// Diagnostic only; the loop never branches on its contents.
type Rationale struct {
	Analysis   string   `json:"analysis"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Confidence float64  `json:"confidence"`
}

// Analyst rewrites an underperforming campaign. The returned seed must keep
// the goal and target audience of the input; only content and image
// description may change. On error the loop stops instead of mutating with
// garbage.
type Analyst interface {
	Analyze(ctx context.Context, result *core.SimulationResult) (core.CampaignSeed, *Rationale, error)
}

// AIAnalyst drives the rewrite through a language model, optionally
// grounding it with web research on how the campaign's topic is landing.
type AIAnalyst struct {
	completer decision.Completer
	search    ai.SearchConfig
}

// NewAIAnalyst builds an analyst on top of a completer. Pass
// ai.DefaultSearchConfig() to enable research, or a config with
// Enabled=false to skip it.
func NewAIAnalyst(completer decision.Completer, search ai.SearchConfig) *AIAnalyst {
	return &AIAnalyst{completer: completer, search: search}
}

type analystReply struct {
	Analysis         string   `json:"analysis"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	RevisedContent   string   `json:"revised_content"`
	RevisedImageDesc string   `json:"revised_image_description"`
	Confidence       float64  `json:"confidence"`
}

// Analyze rewrites the seed from the generation's ledger. Research failures
// are logged and skipped; a malformed or empty rewrite is an error.
func (a *AIAnalyst) Analyze(ctx context.Context, result *core.SimulationResult) (core.CampaignSeed, *Rationale, error) {
	research := a.research(result)

	raw, err := a.completer.Complete(ctx, "You are a marketing strategist analyzing campaign performance data.", ai.EvolutionPrompt(result, research))
	if err != nil {
		return core.CampaignSeed{}, nil, fmt.Errorf("campaign analysis failed: %w", err)
	}

	var reply analystReply
	if err := json.Unmarshal([]byte(ai.StripFences(raw)), &reply); err != nil {
		return core.CampaignSeed{}, nil, fmt.Errorf("campaign analysis returned malformed JSON: %w", err)
	}
	if strings.TrimSpace(reply.RevisedContent) == "" {
		return core.CampaignSeed{}, nil, errors.New("campaign analysis returned empty revised content")
	}

	// Goal and audience are the brief; the analyst only gets to touch the
	// creative.
	next := core.CampaignSeed{
		Content:          strings.TrimSpace(reply.RevisedContent),
		ImageDescription: strings.TrimSpace(reply.RevisedImageDesc),
		Goal:             result.Seed.Goal,
		TargetAudience:   result.Seed.TargetAudience,
	}
	rationale := &Rationale{
		Analysis:   reply.Analysis,
		Strengths:  reply.Strengths,
		Weaknesses: reply.Weaknesses,
		Confidence: reply.Confidence,
	}
	return next, rationale, nil
}

func (a *AIAnalyst) research(result *core.SimulationResult) string {
	if !a.search.Enabled {
		return ""
	}
	query := fmt.Sprintf("%s marketing campaign %s audience reaction", result.Seed.Goal, result.Seed.TargetAudience)
	findings, err := ai.PerformWebSearch(query, a.search)
	if err != nil {
		log.Printf("web research skipped: %v", err)
		return ""
	}
	return ai.FormatFindings(findings)
}
