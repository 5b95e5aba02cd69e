package decision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mimetic-labs/resonance/ai"
	"github.com/mimetic-labs/resonance/core"
)

// Completer is the opaque content-generator boundary. *ai.Client satisfies
// it; tests use scripted fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GenerativePolicy delegates the decision to a language model playing the
// agent. Anything outside the closed action/mood vocabularies, or malformed
// JSON, is a parse failure: the returned decision defaults to ignore with
// the mood unchanged, and the error is surfaced so the caller can log and
// count it.
type GenerativePolicy struct {
	completer Completer
}

// NewGenerativePolicy creates a generative strategy over a completer.
func NewGenerativePolicy(c Completer) *GenerativePolicy {
	return &GenerativePolicy{completer: c}
}

// brainReply is the JSON shape the model must return.
type brainReply struct {
	Action    string `json:"action"`
	Content   string `json:"content"`
	NewMood   string `json:"new_mood"`
	Reasoning string `json:"reasoning"`
}

// Decide implements Policy.
func (p *GenerativePolicy) Decide(ctx context.Context, agent *core.AgentProfile, dctx Context) (Decision, error) {
	prompt := ai.AgentBrainPrompt(agent, ai.PostContext(dctx.Seed, dctx.Visible, dctx.Names))

	raw, err := p.completer.Complete(ctx, "You are a social-media user simulator. Return ONLY valid JSON.", prompt)
	if err != nil {
		return ignoreDecision(agent), fmt.Errorf("generative decision for agent %s: %w", agent.ID, err)
	}

	var reply brainReply
	if err := json.Unmarshal([]byte(ai.StripFences(raw)), &reply); err != nil {
		return ignoreDecision(agent), fmt.Errorf("parse decision for agent %s: %w", agent.ID, err)
	}

	action, err := core.ParseAction(reply.Action)
	if err != nil {
		return ignoreDecision(agent), fmt.Errorf("decision for agent %s: %w", agent.ID, err)
	}
	mood, err := core.ParseMood(reply.NewMood)
	if err != nil {
		return ignoreDecision(agent), fmt.Errorf("decision for agent %s: %w", agent.ID, err)
	}

	content := reply.Content
	if !action.RequiresContent() {
		content = ""
	}

	return Decision{
		Action:    action,
		Content:   content,
		NewMood:   mood,
		Reasoning: reply.Reasoning,
	}, nil
}
