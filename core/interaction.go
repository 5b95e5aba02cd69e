package core

import (
	"fmt"

	"github.com/google/uuid"
)

// ActionType is what an agent did when exposed to the campaign.
type ActionType string

const (
	ActionIgnore     ActionType = "ignore"
	ActionLike       ActionType = "like"
	ActionComment    ActionType = "comment"
	ActionShare      ActionType = "share"
	ActionQuoteShare ActionType = "quote_share"
	ActionMock       ActionType = "mock"
)

// Actions lists all valid action types.
var Actions = []ActionType{
	ActionIgnore, ActionLike, ActionComment,
	ActionShare, ActionQuoteShare, ActionMock,
}

// ParseAction maps a string to an ActionType, rejecting anything outside the
// closed set. Output from the generative strategy that fails this parse is a
// parse failure, never coerced.
func ParseAction(s string) (ActionType, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// RequiresContent reports whether the action carries authored text.
func (a ActionType) RequiresContent() bool {
	return a == ActionComment || a == ActionQuoteShare || a == ActionMock
}

// Relays reports whether the action pushes the campaign into the actor's
// followers' feeds on the next tick.
func (a ActionType) Relays() bool {
	switch a {
	case ActionShare, ActionQuoteShare, ActionComment, ActionMock:
		return true
	}
	return false
}

// GuaranteedSurfacing reports whether a relay is always placed in follower
// timelines. Shares and quote-shares are; comments and mocks depend on feed
// ranking.
func (a ActionType) GuaranteedSurfacing() bool {
	return a == ActionShare || a == ActionQuoteShare
}

// Interaction is an immutable event in a generation's ledger.
type Interaction struct {
	ID        string     `json:"id"`
	AgentID   string     `json:"agent_id"`
	Tick      int        `json:"tick"`
	Action    ActionType `json:"action"`
	Content   string     `json:"content"`
	Reasoning string     `json:"reasoning,omitempty"`
	NewMood   Mood       `json:"new_mood"`
}

// NewInteractionID returns a short unique interaction id.
func NewInteractionID() string {
	return uuid.New().String()[:8]
}
