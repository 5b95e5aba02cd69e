package core

import (
	"fmt"

	"github.com/google/uuid"
)

// MBTIType is a 16-valued personality code.
type MBTIType string

const (
	INTJ MBTIType = "INTJ"
	INTP MBTIType = "INTP"
	ENTJ MBTIType = "ENTJ"
	ENTP MBTIType = "ENTP"
	INFJ MBTIType = "INFJ"
	INFP MBTIType = "INFP"
	ENFJ MBTIType = "ENFJ"
	ENFP MBTIType = "ENFP"
	ISTJ MBTIType = "ISTJ"
	ISFJ MBTIType = "ISFJ"
	ESTJ MBTIType = "ESTJ"
	ESFJ MBTIType = "ESFJ"
	ISTP MBTIType = "ISTP"
	ISFP MBTIType = "ISFP"
	ESTP MBTIType = "ESTP"
	ESFP MBTIType = "ESFP"
)

// MBTITypes lists all valid personality codes.
var MBTITypes = []MBTIType{
	INTJ, INTP, ENTJ, ENTP,
	INFJ, INFP, ENFJ, ENFP,
	ISTJ, ISFJ, ESTJ, ESFJ,
	ISTP, ISFP, ESTP, ESFP,
}

// ParseMBTI maps a string to an MBTIType, rejecting unknown codes.
func ParseMBTI(s string) (MBTIType, error) {
	for _, m := range MBTITypes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown MBTI type %q", s)
}

// Introvert reports whether the first letter of the code is I.
func (m MBTIType) Introvert() bool {
	return len(m) == 4 && m[0] == 'I'
}

// Thinker reports whether the third letter of the code is T.
func (m MBTIType) Thinker() bool {
	return len(m) == 4 && m[2] == 'T'
}

// PoliticalLeaning is a 7-valued political alignment.
type PoliticalLeaning string

const (
	FarLeft     PoliticalLeaning = "far_left"
	Left        PoliticalLeaning = "left"
	CenterLeft  PoliticalLeaning = "center_left"
	Center      PoliticalLeaning = "center"
	CenterRight PoliticalLeaning = "center_right"
	Right       PoliticalLeaning = "right"
	FarRight    PoliticalLeaning = "far_right"
)

// PoliticalLeanings lists all valid alignments.
var PoliticalLeanings = []PoliticalLeaning{
	FarLeft, Left, CenterLeft, Center, CenterRight, Right, FarRight,
}

// ParsePoliticalLeaning maps a string to a PoliticalLeaning.
func ParsePoliticalLeaning(s string) (PoliticalLeaning, error) {
	for _, p := range PoliticalLeanings {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown political leaning %q", s)
}

// PurchasingPower is a coarse spending tier.
type PurchasingPower string

const (
	PowerLow    PurchasingPower = "low"
	PowerMedium PurchasingPower = "medium"
	PowerHigh   PurchasingPower = "high"
	PowerLuxury PurchasingPower = "luxury"
)

// PurchasingPowers lists all valid tiers.
var PurchasingPowers = []PurchasingPower{PowerLow, PowerMedium, PowerHigh, PowerLuxury}

// ParsePurchasingPower maps a string to a PurchasingPower.
func ParsePurchasingPower(s string) (PurchasingPower, error) {
	for _, p := range PurchasingPowers {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purchasing power %q", s)
}

// Mood is an agent's transient emotional state.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodNeutral   Mood = "neutral"
	MoodIrritable Mood = "irritable"
	MoodBored     Mood = "bored"
	MoodExcited   Mood = "excited"
	MoodAnxious   Mood = "anxious"
	MoodCynical   Mood = "cynical"
)

// Moods lists all valid moods.
var Moods = []Mood{
	MoodHappy, MoodNeutral, MoodIrritable, MoodBored,
	MoodExcited, MoodAnxious, MoodCynical,
}

// ParseMood maps a string to a Mood, rejecting anything outside the closed set.
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// AgentProfile is a synthetic social-media user. Psychographic fields are
// fixed for the run; Mood is mutated by the simulator, and the adjacency
// lists are populated once by the graph builder.
type AgentProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Location string `json:"location"`
	Bio      string `json:"bio"`

	MBTI             MBTIType         `json:"mbti"`
	PoliticalLeaning PoliticalLeaning `json:"political_leaning"`
	PurchasingPower  PurchasingPower  `json:"purchasing_power"`
	Interests        []string         `json:"interests"`

	Mood           Mood    `json:"mood"`
	InfluenceScore float64 `json:"influence_score"`

	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// NewAgentID returns a short unique agent id.
func NewAgentID() string {
	return uuid.New().String()[:8]
}

// FollowerCount returns the number of followers.
func (a *AgentProfile) FollowerCount() int {
	return len(a.Followers)
}

// Follows reports whether the agent follows the given agent id.
func (a *AgentProfile) Follows(id string) bool {
	for _, f := range a.Following {
		if f == id {
			return true
		}
	}
	return false
}
