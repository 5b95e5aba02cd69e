package core

import "fmt"

// Goal is the stated objective a campaign is scored against.
type Goal string

const (
	GoalEngagement     Goal = "engagement"
	GoalBrandAwareness Goal = "brand_awareness"
	GoalClicks         Goal = "clicks"
	GoalControversy    Goal = "controversy"
)

// Goals lists all valid campaign goals.
var Goals = []Goal{GoalEngagement, GoalBrandAwareness, GoalClicks, GoalControversy}

// ParseGoal maps a string to a Goal.
func ParseGoal(s string) (Goal, error) {
	for _, g := range Goals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown campaign goal %q", s)
}

// CampaignSeed is the content under test. Immutable once constructed; the
// evolution loop produces a fresh seed for each new generation.
type CampaignSeed struct {
	Content          string `json:"content"`
	ImageDescription string `json:"image_description"`
	Goal             Goal   `json:"goal"`
	TargetAudience   string `json:"target_audience"`
}
