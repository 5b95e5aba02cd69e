package simulation

import "github.com/mimetic-labs/resonance/core"

// contagionEligible reports whether an interaction is emotionally loud
// enough to push its mood onto followers under the active mode.
func (s *Simulator) contagionEligible(action core.ActionType) bool {
	switch s.opts.Contagion {
	case ContagionOff:
		return false
	case ContagionAllActions:
		return action != core.ActionIgnore
	default:
		// Strong actions only: shares and mockery travel, likes and
		// comments do not.
		switch action {
		case core.ActionShare, core.ActionQuoteShare, core.ActionMock:
			return true
		}
		return false
	}
}

// applyContagion lets a recorded interaction infect the actor's followers
// with the actor's resulting mood. Each follower catches it independently
// with probability proportional to the actor's influence, so hub accounts
// set the emotional weather and fringe accounts barely register.
func (s *Simulator) applyContagion(ix core.Interaction) {
	if !s.contagionEligible(ix.Action) {
		return
	}
	actor := s.graph.Agent(ix.AgentID)
	if actor == nil {
		return
	}
	p := actor.InfluenceScore * 0.3
	for _, fid := range s.graph.FollowersOf(actor.ID) {
		if s.rng.Float64() >= p {
			continue
		}
		if follower := s.graph.Agent(fid); follower != nil {
			follower.Mood = ix.NewMood
		}
	}
}
