package simulation

import "github.com/mimetic-labs/resonance/core"

// seedExposure picks the tick-0 audience: the top influencers plus a random
// sample of roughly a third of the population. Agents are exposed at most
// once per generation, so the returned set is deduplicated against the
// exposed map.
func (s *Simulator) seedExposure(exposed, influencers map[string]bool) []string {
	agents := s.graph.Agents()

	picked := make(map[string]bool, len(influencers))
	var viewers []string
	for id := range influencers {
		if !exposed[id] && !picked[id] {
			picked[id] = true
			viewers = append(viewers, id)
		}
	}

	sample := (len(agents) + 2) / 3
	for _, i := range s.rng.Perm(len(agents))[:sample] {
		id := agents[i].ID
		if exposed[id] || picked[id] {
			continue
		}
		picked[id] = true
		viewers = append(viewers, id)
	}
	return viewers
}

// relayExposure computes tick t>0 viewers from the ledger so far. Followers
// of anyone who shared or quote-shared always see the post; followers of
// commenters and mockers see it only if feed ranking surfaces it, one coin
// flip per follower. Already exposed agents are skipped.
func (s *Simulator) relayExposure(ledger []core.Interaction, exposed map[string]bool) []string {
	picked := make(map[string]bool)
	var viewers []string

	for _, ix := range ledger {
		if !ix.Action.Relays() {
			continue
		}
		guaranteed := ix.Action.GuaranteedSurfacing()
		for _, fid := range s.graph.FollowersOf(ix.AgentID) {
			if exposed[fid] || picked[fid] {
				continue
			}
			if !guaranteed && s.rng.Float64() >= s.opts.SurfacingProbability {
				continue
			}
			picked[fid] = true
			viewers = append(viewers, fid)
		}
	}
	return viewers
}
