// Package graph owns the directed follows-relation over the agent set.
// Agents carry only id lists; the graph is the authoritative adjacency.
package graph

import (
	"math/rand"
	"sort"

	"github.com/mimetic-labs/resonance/core"
)

// Edge is a directed follow: From follows To.
type Edge struct {
	From string `json:"source"`
	To   string `json:"target"`
}

// Config tunes probabilistic edge attachment.
type Config struct {
	// BaseEdgeProbability is the floor probability for any ordered pair.
	BaseEdgeProbability float64
	// InterestBonus is added per shared interest between the pair.
	InterestBonus float64
	// MaxEdgeProbability caps the attachment probability.
	MaxEdgeProbability float64
}

// DefaultConfig returns the standard attachment tuning.
func DefaultConfig() Config {
	return Config{
		BaseEdgeProbability: 0.05,
		InterestBonus:       0.15,
		MaxEdgeProbability:  0.7,
	}
}

// Graph is a directed social graph over a fixed agent set.
type Graph struct {
	agents []*core.AgentProfile
	index  map[string]*core.AgentProfile
	edges  []Edge
	cfg    Config
}

// New creates a graph over the given agents with no edges yet.
func New(agents []*core.AgentProfile, cfg Config) *Graph {
	index := make(map[string]*core.AgentProfile, len(agents))
	for _, a := range agents {
		index[a.ID] = a
	}
	return &Graph{agents: agents, index: index, cfg: cfg}
}

// Build wires follow edges. For every ordered pair (a, b), a != b, the edge
// a→b materializes with probability
//
//	p = BaseEdgeProbability*influence(b) + InterestBonus*|shared interests|
//
// clamped to MaxEdgeProbability, one independent draw per pair. Building is
// idempotent: prior adjacency and edges are cleared first, so the same rand
// seed reproduces the same edge set.
func (g *Graph) Build(rng *rand.Rand) {
	for _, a := range g.agents {
		a.Followers = nil
		a.Following = nil
	}
	g.edges = nil

	for _, a := range g.agents {
		for _, b := range g.agents {
			if a.ID == b.ID {
				continue
			}
			p := g.cfg.BaseEdgeProbability*b.InfluenceScore +
				g.cfg.InterestBonus*float64(sharedInterests(a, b))
			if p > g.cfg.MaxEdgeProbability {
				p = g.cfg.MaxEdgeProbability
			}
			if rng.Float64() < p {
				a.Following = append(a.Following, b.ID)
				b.Followers = append(b.Followers, a.ID)
				g.edges = append(g.edges, Edge{From: a.ID, To: b.ID})
			}
		}
	}
}

// EdgeCount returns the number of materialized edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Agents returns the agent set in input order.
func (g *Graph) Agents() []*core.AgentProfile {
	return g.agents
}

// Agent returns the agent with the given id, or nil.
func (g *Graph) Agent(id string) *core.AgentProfile {
	return g.index[id]
}

// Influencers returns the n agents with the most followers, ties broken by
// stable input order.
func (g *Graph) Influencers(n int) []*core.AgentProfile {
	sorted := make([]*core.AgentProfile, len(g.agents))
	copy(sorted, g.agents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FollowerCount() > sorted[j].FollowerCount()
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// FollowersOf returns follower ids for an agent. Unknown or isolated ids
// yield an empty list, not an error.
func (g *Graph) FollowersOf(id string) []string {
	a := g.index[id]
	if a == nil {
		return []string{}
	}
	out := make([]string, len(a.Followers))
	copy(out, a.Followers)
	return out
}

// FollowingOf returns the ids an agent follows, empty for unknown ids.
func (g *Graph) FollowingOf(id string) []string {
	a := g.index[id]
	if a == nil {
		return []string{}
	}
	out := make([]string, len(a.Following))
	copy(out, a.Following)
	return out
}

func sharedInterests(a, b *core.AgentProfile) int {
	set := make(map[string]bool, len(a.Interests))
	for _, i := range a.Interests {
		set[i] = true
	}
	n := 0
	for _, i := range b.Interests {
		if set[i] {
			n++
		}
	}
	return n
}
