package graph

import "github.com/mimetic-labs/resonance/core"

// Node is a visualization-friendly agent snapshot.
type Node struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Influence float64       `json:"influence"`
	MBTI      core.MBTIType `json:"mbti"`
	Mood      core.Mood     `json:"mood"`
	Followers int           `json:"followers"`
}

// Data holds nodes and edges for frontend rendering.
type Data struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot returns the current graph as a renderable payload.
func (g *Graph) Snapshot() Data {
	nodes := make([]Node, 0, len(g.agents))
	for _, a := range g.agents {
		nodes = append(nodes, Node{
			ID:        a.ID,
			Name:      a.Name,
			Influence: a.InfluenceScore,
			MBTI:      a.MBTI,
			Mood:      a.Mood,
			Followers: a.FollowerCount(),
		})
	}
	return Data{Nodes: nodes, Edges: g.Edges()}
}
