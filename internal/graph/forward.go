package graph

import (
	"math"
	"sort"

	"github.com/dagmawibabi/telesight/internal/models"
)

const (
	minHubRadius = 6.0
	maxHubRadius = 40.0
)

// ForwardGraph groups forwarded messages by their origin label into
// hub-and-spoke subgraphs. Hubs carry synthetic negative ids that can
// never collide with real message ids.
type ForwardGraph struct {
	Nodes       []Node  `json:"nodes"`
	Edges       []Edge  `json:"edges"`
	Chains      []Chain `json:"chains"`
	SourceCount int     `json:"source_count"`
}

func hubRadius(count int) float64 {
	r := minHubRadius + 3*math.Sqrt(float64(count))
	if r > maxHubRadius {
		r = maxHubRadius
	}
	return r
}

// BuildForwardGraph groups forwarded content messages by forward source.
// Sources are matched by exact string equality of the origin label. Each
// hub plus its spokes forms exactly one chain of depth 1, since spokes
// never reply to each other.
func BuildForwardGraph(msgs []models.Message) *ForwardGraph {
	g := &ForwardGraph{Nodes: []Node{}, Edges: []Edge{}, Chains: []Chain{}}

	bySource := make(map[string][]*models.Message)
	order := make([]string, 0)
	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() || !m.IsForwarded() {
			continue
		}
		if _, ok := bySource[m.ForwardedFrom]; !ok {
			order = append(order, m.ForwardedFrom)
		}
		bySource[m.ForwardedFrom] = append(bySource[m.ForwardedFrom], m)
	}

	// Hubs ordered by descending message count; ties keep first-seen order.
	sort.SliceStable(order, func(i, j int) bool {
		return len(bySource[order[i]]) > len(bySource[order[j]])
	})
	g.SourceCount = len(order)

	for i, source := range order {
		spokes := bySource[source]
		hubID := -(i + 1)

		g.Nodes = append(g.Nodes, Node{
			ID:        hubID,
			Label:     source,
			Radius:    hubRadius(len(spokes)),
			IsHub:     true,
			Reactions: 0,
		})

		chain := Chain{
			ID:        i + 1,
			RootID:    hubID,
			NodeIDs:   []int{hubID},
			NodeCount: 1 + len(spokes),
			Depth:     1,
		}
		for _, m := range spokes {
			g.Nodes = append(g.Nodes, Node{
				ID:        m.ID,
				Sender:    m.SenderName(),
				Label:     excerptLabel(m.PlainText()),
				Reactions: m.ReactionTotal(),
				Radius:    nodeRadius(m.ReactionTotal()),
			})
			g.Edges = append(g.Edges, Edge{Parent: hubID, Child: m.ID})
			chain.NodeIDs = append(chain.NodeIDs, m.ID)
		}
		g.Chains = append(g.Chains, chain)
	}

	return g
}
