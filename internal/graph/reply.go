// Package graph reconstructs conversation structure from the flat message
// list: reply threads from reply_to_message_id back-references, and
// hub-and-spoke groupings of forwarded messages. Graphs are plain id-keyed
// adjacency maps, never object cycles, so traversal is cycle-safe by
// construction plus a visited set.
package graph

import (
	"math"
	"sort"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Node radius clamps. Radius is a display hint sized by reaction count; it
// carries no semantic weight but must stay reproducible for snapshots.
const (
	minNodeRadius = 4.0
	maxNodeRadius = 30.0
)

// Node is one message (or phantom placeholder) in a reply or forward graph.
type Node struct {
	ID         int     `json:"id"`
	Sender     string  `json:"sender,omitempty"`
	Label      string  `json:"label"`
	Reactions  int     `json:"reactions"`
	Radius     float64 `json:"radius"`
	IsExternal bool    `json:"is_external,omitempty"`
	IsHub      bool    `json:"is_hub,omitempty"`
}

// Edge is a directed parent→child link: Parent is the message replied to
// (or the forward hub), Child the replying (or forwarded) message.
type Edge struct {
	Parent int `json:"parent"`
	Child  int `json:"child"`
}

// Chain is one connected component of the graph, i.e. one conversation
// thread, with its BFS depth from the canonical root.
type Chain struct {
	ID        int   `json:"id"`
	RootID    int   `json:"root_id"`
	NodeIDs   []int `json:"node_ids"`
	NodeCount int   `json:"node_count"`
	Depth     int   `json:"depth"`
}

// ReplyGraph is the full reply-thread reconstruction of an export.
type ReplyGraph struct {
	Nodes              []Node  `json:"nodes"`
	Edges              []Edge  `json:"edges"`
	Chains             []Chain `json:"chains"`
	InternalReplyCount int     `json:"internal_reply_count"`
	ExternalReplyCount int     `json:"external_reply_count"`
}

// nodeRadius maps reaction count onto a clamped square-root scale.
func nodeRadius(reactions int) float64 {
	r := minNodeRadius + 2*math.Sqrt(float64(reactions))
	if r > maxNodeRadius {
		r = maxNodeRadius
	}
	return r
}

const phantomLabel = "(message outside this export)"

// BuildReplyGraph reconstructs reply threads. Replies whose target id is
// absent from the export are counted as external either way; they become
// phantom nodes and edges only when includeCrossChannel is set. A reply
// target outside the loaded set is never an error.
func BuildReplyGraph(msgs []models.Message, includeCrossChannel bool) *ReplyGraph {
	g := &ReplyGraph{Nodes: []Node{}, Edges: []Edge{}, Chains: []Chain{}}

	// All messages are indexed, service events included: a reply to an
	// in-export topic root is internal, and external stays reserved for
	// ids genuinely absent from the export.
	byID := make(map[int]*models.Message, len(msgs))
	for i := range msgs {
		byID[msgs[i].ID] = &msgs[i]
	}

	nodeIndex := make(map[int]int)
	ensureNode := func(id int) {
		if _, ok := nodeIndex[id]; ok {
			return
		}
		var n Node
		if m, ok := byID[id]; ok {
			label := excerptLabel(m.PlainText())
			if label == "" {
				label = m.Title
			}
			n = Node{
				ID:        id,
				Sender:    m.SenderName(),
				Label:     label,
				Reactions: m.ReactionTotal(),
				Radius:    nodeRadius(m.ReactionTotal()),
			}
		} else {
			// Phantom stand-in for a referenced-but-absent message.
			n = Node{
				ID:         id,
				Label:      phantomLabel,
				Radius:     nodeRadius(0),
				IsExternal: true,
			}
		}
		nodeIndex[id] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	// Classify edges. Both counters accumulate independently of the flag.
	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() || !m.IsReply() {
			continue
		}
		parent := *m.ReplyToMessageID
		if _, ok := byID[parent]; ok {
			g.InternalReplyCount++
		} else {
			g.ExternalReplyCount++
			if !includeCrossChannel {
				continue
			}
		}
		ensureNode(m.ID)
		ensureNode(parent)
		g.Edges = append(g.Edges, Edge{Parent: parent, Child: m.ID})
	}

	g.Chains = buildChains(g.Nodes, g.Edges)
	return g
}

// buildChains partitions the node set into connected components via BFS
// over the undirected adjacency, then computes per-chain depth from a
// canonical root.
func buildChains(nodes []Node, edges []Edge) []Chain {
	adjacency := make(map[int][]int, len(nodes))
	children := make(map[int][]int, len(nodes))
	hasParent := make(map[int]bool)
	for _, e := range edges {
		adjacency[e.Parent] = append(adjacency[e.Parent], e.Child)
		adjacency[e.Child] = append(adjacency[e.Child], e.Parent)
		children[e.Parent] = append(children[e.Parent], e.Child)
		hasParent[e.Child] = true
	}

	visited := make(map[int]bool, len(nodes))
	chains := make([]Chain, 0)

	for _, n := range nodes {
		if visited[n.ID] {
			continue
		}
		// BFS over the undirected adjacency collects the component in
		// insertion-order-stable fashion.
		component := []int{}
		queue := []int{n.ID}
		visited[n.ID] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			for _, next := range adjacency[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		// Canonical root: first component node without an in-chain parent;
		// cycles leave no candidate, so fall back to the first discovered.
		root := component[0]
		for _, id := range component {
			if !hasParent[id] {
				root = id
				break
			}
		}

		chains = append(chains, Chain{
			RootID:    root,
			NodeIDs:   component,
			NodeCount: len(component),
			Depth:     chainDepth(root, children),
		})
	}

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].NodeCount > chains[j].NodeCount
	})
	for i := range chains {
		chains[i].ID = i + 1
	}
	return chains
}

// chainDepth is the maximum number of parent→child hops reachable from the
// root. The visited set guards against reply cycles.
func chainDepth(root int, children map[int][]int) int {
	type item struct {
		id    int
		depth int
	}
	visited := map[int]bool{root: true}
	queue := []item{{root, 0}}
	max := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > max {
			max = cur.depth
		}
		for _, child := range children[cur.id] {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, item{child, cur.depth + 1})
			}
		}
	}
	return max
}

// excerptLabel shortens message text for node labels.
func excerptLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= 60 {
		return text
	}
	return string(runes[:60]) + "…"
}
