package analytics

import (
	"sort"

	"github.com/dagmawibabi/telesight/internal/models"
)

// InteractionEdge is one undirected, deduplicated edge between two sender
// keys. A→B and B→A accumulate onto the same edge; reply and reaction
// signals keep independent tallies.
type InteractionEdge struct {
	A             string `json:"a"`
	B             string `json:"b"`
	AName         string `json:"a_name,omitempty"`
	BName         string `json:"b_name,omitempty"`
	ReplyCount    int    `json:"reply_count"`
	ReactionCount int    `json:"reaction_count"`
	Strength      int    `json:"strength"`
}

type pairKey struct {
	a, b string
}

// orderedPair normalizes an unordered sender pair so edge lookup is
// order-independent.
func orderedPair(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// InteractionMap builds the pairwise interaction graph from two signal
// types: replies to another member's message, and sampled reactions to
// another member's message. Self-interactions are ignored. Output is
// sorted by descending combined strength.
func InteractionMap(msgs []models.Message) []InteractionEdge {
	byID := make(map[int]*models.Message, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		if m.IsContent() {
			byID[m.ID] = m
		}
	}

	edges := make(map[pairKey]*InteractionEdge)
	order := make([]pairKey, 0)

	get := func(xKey, xName, yKey, yName string) *InteractionEdge {
		k := orderedPair(xKey, yKey)
		e, ok := edges[k]
		if !ok {
			e = &InteractionEdge{A: k.a, B: k.b}
			edges[k] = e
			order = append(order, k)
		}
		// Names follow the normalized key order.
		if e.AName == "" {
			if k.a == xKey {
				e.AName = xName
			} else {
				e.AName = yName
			}
		}
		if e.BName == "" {
			if k.b == yKey {
				e.BName = yName
			} else {
				e.BName = xName
			}
		}
		return e
	}

	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		authorKey := m.SenderKey()
		if authorKey == "" {
			continue
		}

		// Reply signal: replier to original author.
		if m.IsReply() {
			if parent, ok := byID[*m.ReplyToMessageID]; ok {
				parentKey := parent.SenderKey()
				if parentKey != "" && parentKey != authorKey {
					get(authorKey, m.SenderName(), parentKey, parent.SenderName()).ReplyCount++
				}
			}
		}

		// Reaction signal: sampled reactor to original author.
		for _, reaction := range m.Reactions {
			for _, reactor := range reaction.Recent {
				rkey := reactor.FromID
				if rkey == "" {
					rkey = reactor.From
				}
				if rkey == "" || rkey == authorKey {
					continue
				}
				get(rkey, reactor.From, authorKey, m.SenderName()).ReactionCount++
			}
		}
	}

	out := make([]InteractionEdge, 0, len(order))
	for _, k := range order {
		e := edges[k]
		e.Strength = e.ReplyCount + e.ReactionCount
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strength > out[j].Strength
	})
	return out
}
