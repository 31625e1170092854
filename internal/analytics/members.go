// Package analytics derives per-member aggregate statistics and the
// pairwise interaction graph from the flat message list. All functions are
// single-pass, read-only transforms.
package analytics

import (
	"sort"
	"time"

	"github.com/dagmawibabi/telesight/internal/models"
)

// MemberStat is the per-sender rollup. Members keyed by display name only
// (no stable identifier in the export) merge on exact name match.
type MemberStat struct {
	Key               string    `json:"key"`
	Name              string    `json:"name"`
	MessageCount      int       `json:"message_count"`
	TotalTextLength   int       `json:"total_text_length"`
	AvgTextLength     float64   `json:"avg_text_length"`
	MediaCount        int       `json:"media_count"`
	ReplyCount        int       `json:"reply_count"`
	ReactionsReceived int       `json:"reactions_received"`
	ReactionsSent     int       `json:"reactions_sent"`
	FavoriteEmoji     string    `json:"favorite_emoji,omitempty"`
	HourHistogram     [24]int   `json:"hour_histogram"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
}

type memberAccum struct {
	stat       MemberStat
	emojiCount map[string]int
	emojiOrder []string
}

// MemberStats computes per-member aggregates in a single pass over content
// messages. Reaction counts are credited to the reacted-to author as
// reactions received; the sparse "recent" reactor sample is credited to
// the sampled reactors as reactions sent, because reacting is an action of
// the reactor, not the author. The sample undercounts true reactors and is
// passed through as-is. Output is sorted by descending message count.
func MemberStats(msgs []models.Message) []MemberStat {
	accums := make(map[string]*memberAccum)
	order := make([]string, 0)

	get := func(key, name string) *memberAccum {
		a, ok := accums[key]
		if !ok {
			a = &memberAccum{
				stat:       MemberStat{Key: key, Name: name},
				emojiCount: make(map[string]int),
			}
			accums[key] = a
			order = append(order, key)
		}
		if a.stat.Name == "" {
			a.stat.Name = name
		}
		return a
	}

	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		key := m.SenderKey()
		if key == "" {
			continue
		}
		a := get(key, m.SenderName())
		a.stat.MessageCount++
		a.stat.TotalTextLength += m.TextLength()
		if m.HasMedia() {
			a.stat.MediaCount++
		}
		if m.IsReply() {
			a.stat.ReplyCount++
		}
		a.stat.ReactionsReceived += m.ReactionTotal()

		if t := m.Time(); !t.IsZero() {
			if a.stat.FirstSeen.IsZero() || t.Before(a.stat.FirstSeen) {
				a.stat.FirstSeen = t
			}
			if t.After(a.stat.LastSeen) {
				a.stat.LastSeen = t
			}
			a.stat.HourHistogram[t.Hour()]++
		}

		// Cross-attribute the sampled reactors.
		for _, reaction := range m.Reactions {
			for _, reactor := range reaction.Recent {
				rkey := reactor.FromID
				if rkey == "" {
					rkey = reactor.From
				}
				if rkey == "" {
					continue
				}
				ra := get(rkey, reactor.From)
				ra.stat.ReactionsSent++
				if _, ok := ra.emojiCount[reaction.Emoji]; !ok {
					ra.emojiOrder = append(ra.emojiOrder, reaction.Emoji)
				}
				ra.emojiCount[reaction.Emoji]++
			}
		}
	}

	stats := make([]MemberStat, 0, len(order))
	for _, key := range order {
		a := accums[key]
		if a.stat.MessageCount > 0 {
			a.stat.AvgTextLength = float64(a.stat.TotalTextLength) / float64(a.stat.MessageCount)
		}
		// Favorite emoji: highest count, first-seen wins ties.
		best := 0
		for _, emoji := range a.emojiOrder {
			if a.emojiCount[emoji] > best {
				best = a.emojiCount[emoji]
				a.stat.FavoriteEmoji = emoji
			}
		}
		stats = append(stats, a.stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MessageCount > stats[j].MessageCount
	})
	return stats
}

// Topic is a "topic created" service event promoted to a named thread root
// with its direct reply count.
type Topic struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	MessageCount int    `json:"message_count"`
}

// Topics extracts created topics and counts the messages directly replying
// to each topic root.
func Topics(msgs []models.Message) []Topic {
	replyCount := make(map[int]int)
	for i := range msgs {
		m := &msgs[i]
		if m.IsContent() && m.IsReply() {
			replyCount[*m.ReplyToMessageID]++
		}
	}

	topics := make([]Topic, 0)
	for i := range msgs {
		m := &msgs[i]
		if m.Type != models.TypeService || m.Action != "topic_created" {
			continue
		}
		name := m.Title
		if name == "" {
			name = m.PlainText()
		}
		topics = append(topics, Topic{
			ID:           m.ID,
			Name:         name,
			MessageCount: replyCount[m.ID],
		})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].MessageCount > topics[j].MessageCount
	})
	return topics
}
