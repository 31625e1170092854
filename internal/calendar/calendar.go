// Package calendar computes time-window statistics for a day, month, or
// year scope: activity totals, busiest hour and weekday, posting streaks,
// and highlight posts.
package calendar

import (
	"sort"
	"time"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Scope selects a calendar window. A zero field is a wildcard: zero Year
// spans the whole export, zero Month the whole year, zero Day the whole
// month.
type Scope struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// Contains reports whether a timestamp falls inside the scope.
func (s Scope) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if s.Year != 0 && t.Year() != s.Year {
		return false
	}
	if s.Month != 0 && int(t.Month()) != s.Month {
		return false
	}
	if s.Day != 0 && t.Day() != s.Day {
		return false
	}
	return true
}

// EmojiCount is one entry of the reaction-emoji leaderboard.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// TagCount is one entry of the hashtag leaderboard.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Highlight points at a notable post within the scope.
type Highlight struct {
	MessageID int    `json:"message_id"`
	Sender    string `json:"sender"`
	Excerpt   string `json:"excerpt"`
	Value     int    `json:"value"`
}

// Stats is the aggregate rollup for one calendar scope.
type Stats struct {
	Scope                Scope        `json:"scope"`
	TotalPosts           int          `json:"total_posts"`
	TotalReactions       int          `json:"total_reactions"`
	TotalMedia           int          `json:"total_media"`
	TotalLinks           int          `json:"total_links"`
	TotalForwards        int          `json:"total_forwards"`
	BusiestHour          int          `json:"busiest_hour"`
	BusiestWeekday       string       `json:"busiest_weekday"`
	StreakDays           int          `json:"streak_days"`
	ActiveDays           int          `json:"active_days"`
	AvgPostsPerActiveDay float64      `json:"avg_posts_per_active_day"`
	TopEmoji             []EmojiCount `json:"top_emoji"`
	TopHashtags          []TagCount   `json:"top_hashtags"`
	MostReacted          *Highlight   `json:"most_reacted,omitempty"`
	LongestPost          *Highlight   `json:"longest_post,omitempty"`
}

const (
	topEmojiCount   = 5
	topHashtagCount = 10
)

// Compute filters content messages to the scope and derives the rollup.
// An empty scope yields zeroed stats, never an error.
func Compute(msgs []models.Message, scope Scope) Stats {
	stats := Stats{Scope: scope, TopEmoji: []EmojiCount{}, TopHashtags: []TagCount{}}

	var hourHist [24]int
	var weekdayHist [7]int
	postsPerDay := make(map[string]int)
	emojiCount := make(map[string]int)
	emojiOrder := make([]string, 0)
	tagCount := make(map[string]int)
	tagOrder := make([]string, 0)

	var mostReacted, longest *models.Message
	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		t := m.Time()
		if !scope.Contains(t) {
			continue
		}

		stats.TotalPosts++
		stats.TotalReactions += m.ReactionTotal()
		if m.HasMedia() {
			stats.TotalMedia++
		}
		if m.HasLink() {
			stats.TotalLinks++
		}
		if m.IsForwarded() {
			stats.TotalForwards++
		}

		hourHist[t.Hour()]++
		weekdayHist[int(t.Weekday())]++
		postsPerDay[t.Format("2006-01-02")]++

		for _, r := range m.Reactions {
			if _, ok := emojiCount[r.Emoji]; !ok {
				emojiOrder = append(emojiOrder, r.Emoji)
			}
			emojiCount[r.Emoji] += r.Count
		}
		for _, tag := range m.Hashtags() {
			if _, ok := tagCount[tag]; !ok {
				tagOrder = append(tagOrder, tag)
			}
			tagCount[tag]++
		}

		if mostReacted == nil || m.ReactionTotal() > mostReacted.ReactionTotal() {
			mostReacted = m
		}
		if longest == nil || m.TextLength() > longest.TextLength() {
			longest = m
		}
	}

	if stats.TotalPosts == 0 {
		return stats
	}

	stats.BusiestHour = argmax(hourHist[:])
	stats.BusiestWeekday = time.Weekday(argmax(weekdayHist[:])).String()
	stats.ActiveDays = len(postsPerDay)
	stats.AvgPostsPerActiveDay = float64(stats.TotalPosts) / float64(stats.ActiveDays)
	stats.StreakDays = longestStreak(postsPerDay)
	stats.TopEmoji = topEmoji(emojiCount, emojiOrder)
	stats.TopHashtags = topHashtags(tagCount, tagOrder)

	if mostReacted != nil && mostReacted.ReactionTotal() > 0 {
		stats.MostReacted = &Highlight{
			MessageID: mostReacted.ID,
			Sender:    mostReacted.SenderName(),
			Excerpt:   clip(mostReacted.PlainText()),
			Value:     mostReacted.ReactionTotal(),
		}
	}
	if longest != nil && longest.TextLength() > 0 {
		stats.LongestPost = &Highlight{
			MessageID: longest.ID,
			Sender:    longest.SenderName(),
			Excerpt:   clip(longest.PlainText()),
			Value:     longest.TextLength(),
		}
	}
	return stats
}

// argmax returns the lowest index holding the maximum value.
func argmax(hist []int) int {
	best := 0
	for i, v := range hist {
		if v > hist[best] {
			best = i
		}
	}
	return best
}

// longestStreak finds the longest run of consecutive calendar days with at
// least one post. A gap of more than one day resets the run.
func longestStreak(postsPerDay map[string]int) int {
	if len(postsPerDay) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(postsPerDay))
	for day := range postsPerDay {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func topEmoji(counts map[string]int, order []string) []EmojiCount {
	out := make([]EmojiCount, 0, len(order))
	for _, e := range order {
		out = append(out, EmojiCount{Emoji: e, Count: counts[e]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topEmojiCount {
		out = out[:topEmojiCount]
	}
	return out
}

func topHashtags(counts map[string]int, order []string) []TagCount {
	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topHashtagCount {
		out = out[:topHashtagCount]
	}
	return out
}

func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= 120 {
		return text
	}
	return string(runes[:120]) + "…"
}
