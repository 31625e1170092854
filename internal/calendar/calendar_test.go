package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/dagmawibabi/telesight/internal/models"
)

func onDay(id int, day time.Time, text string) models.Message {
	return models.Message{
		ID:       id,
		Type:     models.TypeMessage,
		From:     "Sender",
		FromID:   "user1",
		DateUnix: fmt.Sprintf("%d", day.Unix()),
		Text:     models.RichText{{Type: models.SpanPlain, Text: text}},
	}
}

func TestStreakComputation(t *testing.T) {
	var msgs []models.Message
	id := 1
	// Five consecutive days, a gap, then two more.
	for d := 1; d <= 5; d++ {
		msgs = append(msgs, onDay(id, time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC), "daily post"))
		id++
	}
	for d := 10; d <= 11; d++ {
		msgs = append(msgs, onDay(id, time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC), "daily post"))
		id++
	}

	stats := Compute(msgs, Scope{Year: 2024, Month: 1})
	if stats.StreakDays != 5 {
		t.Fatalf("expected streak of 5 days, got %d", stats.StreakDays)
	}
	if stats.ActiveDays != 7 {
		t.Fatalf("expected 7 active days, got %d", stats.ActiveDays)
	}
	if stats.AvgPostsPerActiveDay != 1 {
		t.Fatalf("expected 1 post per active day, got %f", stats.AvgPostsPerActiveDay)
	}
}

func TestScopeFiltering(t *testing.T) {
	msgs := []models.Message{
		onDay(1, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), "in scope"),
		onDay(2, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC), "other month"),
		onDay(3, time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC), "other year"),
	}

	if got := Compute(msgs, Scope{Year: 2024, Month: 1}).TotalPosts; got != 1 {
		t.Fatalf("month scope: expected 1 post, got %d", got)
	}
	if got := Compute(msgs, Scope{Year: 2024}).TotalPosts; got != 2 {
		t.Fatalf("year scope: expected 2 posts, got %d", got)
	}
	if got := Compute(msgs, Scope{Year: 2024, Month: 1, Day: 15}).TotalPosts; got != 1 {
		t.Fatalf("day scope: expected 1 post, got %d", got)
	}
	if got := Compute(msgs, Scope{Year: 2024, Month: 1, Day: 16}).TotalPosts; got != 0 {
		t.Fatalf("day scope: expected 0 posts, got %d", got)
	}
}

func TestBusiestHourAndWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	msgs := []models.Message{
		onDay(1, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "morning"),
		onDay(2, time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC), "evening"),
		onDay(3, time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC), "evening again"),
		onDay(4, time.Date(2024, 1, 8, 21, 30, 0, 0, time.UTC), "next monday"),
	}

	stats := Compute(msgs, Scope{Year: 2024})
	if stats.BusiestHour != 21 {
		t.Fatalf("expected hour 21, got %d", stats.BusiestHour)
	}
	if stats.BusiestWeekday != "Monday" {
		t.Fatalf("expected Monday, got %s", stats.BusiestWeekday)
	}
}

func TestTotalsAndLeaderboards(t *testing.T) {
	withMedia := onDay(1, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), "photo dump #vacation")
	withMedia.Photo = "photos/p.jpg"
	withMedia.Reactions = []models.Reaction{{Emoji: "❤️", Count: 4}, {Emoji: "👍", Count: 2}}

	withLink := onDay(2, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), "read https://example.com #vacation #travel")
	forwarded := onDay(3, time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC), "from elsewhere")
	forwarded.ForwardedFrom = "Some Channel"
	forwarded.Reactions = []models.Reaction{{Emoji: "👍", Count: 5}}

	stats := Compute([]models.Message{withMedia, withLink, forwarded}, Scope{Year: 2024, Month: 5})
	if stats.TotalPosts != 3 || stats.TotalMedia != 1 || stats.TotalLinks != 1 || stats.TotalForwards != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.TotalReactions != 11 {
		t.Fatalf("expected 11 reactions, got %d", stats.TotalReactions)
	}

	if len(stats.TopEmoji) != 2 || stats.TopEmoji[0].Emoji != "👍" || stats.TopEmoji[0].Count != 7 {
		t.Fatalf("unexpected emoji leaderboard: %+v", stats.TopEmoji)
	}
	if len(stats.TopHashtags) != 2 || stats.TopHashtags[0].Tag != "vacation" {
		t.Fatalf("unexpected hashtag leaderboard: %+v", stats.TopHashtags)
	}

	if stats.MostReacted == nil || stats.MostReacted.MessageID != 1 {
		t.Fatalf("expected message 1 as most reacted, got %+v", stats.MostReacted)
	}
	if stats.LongestPost == nil {
		t.Fatal("expected a longest-post highlight")
	}
}

func TestEmptyScope(t *testing.T) {
	stats := Compute(nil, Scope{Year: 2024})
	if stats.TotalPosts != 0 || stats.StreakDays != 0 {
		t.Fatalf("empty corpus must yield zeroed stats: %+v", stats)
	}
	if stats.MostReacted != nil || stats.LongestPost != nil {
		t.Fatal("no highlights for an empty scope")
	}
}
