package detect

import (
	"testing"

	"github.com/dagmawibabi/telesight/internal/models"
)

func textMsg(id int, sender, senderID, text string) models.Message {
	return models.Message{
		ID:     id,
		Type:   models.TypeMessage,
		From:   sender,
		FromID: senderID,
		Text:   models.RichText{{Type: models.SpanPlain, Text: text}},
	}
}

func TestFraudMoneyRequestScenario(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(1, "Alice", "user1", "URGENT: please send me $500 immediately, family emergency")

	res := d.Analyze(&m)
	if res == nil {
		t.Fatal("expected a fraud result")
	}
	if res.Category != CategoryMoneyRequest {
		t.Fatalf("expected primary category money_request, got %s", res.Category)
	}
	// Urgency and money keywords co-occur, so the combination bonus applies
	// and severity must be at least medium.
	rank := severityRank(d, res.Severity)
	if rank < severityRank(d, "medium") {
		t.Fatalf("expected severity >= medium, got %s (score %d)", res.Severity, res.Score)
	}
	if len(res.Reasons) == 0 {
		t.Fatal("expected human-readable reasons")
	}
}

func TestFraudNeutralMessage(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(2, "Bob", "user2", "ok see you tomorrow")
	if res := d.Analyze(&m); res != nil {
		t.Fatalf("neutral message should produce no result, got %+v", res)
	}
}

func TestFraudShortTextFloor(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(3, "Bob", "user2", "ok")
	if res := d.Analyze(&m); res != nil {
		t.Fatal("text below the length floor should short-circuit to no result")
	}
	m = textMsg(4, "Bob", "user2", "")
	if res := d.Analyze(&m); res != nil {
		t.Fatal("empty text should short-circuit to no result")
	}
}

func TestFraudMoneyAlwaysPrimary(t *testing.T) {
	d := NewFraudDetector()
	// Both phishing and money rules fire; money_request must win the
	// tie-break regardless of sub-scores.
	m := textMsg(5, "Eve", "user5", "verify your account and click here, then send me the gift card codes")
	res := d.Analyze(&m)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Category != CategoryMoneyRequest {
		t.Fatalf("money_request must be primary, got %s", res.Category)
	}
}

func TestFraudImpersonationBeatsPhishing(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(6, "Eve", "user5", "this is your bank, please verify your account using the link")
	res := d.Analyze(&m)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Category != CategoryImpersonation {
		t.Fatalf("impersonation must beat phishing, got %s", res.Category)
	}
}

func TestFraudMonotonicity(t *testing.T) {
	d := NewFraudDetector()
	base := "urgent matter here"
	m := textMsg(7, "Eve", "user5", base)
	res := d.Analyze(&m)
	if res == nil {
		t.Fatal("expected base result")
	}

	// Adding an independently matched rule must never decrease the score.
	m2 := textMsg(8, "Eve", "user5", base+" act now before it's too late")
	res2 := d.Analyze(&m2)
	if res2 == nil {
		t.Fatal("expected augmented result")
	}
	if res2.Score < res.Score {
		t.Fatalf("score decreased from %d to %d after adding matches", res.Score, res2.Score)
	}
}

func TestFraudNonLatinText(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(9, "Ж", "user9", "договорились, увидимся завтра вечером")
	if res := d.Analyze(&m); res != nil {
		t.Fatal("non-Latin neutral text should produce no result, not a crash")
	}
}

func TestFindAllFiltersAndSorts(t *testing.T) {
	d := NewFraudDetector()
	msgs := []models.Message{
		textMsg(1, "Alice", "user1", "URGENT: please send me $500 immediately, family emergency"),
		textMsg(2, "Bob", "user2", "click here to claim your prize"),
		textMsg(3, "Carol", "user3", "see you at lunch"),
		{ID: 4, Type: models.TypeService, Action: "topic_created"},
	}

	all := FindAll(d, msgs, Options{})
	if len(all) != 2 {
		t.Fatalf("expected 2 results, got %d", len(all))
	}
	if all[0].Score < all[1].Score {
		t.Fatal("results must be sorted by score descending")
	}

	byType := FindAll(d, msgs, Options{Types: []Category{CategoryPhishing}})
	if len(byType) != 1 || byType[0].MessageID != 2 {
		t.Fatalf("category filter failed: %+v", byType)
	}

	limited := FindAll(d, msgs, Options{MaxResults: 1})
	if len(limited) != 1 {
		t.Fatalf("expected truncation to 1, got %d", len(limited))
	}

	severe := FindAll(d, msgs, Options{MinSeverity: "critical"})
	for _, r := range severe {
		if severityRank(d, r.Severity) < severityRank(d, "critical") {
			t.Fatalf("severity filter leaked %s", r.Severity)
		}
	}
}

func TestComputeStatsRanksByScoreSum(t *testing.T) {
	d := NewFraudDetector()
	msgs := []models.Message{
		// Alice: one very high scoring message.
		textMsg(1, "Alice", "user1", "URGENT: please send me $500 immediately, family emergency"),
		// Bob: two low scoring messages.
		textMsg(2, "Bob", "user2", "click here please"),
		textMsg(3, "Bob", "user2", "free gift for you"),
	}

	stats := ComputeStats(d, msgs)
	if stats.Total != 3 {
		t.Fatalf("expected 3 flagged, got %d", stats.Total)
	}
	if len(stats.TopContributors) == 0 {
		t.Fatal("expected contributors")
	}
	if stats.TopContributors[0].SenderKey != "user1" {
		t.Fatalf("leaderboard must rank by score sum; got %s first", stats.TopContributors[0].SenderKey)
	}
	if stats.ByType[CategoryMoneyRequest] != 1 {
		t.Fatalf("expected 1 money_request, got %d", stats.ByType[CategoryMoneyRequest])
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	d := NewFraudDetector()
	m := textMsg(1, "Alice", "user1", "URGENT: please send me $500 immediately")
	a := d.Analyze(&m)
	b := d.Analyze(&m)
	if a.Score != b.Score || a.Category != b.Category || a.Severity != b.Severity {
		t.Fatal("repeated analysis must be bit-identical")
	}
}
