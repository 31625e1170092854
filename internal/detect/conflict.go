package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Conflict categories.
const (
	CategoryHostile   Category = "hostile"
	CategoryProfanity Category = "profanity"
	CategoryBlaming   Category = "blaming"
	CategoryThreat    Category = "threat"
)

// Conflict severity labels, ascending.
var conflictSeverities = []string{"mild", "moderate", "severe"}

var conflictThresholds = []int{minScore, 7, 12}

// Bonus when threat language co-occurs with hostile language.
const threatHostileBonus = 3

// Consecutive flagged messages closer together than this belong to the
// same heated exchange.
const exchangeGap = 10 * time.Minute

var hostileRules = []Rule{
	{Pattern: "shut up", Category: CategoryHostile, Weight: 4},
	{Pattern: "i hate you", Category: CategoryHostile, Weight: 5},
	{Pattern: "idiot", Category: CategoryHostile, Weight: 3},
	{Pattern: "stupid", Category: CategoryHostile, Weight: 3},
	{Pattern: "moron", Category: CategoryHostile, Weight: 3},
	{Pattern: "pathetic", Category: CategoryHostile, Weight: 3},
	{Pattern: "disgusting", Category: CategoryHostile, Weight: 3},
	{Pattern: "nobody likes you", Category: CategoryHostile, Weight: 4},
	{Pattern: "leave me alone", Category: CategoryHostile, Weight: 2},
}

var profanityRules = []Rule{
	{Regex: regexp.MustCompile(`\b(?:damn|dammit|wtf|bullshit|crap|screw you|piss off)\b`), Category: CategoryProfanity, Weight: 2},
	{Regex: regexp.MustCompile(`\bf+u+c*k+`), Category: CategoryProfanity, Weight: 3},
}

var blamingRules = []Rule{
	{Pattern: "your fault", Category: CategoryBlaming, Weight: 4},
	{Pattern: "because of you", Category: CategoryBlaming, Weight: 4},
	{Pattern: "you always", Category: CategoryBlaming, Weight: 3},
	{Pattern: "you never", Category: CategoryBlaming, Weight: 3},
	{Pattern: "you ruined", Category: CategoryBlaming, Weight: 4},
	{Pattern: "you made me", Category: CategoryBlaming, Weight: 3},
}

var threatRules = []Rule{
	{Pattern: "or else", Category: CategoryThreat, Weight: 4},
	{Pattern: "you'll regret", Category: CategoryThreat, Weight: 5},
	{Pattern: "you will regret", Category: CategoryThreat, Weight: 5},
	{Pattern: "watch your back", Category: CategoryThreat, Weight: 5},
	{Pattern: "i'll make you", Category: CategoryThreat, Weight: 4},
	{Pattern: "don't test me", Category: CategoryThreat, Weight: 4},
	{Pattern: "you've been warned", Category: CategoryThreat, Weight: 4},
}

// ConflictDetector scores messages for hostility intensity and groups
// consecutive flagged messages into heated exchanges.
type ConflictDetector struct{}

// NewConflictDetector returns a detector with the built-in rule tables.
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// Severities returns the conflict severity labels in ascending order.
func (d *ConflictDetector) Severities() []string {
	return conflictSeverities
}

// Analyze scores a single message for conflict intensity. Primary category:
// threat whenever it fires, else hostile, else the first positive check in
// fixed order (blaming, profanity).
func (d *ConflictDetector) Analyze(m *models.Message) *Result {
	text := m.PlainText()
	if utf8.RuneCountInString(text) < minTextRunes {
		return nil
	}
	lower := strings.ToLower(text)

	threatScore, threatReasons := matchRules(lower, threatRules)
	hostileScore, hostileReasons := matchRules(lower, hostileRules)
	blamingScore, blamingReasons := matchRules(lower, blamingRules)
	profanityScore, profanityReasons := matchRules(lower, profanityRules)

	total := threatScore + hostileScore + blamingScore + profanityScore
	reasons := append(append(append(threatReasons, hostileReasons...), blamingReasons...), profanityReasons...)

	if threatScore > 0 && hostileScore > 0 {
		total += threatHostileBonus
		reasons = append(reasons, fmt.Sprintf("threat combined with hostility (+%d)", threatHostileBonus))
	}

	if total < minScore {
		return nil
	}

	var category Category
	switch {
	case threatScore > 0:
		category = CategoryThreat
	case hostileScore > 0:
		category = CategoryHostile
	case blamingScore > 0:
		category = CategoryBlaming
	default:
		category = CategoryProfanity
	}

	return &Result{
		MessageID: m.ID,
		Sender:    m.SenderName(),
		SenderKey: m.SenderKey(),
		Excerpt:   excerpt(text),
		Category:  category,
		Score:     total,
		Severity:  bucket(total, conflictThresholds, conflictSeverities),
		Reasons:   reasons,
		Language:  detectLanguage(text),
		Time:      m.Time(),
	}
}

// Exchange is a time-windowed cluster of consecutive conflict-flagged
// messages. Single flagged messages are not exchanges: a real exchange
// needs at least two back-and-forth flagged messages.
type Exchange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	MessageIDs    []int     `json:"message_ids"`
	Participants  []string  `json:"participants"`
	MessageCount  int       `json:"message_count"`
	PeakIntensity int       `json:"peak_intensity"`
}

// FindHeatedExchanges walks flagged messages in chronological order and
// groups successive ones whenever the gap stays within ten minutes.
func (d *ConflictDetector) FindHeatedExchanges(msgs []models.Message) []Exchange {
	type flagged struct {
		res *Result
	}

	var hits []flagged
	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		if res := d.Analyze(m); res != nil {
			hits = append(hits, flagged{res: res})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].res.Time.Before(hits[j].res.Time)
	})

	var exchanges []Exchange
	var current []*Result
	flush := func() {
		if len(current) < 2 {
			current = nil
			return
		}
		ex := Exchange{
			Start:        current[0].Time,
			End:          current[len(current)-1].Time,
			MessageCount: len(current),
		}
		seen := make(map[string]bool)
		for _, r := range current {
			ex.MessageIDs = append(ex.MessageIDs, r.MessageID)
			if !seen[r.SenderKey] {
				seen[r.SenderKey] = true
				ex.Participants = append(ex.Participants, r.Sender)
			}
			if r.Score > ex.PeakIntensity {
				ex.PeakIntensity = r.Score
			}
		}
		exchanges = append(exchanges, ex)
		current = nil
	}

	for _, h := range hits {
		if len(current) > 0 && h.res.Time.Sub(current[len(current)-1].Time) > exchangeGap {
			flush()
		}
		current = append(current, h.res)
	}
	flush()

	return exchanges
}
