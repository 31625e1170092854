// Package detect implements the heuristic content-safety detectors: fraud,
// manipulation, and conflict. Each detector scores individual messages
// against weighted keyword and regex rule tables, buckets the cumulative
// score into an ordered severity, and aggregates channel-wide statistics.
// All functions are pure: no I/O, no shared state, inputs never mutated.
package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"github.com/dagmawibabi/telesight/internal/models"
)

const (
	// Messages shorter than this many runes are never classified.
	minTextRunes = 5

	// Cumulative scores below this floor are discarded entirely.
	minScore = 3

	// Truncation for excerpts carried in results.
	excerptRunes = 120

	topContributorCount = 5
)

// Category names one detector classification (e.g. money_request).
type Category string

// Rule is one weighted pattern. When Regex is nil, Pattern is tested as a
// case-insensitive substring; otherwise Regex is tested against the
// lowercased text.
type Rule struct {
	Pattern  string
	Regex    *regexp.Regexp
	Category Category
	Weight   int
}

// Match tests the rule against already-lowercased text.
func (r Rule) Match(lower string) bool {
	if r.Regex != nil {
		return r.Regex.MatchString(lower)
	}
	return strings.Contains(lower, r.Pattern)
}

// Result is one flagged message. Messages below the score gate produce no
// result at all rather than a zero-score entry.
type Result struct {
	MessageID int       `json:"message_id"`
	Sender    string    `json:"sender"`
	SenderKey string    `json:"sender_key"`
	Excerpt   string    `json:"excerpt"`
	Category  Category  `json:"category"`
	Score     int       `json:"score"`
	Severity  string    `json:"severity"`
	Reasons   []string  `json:"reasons"`
	Language  string    `json:"language,omitempty"`
	Time      time.Time `json:"time"`
}

// Analyzer is the common contract of the detector family.
type Analyzer interface {
	// Analyze classifies a single message, returning nil when the message
	// falls below the length floor or the score gate.
	Analyze(m *models.Message) *Result

	// Severities returns the detector's severity labels in ascending order.
	Severities() []string
}

// Options filters and truncates FindAll output.
type Options struct {
	MinSeverity string
	Types       []Category
	MaxResults  int
}

// Contributor is one sender in a detector leaderboard, ranked by the sum
// of scores of their flagged messages, not by message count.
type Contributor struct {
	Sender    string `json:"sender"`
	SenderKey string `json:"sender_key"`
	Messages  int    `json:"messages"`
	Score     int    `json:"score"`
}

// Stats aggregates detector output over a whole export.
type Stats struct {
	Total           int              `json:"total"`
	ByType          map[Category]int `json:"by_type"`
	BySeverity      map[string]int   `json:"by_severity"`
	TopContributors []Contributor    `json:"top_contributors"`
}

// FindAll runs the detector over every content message and returns flagged
// results filtered by minimum severity and category allow-list, sorted by
// score descending, truncated to MaxResults when positive.
func FindAll(a Analyzer, msgs []models.Message, opts Options) []Result {
	minRank := severityRank(a, opts.MinSeverity)

	var allowed map[Category]bool
	if len(opts.Types) > 0 {
		allowed = make(map[Category]bool, len(opts.Types))
		for _, t := range opts.Types {
			allowed[t] = true
		}
	}

	results := make([]Result, 0)
	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		res := a.Analyze(m)
		if res == nil {
			continue
		}
		if severityRank(a, res.Severity) < minRank {
			continue
		}
		if allowed != nil && !allowed[res.Category] {
			continue
		}
		results = append(results, *res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// ComputeStats aggregates totals, per-category and per-severity counts, and
// the top-5 sender leaderboard for a detector over a whole export.
func ComputeStats(a Analyzer, msgs []models.Message) Stats {
	stats := Stats{
		ByType:     make(map[Category]int),
		BySeverity: make(map[string]int),
	}

	type tally struct {
		sender   string
		messages int
		score    int
	}
	bySender := make(map[string]*tally)
	order := make([]string, 0)

	for i := range msgs {
		m := &msgs[i]
		if !m.IsContent() {
			continue
		}
		res := a.Analyze(m)
		if res == nil {
			continue
		}
		stats.Total++
		stats.ByType[res.Category]++
		stats.BySeverity[res.Severity]++

		t, ok := bySender[res.SenderKey]
		if !ok {
			t = &tally{sender: res.Sender}
			bySender[res.SenderKey] = t
			order = append(order, res.SenderKey)
		}
		t.messages++
		t.score += res.Score
	}

	contributors := make([]Contributor, 0, len(order))
	for _, key := range order {
		t := bySender[key]
		contributors = append(contributors, Contributor{
			Sender:    t.sender,
			SenderKey: key,
			Messages:  t.messages,
			Score:     t.score,
		})
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Score > contributors[j].Score
	})
	if len(contributors) > topContributorCount {
		contributors = contributors[:topContributorCount]
	}
	stats.TopContributors = contributors
	return stats
}

// severityRank returns the ordinal position of a severity label for the
// given detector; unknown or empty labels rank lowest.
func severityRank(a Analyzer, severity string) int {
	if severity == "" {
		return -1
	}
	for i, s := range a.Severities() {
		if s == severity {
			return i
		}
	}
	return -1
}

// matchRules sums the weights of every matching rule and collects reasons.
func matchRules(lower string, rules []Rule) (int, []string) {
	score := 0
	var reasons []string
	for _, r := range rules {
		if r.Match(lower) {
			score += r.Weight
			label := r.Pattern
			if label == "" && r.Regex != nil {
				label = r.Regex.String()
			}
			reasons = append(reasons, fmt.Sprintf("matched %q (+%d)", label, r.Weight))
		}
	}
	return score, reasons
}

// bucket maps a cumulative score onto ordered severity labels via ascending
// thresholds; thresholds[i] is the minimum score for labels[i].
func bucket(score int, thresholds []int, labels []string) string {
	severity := labels[0]
	for i, min := range thresholds {
		if score >= min {
			severity = labels[i]
		}
	}
	return severity
}

// detectLanguage best-effort identifies the language of flagged text.
// Low-confidence detections (short or ambiguous text) return "".
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if info.Confidence < 0.5 {
		return ""
	}
	return info.Lang.String()
}

// excerpt truncates flagged text for result payloads.
func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptRunes]) + "…"
}
