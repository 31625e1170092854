package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Similarity scoring constants.
const (
	pointsPerSharedHashtag = 30
	maxKeywordPoints       = 40
	sameForwardBonus       = 15
	sameMediaBonus         = 5
	minSimilarityScore     = 10

	// Words at or below this rune count are not significant.
	minKeywordRunes = 5
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}]+`)

// stopWords are common words excluded from keyword overlap.
var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "because": true,
	"being": true, "could": true, "every": true, "first": true,
	"going": true, "having": true, "other": true, "really": true,
	"should": true, "something": true, "their": true, "there": true,
	"these": true, "thing": true, "think": true, "those": true,
	"today": true, "where": true, "which": true, "while": true,
	"would": true, "yours": true,
}

// SimilarPost is one similarity search hit with human-readable reasons.
type SimilarPost struct {
	MessageID int      `json:"message_id"`
	Sender    string   `json:"sender"`
	Excerpt   string   `json:"excerpt"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
}

// keywords extracts the significant words of a message: at least five
// runes long and not a stop word, lowercased and deduplicated.
func keywords(m *models.Message) map[string]bool {
	words := wordRegex.FindAllString(strings.ToLower(m.PlainText()), -1)
	out := make(map[string]bool)
	for _, w := range words {
		if utf8.RuneCountInString(w) >= minKeywordRunes && !stopWords[w] {
			out[w] = true
		}
	}
	return out
}

// FindSimilar ranks corpus posts by similarity to the target: shared
// hashtags, keyword overlap proportional to the target's significant
// words, plus flat bonuses for identical forward source and media type.
// The target itself is never a candidate, even on a trivial 100% match.
func FindSimilar(target *models.Message, corpus []models.Message, limit int) []SimilarPost {
	targetTags := target.Hashtags()
	targetWords := keywords(target)

	results := make([]SimilarPost, 0)
	for i := range corpus {
		c := &corpus[i]
		if !c.IsContent() || c.ID == target.ID {
			continue
		}

		score := 0
		var reasons []string

		if len(targetTags) > 0 {
			candidateTags := make(map[string]bool)
			for _, tag := range c.Hashtags() {
				candidateTags[tag] = true
			}
			shared := 0
			for _, tag := range targetTags {
				if candidateTags[tag] {
					shared++
				}
			}
			if shared > 0 {
				score += shared * pointsPerSharedHashtag
				reasons = append(reasons, fmt.Sprintf("%d shared hashtag(s)", shared))
			}
		}

		if len(targetWords) > 0 {
			shared := 0
			candidateWords := keywords(c)
			for w := range targetWords {
				if candidateWords[w] {
					shared++
				}
			}
			if shared > 0 {
				points := maxKeywordPoints * shared / len(targetWords)
				score += points
				reasons = append(reasons, fmt.Sprintf("%d shared keyword(s)", shared))
			}
		}

		if target.ForwardedFrom != "" && c.ForwardedFrom == target.ForwardedFrom {
			score += sameForwardBonus
			reasons = append(reasons, "same forward source")
		}
		if target.MediaKind() != "" && c.MediaKind() == target.MediaKind() {
			score += sameMediaBonus
			reasons = append(reasons, "same media type")
		}

		if score < minSimilarityScore {
			continue
		}

		text := c.PlainText()
		if utf8.RuneCountInString(text) > 120 {
			text = string([]rune(text)[:120]) + "…"
		}
		results = append(results, SimilarPost{
			MessageID: c.ID,
			Sender:    c.SenderName(),
			Excerpt:   text,
			Score:     score,
			Reasons:   reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
