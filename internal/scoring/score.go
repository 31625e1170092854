// Package scoring computes normalized engagement scores for posts and a
// keyword/hashtag-overlap similarity search. Scores are recomputed against
// the whole corpus on every call; an export is bounded, so recomputation
// beats incremental caches that could go stale.
package scoring

import (
	"sort"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Component weights. The six sub-scores are independently normalized and
// clipped, so the total can never exceed 100.
const (
	weightReactions = 50.0
	weightLength    = 20.0
	weightMedia     = 10.0
	weightLink      = 8.0
	weightReply     = 7.0
	weightForward   = 5.0

	// Length is linear up to this fraction of the corpus's longest post,
	// then capped.
	lengthCapFraction = 0.3
)

// Percentile thresholds for qualitative labels, descending.
var labelThresholds = []struct {
	min   float64
	label string
}{
	{95, "Exceptional"},
	{80, "Strong"},
	{60, "Above Average"},
	{40, "Average"},
	{20, "Below Average"},
	{0, "Low"},
}

// Breakdown carries the six weighted sub-scores.
type Breakdown struct {
	Reactions float64 `json:"reactions"`
	Length    float64 `json:"length"`
	Media     float64 `json:"media"`
	Link      float64 `json:"link"`
	Reply     float64 `json:"reply"`
	Forward   float64 `json:"forward"`
}

// PostScore is the engagement score of one post, its percentile rank in
// the corpus, and the qualitative label.
type PostScore struct {
	MessageID  int       `json:"message_id"`
	Total      float64   `json:"total"`
	Breakdown  Breakdown `json:"breakdown"`
	Percentile float64   `json:"percentile"`
	Label      string    `json:"label"`
}

// corpusMaxima holds the normalization denominators. A zero maximum means
// no scaling is possible and the sub-score is zero, never NaN.
type corpusMaxima struct {
	reactions int
	length    int
}

func maxima(corpus []models.Message) corpusMaxima {
	var cm corpusMaxima
	for i := range corpus {
		m := &corpus[i]
		if !m.IsContent() {
			continue
		}
		if r := m.ReactionTotal(); r > cm.reactions {
			cm.reactions = r
		}
		if l := m.TextLength(); l > cm.length {
			cm.length = l
		}
	}
	return cm
}

func breakdown(m *models.Message, cm corpusMaxima) Breakdown {
	var b Breakdown

	if cm.reactions > 0 {
		b.Reactions = weightReactions * float64(m.ReactionTotal()) / float64(cm.reactions)
	}

	if cap := lengthCapFraction * float64(cm.length); cap > 0 {
		ratio := float64(m.TextLength()) / cap
		if ratio > 1 {
			ratio = 1
		}
		b.Length = weightLength * ratio
	}

	if m.HasMedia() {
		b.Media = weightMedia
	}
	if m.HasLink() {
		b.Link = weightLink
	}
	if m.IsReply() {
		b.Reply = weightReply
	}
	if m.IsForwarded() {
		b.Forward = weightForward
	}
	return b
}

func (b Breakdown) total() float64 {
	return b.Reactions + b.Length + b.Media + b.Link + b.Reply + b.Forward
}

// Score computes the engagement score of one post against the whole
// corpus, including its percentile rank: the fraction of corpus posts
// scoring at or below it.
func Score(m *models.Message, corpus []models.Message) PostScore {
	cm := maxima(corpus)
	b := breakdown(m, cm)
	total := b.total()

	atOrBelow := 0
	posts := 0
	for i := range corpus {
		c := &corpus[i]
		if !c.IsContent() {
			continue
		}
		posts++
		if breakdown(c, cm).total() <= total {
			atOrBelow++
		}
	}

	percentile := 0.0
	if posts > 0 {
		percentile = 100 * float64(atOrBelow) / float64(posts)
	}

	return PostScore{
		MessageID:  m.ID,
		Total:      total,
		Breakdown:  b,
		Percentile: percentile,
		Label:      labelFor(percentile),
	}
}

// ScoreAll scores every content message in the corpus, sorted by total
// descending.
func ScoreAll(corpus []models.Message) []PostScore {
	cm := maxima(corpus)

	scores := make([]PostScore, 0)
	for i := range corpus {
		m := &corpus[i]
		if !m.IsContent() {
			continue
		}
		b := breakdown(m, cm)
		scores = append(scores, PostScore{MessageID: m.ID, Total: b.total(), Breakdown: b})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Total > scores[j].Total
	})

	// Percentile: count of posts at or below each score. The list is
	// sorted descending, so equal totals share one rank.
	n := len(scores)
	i := 0
	for i < n {
		j := i
		for j+1 < n && scores[j+1].Total == scores[i].Total {
			j++
		}
		p := 100 * float64(n-i) / float64(n)
		for k := i; k <= j; k++ {
			scores[k].Percentile = p
			scores[k].Label = labelFor(p)
		}
		i = j + 1
	}
	return scores
}

func labelFor(percentile float64) string {
	for _, lt := range labelThresholds {
		if percentile >= lt.min {
			return lt.label
		}
	}
	return "Low"
}
