package detect

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Manipulation categories.
const (
	CategoryGaslighting       Category = "gaslighting"
	CategoryGuiltTripping     Category = "guilt_tripping"
	CategoryPassiveAggressive Category = "passive_aggressive"
	CategoryControlling       Category = "controlling"
	CategoryDismissive        Category = "dismissive"
	CategoryVictimhood        Category = "victimhood"
)

// Manipulation severity labels, ascending.
var manipulationSeverities = []string{"mild", "moderate", "severe"}

var manipulationThresholds = []int{minScore, 7, 12}

// Bonus when gaslighting co-occurs with victimhood language, a common
// compound pattern in manipulative exchanges.
const gaslightVictimBonus = 2

var gaslightingRules = []Rule{
	{Pattern: "that never happened", Category: CategoryGaslighting, Weight: 4},
	{Pattern: "you're imagining", Category: CategoryGaslighting, Weight: 4},
	{Pattern: "you are imagining", Category: CategoryGaslighting, Weight: 4},
	{Pattern: "you're crazy", Category: CategoryGaslighting, Weight: 4},
	{Pattern: "you're overreacting", Category: CategoryGaslighting, Weight: 3},
	{Pattern: "you're too sensitive", Category: CategoryGaslighting, Weight: 3},
	{Pattern: "you're remembering it wrong", Category: CategoryGaslighting, Weight: 4},
	{Pattern: "i never said that", Category: CategoryGaslighting, Weight: 3},
	{Pattern: "you made that up", Category: CategoryGaslighting, Weight: 4},
}

var guiltTrippingRules = []Rule{
	{Pattern: "after all i've done", Category: CategoryGuiltTripping, Weight: 4},
	{Pattern: "after everything i've done", Category: CategoryGuiltTripping, Weight: 4},
	{Pattern: "if you really loved me", Category: CategoryGuiltTripping, Weight: 4},
	{Pattern: "if you cared about me", Category: CategoryGuiltTripping, Weight: 4},
	{Pattern: "you owe me", Category: CategoryGuiltTripping, Weight: 3},
	{Pattern: "i sacrificed", Category: CategoryGuiltTripping, Weight: 3},
	{Pattern: "how could you do this to me", Category: CategoryGuiltTripping, Weight: 3},
	{Pattern: "i guess i don't matter", Category: CategoryGuiltTripping, Weight: 3},
}

var passiveAggressiveRules = []Rule{
	{Pattern: "fine, whatever", Category: CategoryPassiveAggressive, Weight: 3},
	{Pattern: "no offense but", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "i'm not mad", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "good for you", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "if that's what you want", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "sure, go ahead", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "do what you want", Category: CategoryPassiveAggressive, Weight: 2},
	{Pattern: "must be nice", Category: CategoryPassiveAggressive, Weight: 3},
}

var controllingRules = []Rule{
	{Pattern: "you're not allowed", Category: CategoryControlling, Weight: 4},
	{Pattern: "i forbid", Category: CategoryControlling, Weight: 4},
	{Pattern: "you can't go", Category: CategoryControlling, Weight: 3},
	{Pattern: "who were you with", Category: CategoryControlling, Weight: 3},
	{Pattern: "give me your password", Category: CategoryControlling, Weight: 4},
	{Pattern: "you have to tell me", Category: CategoryControlling, Weight: 3},
	{Pattern: "you need my permission", Category: CategoryControlling, Weight: 4},
	{Pattern: "delete that", Category: CategoryControlling, Weight: 2},
}

var dismissiveRules = []Rule{
	{Pattern: "i don't care", Category: CategoryDismissive, Weight: 3},
	{Pattern: "whatever you say", Category: CategoryDismissive, Weight: 2},
	{Pattern: "not my problem", Category: CategoryDismissive, Weight: 3},
	{Pattern: "nobody asked", Category: CategoryDismissive, Weight: 3},
	{Pattern: "get over it", Category: CategoryDismissive, Weight: 3},
	{Pattern: "stop being dramatic", Category: CategoryDismissive, Weight: 3},
}

var victimhoodRules = []Rule{
	{Pattern: "everyone is against me", Category: CategoryVictimhood, Weight: 4},
	{Pattern: "nobody loves me", Category: CategoryVictimhood, Weight: 3},
	{Pattern: "no one cares about me", Category: CategoryVictimhood, Weight: 3},
	{Pattern: "i'm always the victim", Category: CategoryVictimhood, Weight: 4},
	{Pattern: "why does this always happen to me", Category: CategoryVictimhood, Weight: 3},
	{Pattern: "everyone always blames me", Category: CategoryVictimhood, Weight: 4},
}

// ManipulationDetector flags gaslighting, guilt-tripping, passive-aggressive,
// controlling, dismissive, and victimhood patterns. Structurally identical to
// the fraud detector with its own rule tables and severity scale.
type ManipulationDetector struct{}

// NewManipulationDetector returns a detector with the built-in rule tables.
func NewManipulationDetector() *ManipulationDetector {
	return &ManipulationDetector{}
}

// Severities returns the manipulation severity labels in ascending order.
func (d *ManipulationDetector) Severities() []string {
	return manipulationSeverities
}

// Analyze scores a single message against all manipulation rule tables.
// Primary category: gaslighting whenever it fires, else controlling, else
// the first positive check in fixed order (guilt_tripping,
// passive_aggressive, dismissive, victimhood).
func (d *ManipulationDetector) Analyze(m *models.Message) *Result {
	text := m.PlainText()
	if utf8.RuneCountInString(text) < minTextRunes {
		return nil
	}
	lower := strings.ToLower(text)

	type check struct {
		category Category
		rules    []Rule
	}
	// Order fixes the fallback tie-break.
	checks := []check{
		{CategoryGuiltTripping, guiltTrippingRules},
		{CategoryPassiveAggressive, passiveAggressiveRules},
		{CategoryDismissive, dismissiveRules},
		{CategoryVictimhood, victimhoodRules},
	}

	gaslightScore, gaslightReasons := matchRules(lower, gaslightingRules)
	controllingScore, controllingReasons := matchRules(lower, controllingRules)

	total := gaslightScore + controllingScore
	reasons := append(gaslightReasons, controllingReasons...)

	victimScore := 0
	var fallback Category
	for _, c := range checks {
		score, rs := matchRules(lower, c.rules)
		if score > 0 && fallback == "" {
			fallback = c.category
		}
		if c.category == CategoryVictimhood {
			victimScore = score
		}
		total += score
		reasons = append(reasons, rs...)
	}

	if gaslightScore > 0 && victimScore > 0 {
		total += gaslightVictimBonus
		reasons = append(reasons, fmt.Sprintf("gaslighting combined with victimhood (+%d)", gaslightVictimBonus))
	}

	if total < minScore {
		return nil
	}

	var category Category
	switch {
	case gaslightScore > 0:
		category = CategoryGaslighting
	case controllingScore > 0:
		category = CategoryControlling
	default:
		category = fallback
	}

	return &Result{
		MessageID: m.ID,
		Sender:    m.SenderName(),
		SenderKey: m.SenderKey(),
		Excerpt:   excerpt(text),
		Category:  category,
		Score:     total,
		Severity:  bucket(total, manipulationThresholds, manipulationSeverities),
		Reasons:   reasons,
		Language:  detectLanguage(text),
		Time:      m.Time(),
	}
}
