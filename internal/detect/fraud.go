package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dagmawibabi/telesight/internal/models"
)

// Fraud categories.
const (
	CategoryPhishing      Category = "phishing"
	CategoryMoneyRequest  Category = "money_request"
	CategoryImpersonation Category = "impersonation"
	CategoryUrgency       Category = "urgency"
)

// Fraud severity labels, ascending.
var fraudSeverities = []string{"low", "medium", "high", "critical"}

// fraudThresholds are the minimum cumulative scores per severity label.
var fraudThresholds = []int{minScore, 6, 10, 15}

// Bonus applied when urgency language co-occurs with money keywords, to
// bias toward compound-signal messages over single weak signals.
const urgencyMoneyBonus = 3

var moneyAmountRegex = regexp.MustCompile(`[$€£]\s?\d+|\d+\s?(?:usd|eur|gbp|dollars|euros)`)

var phishingRules = []Rule{
	{Pattern: "verify your account", Category: CategoryPhishing, Weight: 4},
	{Pattern: "confirm your password", Category: CategoryPhishing, Weight: 5},
	{Pattern: "confirm your identity", Category: CategoryPhishing, Weight: 4},
	{Pattern: "account suspended", Category: CategoryPhishing, Weight: 4},
	{Pattern: "account has been locked", Category: CategoryPhishing, Weight: 4},
	{Pattern: "unusual activity", Category: CategoryPhishing, Weight: 3},
	{Pattern: "click here", Category: CategoryPhishing, Weight: 3},
	{Pattern: "click this link", Category: CategoryPhishing, Weight: 3},
	{Pattern: "update your details", Category: CategoryPhishing, Weight: 3},
	{Pattern: "security alert", Category: CategoryPhishing, Weight: 3},
	{Pattern: "you have won", Category: CategoryPhishing, Weight: 4},
	{Pattern: "claim your prize", Category: CategoryPhishing, Weight: 4},
	{Pattern: "free gift", Category: CategoryPhishing, Weight: 3},
	{Regex: regexp.MustCompile(`\b(?:login|log in|sign in)\b.{0,30}\b(?:link|here|below)\b`), Category: CategoryPhishing, Weight: 4},
}

var moneyRules = []Rule{
	{Pattern: "send me", Category: CategoryMoneyRequest, Weight: 3},
	{Pattern: "send money", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "lend me", Category: CategoryMoneyRequest, Weight: 3},
	{Pattern: "pay me", Category: CategoryMoneyRequest, Weight: 3},
	{Pattern: "wire transfer", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "western union", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "gift card", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "bank account", Category: CategoryMoneyRequest, Weight: 3},
	{Pattern: "bitcoin", Category: CategoryMoneyRequest, Weight: 3},
	{Pattern: "crypto wallet", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "transfer the money", Category: CategoryMoneyRequest, Weight: 4},
	{Pattern: "need cash", Category: CategoryMoneyRequest, Weight: 3},
	{Regex: moneyAmountRegex, Category: CategoryMoneyRequest, Weight: 3},
}

var impersonationRules = []Rule{
	{Pattern: "this is your bank", Category: CategoryImpersonation, Weight: 5},
	{Pattern: "official support", Category: CategoryImpersonation, Weight: 4},
	{Pattern: "customer service", Category: CategoryImpersonation, Weight: 3},
	{Pattern: "tech support", Category: CategoryImpersonation, Weight: 3},
	{Pattern: "on behalf of", Category: CategoryImpersonation, Weight: 3},
	{Pattern: "government agency", Category: CategoryImpersonation, Weight: 4},
	{Pattern: "tax office", Category: CategoryImpersonation, Weight: 4},
	{Pattern: "i am calling from", Category: CategoryImpersonation, Weight: 4},
	{Pattern: "security department", Category: CategoryImpersonation, Weight: 4},
	{Regex: regexp.MustCompile(`\bthis is\b.{0,20}\b(?:support|security|bank|police)\b`), Category: CategoryImpersonation, Weight: 4},
}

var urgencyRules = []Rule{
	{Pattern: "urgent", Category: CategoryUrgency, Weight: 3},
	{Pattern: "immediately", Category: CategoryUrgency, Weight: 3},
	{Pattern: "right now", Category: CategoryUrgency, Weight: 2},
	{Pattern: "act now", Category: CategoryUrgency, Weight: 3},
	{Pattern: "asap", Category: CategoryUrgency, Weight: 2},
	{Pattern: "emergency", Category: CategoryUrgency, Weight: 3},
	{Pattern: "last chance", Category: CategoryUrgency, Weight: 3},
	{Pattern: "expires today", Category: CategoryUrgency, Weight: 3},
	{Pattern: "final warning", Category: CategoryUrgency, Weight: 4},
	{Pattern: "within 24 hours", Category: CategoryUrgency, Weight: 3},
	{Pattern: "before it's too late", Category: CategoryUrgency, Weight: 3},
}

// FraudDetector flags phishing, money-scam, impersonation, and urgency
// patterns in individual messages.
type FraudDetector struct{}

// NewFraudDetector returns a detector with the built-in rule tables.
func NewFraudDetector() *FraudDetector {
	return &FraudDetector{}
}

// Severities returns the fraud severity labels in ascending order.
func (d *FraudDetector) Severities() []string {
	return fraudSeverities
}

// Analyze scores a single message against all fraud rule tables. The
// cumulative score is the sum of every matched rule weight plus the
// urgency+money combination bonus. The primary category is money_request
// whenever money rules fire, else impersonation, else the first check with
// a positive score in fixed order (phishing, urgency).
func (d *FraudDetector) Analyze(m *models.Message) *Result {
	text := m.PlainText()
	if utf8.RuneCountInString(text) < minTextRunes {
		return nil
	}
	lower := strings.ToLower(text)

	phishingScore, phishingReasons := matchRules(lower, phishingRules)
	moneyScore, moneyReasons := matchRules(lower, moneyRules)
	impersonationScore, impersonationReasons := matchRules(lower, impersonationRules)
	urgencyScore, urgencyReasons := matchRules(lower, urgencyRules)

	total := phishingScore + moneyScore + impersonationScore + urgencyScore
	reasons := append(append(append(phishingReasons, moneyReasons...), impersonationReasons...), urgencyReasons...)

	if urgencyScore > 0 && moneyScore > 0 {
		total += urgencyMoneyBonus
		reasons = append(reasons, fmt.Sprintf("urgency combined with money request (+%d)", urgencyMoneyBonus))
	}

	if total < minScore {
		return nil
	}

	var category Category
	switch {
	case moneyScore > 0:
		category = CategoryMoneyRequest
	case impersonationScore > 0:
		category = CategoryImpersonation
	case phishingScore > 0:
		category = CategoryPhishing
	default:
		category = CategoryUrgency
	}

	return &Result{
		MessageID: m.ID,
		Sender:    m.SenderName(),
		SenderKey: m.SenderKey(),
		Excerpt:   excerpt(text),
		Category:  category,
		Score:     total,
		Severity:  bucket(total, fraudThresholds, fraudSeverities),
		Reasons:   reasons,
		Language:  detectLanguage(text),
		Time:      m.Time(),
	}
}
