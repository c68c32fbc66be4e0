// Package sentiment scores support messages. The scoring algorithm is
// pluggable behind the Analyzer interface; the bundled lexicon analyzer is a
// small keyword-based stand-in suitable for demos and tests.
package sentiment

import (
	"strings"
	"time"
)

// Result is the outcome of analyzing a single message.
type Result struct {
	Sentiment       string    `json:"sentiment"`
	Polarity        float64   `json:"polarity"`
	Subjectivity    float64   `json:"subjectivity"`
	EscalationScore float64   `json:"escalation_score"`
	UrgencyScore    float64   `json:"urgency_score"`
	Priority        string    `json:"priority"`
	NeedsEscalation bool      `json:"needs_escalation"`
	Timestamp       time.Time `json:"timestamp"`
}

// Analyzer scores the sentiment of free-form text.
type Analyzer interface {
	Analyze(text string) Result
}

// Sentiment labels.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Priority levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// LexiconAnalyzer scores text against fixed word lists. Polarity is the
// balance of positive vs negative word hits, subjectivity the share of
// opinionated words.
type LexiconAnalyzer struct {
	positiveWords      []string
	negativeWords      []string
	escalationKeywords []string
	urgencyKeywords    []string
}

// NewLexiconAnalyzer returns an analyzer with the default lexicons.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{
		positiveWords: []string{
			"thank", "thanks", "great", "good", "excellent", "resolved",
			"helpful", "quick", "appreciate", "happy", "perfect", "love",
		},
		negativeWords: []string{
			"angry", "furious", "hate", "terrible", "awful", "worst",
			"bad", "broken", "unacceptable", "disappointed", "frustrated",
			"disgusted", "outraged", "livid", "cancel", "refund",
		},
		escalationKeywords: []string{
			"angry", "furious", "hate", "terrible", "awful", "worst",
			"cancel", "refund", "complaint", "frustrated", "disappointed",
			"unacceptable", "disgusted", "outraged", "livid",
		},
		urgencyKeywords: []string{
			"urgent", "asap", "immediately", "emergency", "critical",
			"broken", "not working", "down", "stuck", "help",
		},
	}
}

// Analyze scores the given text. The label thresholds are 0.1 on either side
// of neutral.
func (a *LexiconAnalyzer) Analyze(text string) Result {
	lower := strings.ToLower(text)

	polarity, subjectivity := a.score(lower)

	sentiment := Neutral
	switch {
	case polarity > 0.1:
		sentiment = Positive
	case polarity < -0.1:
		sentiment = Negative
	}

	escalation := keywordScore(lower, a.escalationKeywords)
	urgency := keywordScore(lower, a.urgencyKeywords)

	return Result{
		Sentiment:       sentiment,
		Polarity:        polarity,
		Subjectivity:    subjectivity,
		EscalationScore: escalation,
		UrgencyScore:    urgency,
		Priority:        determinePriority(polarity, escalation, urgency),
		NeedsEscalation: escalation > 0.5 || polarity < -0.5,
		Timestamp:       time.Now(),
	}
}

func (a *LexiconAnalyzer) score(lower string) (polarity, subjectivity float64) {
	var positive, negative int
	for _, w := range a.positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range a.negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	opinionated := positive + negative
	if opinionated == 0 {
		return 0, 0
	}

	polarity = float64(positive-negative) / float64(opinionated)
	// Each opinionated hit pushes the text further from objective.
	subjectivity = min(float64(opinionated)/4.0, 1.0)
	return polarity, subjectivity
}

// keywordScore counts lexicon hits, normalized by lexicon size and capped
// at 1.
func keywordScore(lower string, keywords []string) float64 {
	var hits int
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return min(float64(hits)/float64(len(keywords)), 1.0)
}

func determinePriority(polarity, escalation, urgency float64) string {
	switch {
	case escalation > 0.5 || polarity < -0.6:
		return PriorityHigh
	case urgency > 0.3 || polarity < -0.3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
