package sentiment

import (
	"context"
	"strings"
)

var positiveWords = map[string]struct{}{
	"great": {}, "excellent": {}, "amazing": {}, "love": {}, "loved": {},
	"fantastic": {}, "wonderful": {}, "best": {}, "perfect": {}, "happy": {},
	"helpful": {}, "friendly": {}, "recommend": {}, "awesome": {}, "good": {},
}

var negativeWords = map[string]struct{}{
	"terrible": {}, "awful": {}, "horrible": {}, "worst": {}, "hate": {},
	"hated": {}, "bad": {}, "poor": {}, "rude": {}, "disappointed": {},
	"disappointing": {}, "slow": {}, "broken": {}, "refund": {}, "never": {},
}

// KeywordEngine is a transparent word-counting stub.
type KeywordEngine struct{}

// NewKeywordEngine creates the stub engine.
func NewKeywordEngine() *KeywordEngine {
	return &KeywordEngine{}
}

func (e *KeywordEngine) Name() string {
	return "keyword-stub"
}

// Analyze counts positive and negative words and scores their balance.
// Text with no hits in either list is neutral with score 0.
func (e *KeywordEngine) Analyze(_ context.Context, text string) (Result, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var pos, neg int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return Result{Label: LabelNeutral, Score: 0}, nil
	}

	score := float64(pos-neg) / float64(total)
	label := LabelNeutral
	switch {
	case score > 0.2:
		label = LabelPositive
	case score < -0.2:
		label = LabelNegative
	}

	return Result{Label: label, Score: score}, nil
}
