// Package sentiment scores review text. The only engine shipped is a
// keyword matcher: it is NOT a model and makes no pretense of being one.
// Real inference plugs in behind the Engine interface without touching
// callers.
package sentiment

import "context"

// Labels an engine may return.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Result is an engine's verdict on one piece of text.
type Result struct {
	Label string  `json:"label"`
	// Score is in [-1, 1]; negative values lean negative.
	Score float64 `json:"score"`
}

// Engine analyzes text.
type Engine interface {
	Name() string
	Analyze(ctx context.Context, text string) (Result, error)
}
