package consumption

import (
	"strings"
)

// TokenEstimator converts message text into a token cost charged against
// the token windows. Estimators are heuristic; the only contract is that
// non-empty text always costs at least one token.
type TokenEstimator interface {
	Estimate(text string) int
}

// WordCountEstimator estimates tokens as word count scaled by a fixed
// multiplier. English text averages roughly 1.3 tokens per word for most
// current tokenizers.
type WordCountEstimator struct {
	Multiplier float64
}

// NewWordCountEstimator returns an estimator with the default multiplier.
func NewWordCountEstimator() *WordCountEstimator {
	return &WordCountEstimator{Multiplier: 1.3}
}

// Estimate returns the token cost for text. Whitespace-only text costs
// zero; any text with at least one word costs at least one token.
func (e *WordCountEstimator) Estimate(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	tokens := int(float64(words) * e.Multiplier)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
