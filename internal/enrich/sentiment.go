package enrich

import (
	"github.com/jonreiter/govader"

	"trendhub/pkg/models"
)

// Scorer wraps the VADER analyzer used to score title polarity. The analyzer
// carries its lexicon, so build one Scorer per run and reuse it.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1]. Missing titles are treated
// as empty text and score a neutral 0.
func (s *Scorer) Score(title string) float64 {
	if title == "" {
		return 0
	}
	return s.analyzer.PolarityScores(title).Compound
}

// Label maps a polarity score to its label by strict sign; exactly zero is
// Neutral.
func Label(polarity float64) string {
	switch {
	case polarity > 0:
		return models.SentimentPositive
	case polarity < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
