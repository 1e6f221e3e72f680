package nlp

import (
	"regexp"

	"github.com/medmatch/matching-core/internal/domain"
)

var (
	bulletLinePattern    = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)]|[a-zA-Z][.)])\s+`)
	logicalOperatorPattern = regexp.MustCompile(`\b(and|or|not)\b`)
)

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// complexityScore implements the weighted formula from spec.md §4.3:
// 0.2·min(1, len/1000) + 0.3·min(1, total_entities/20)
// + 0.3·min(1, criteria_bullets/10) + 0.2·min(1, logical_operators/5).
func complexityScore(text string, e domain.ExtractedEntities) float64 {
	totalEntities := len(e.Conditions) + len(e.Medications) + len(e.Procedures) + len(e.LabValues)
	bullets := len(bulletLinePattern.FindAllString(text, -1))
	operators := len(logicalOperatorPattern.FindAllString(text, -1))

	return 0.2*min1(float64(len(text))/1000) +
		0.3*min1(float64(totalEntities)/20) +
		0.3*min1(float64(bullets)/10) +
		0.2*min1(float64(operators)/5)
}
