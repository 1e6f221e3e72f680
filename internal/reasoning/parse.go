package reasoning

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

var (
	negativeEligibilityPattern = regexp.MustCompile(`(?i)\b(not eligible|ineligible|does not qualify)\b`)
	positiveEligibilityPattern = regexp.MustCompile(`(?i)\b(eligible|qualifies|meets criteria)\b`)

	confidencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)confidence\s*:\s*(\d{1,3})\s*%`),
		regexp.MustCompile(`(?i)(\d{1,3})\s*%\s*confidence`),
		regexp.MustCompile(`(?i)confident\s*:\s*(\d{1,3})\s*%`),
		regexp.MustCompile(`(?i)certainty\s*:\s*(\d{1,3})\s*%`),
	}

	sectionHeadingPatterns = map[string]*regexp.Regexp{
		"assessment": regexp.MustCompile(`(?i)assessment\s*:?\s*\n?(.*?)(?:\n\n|$)`),
		"analysis":   regexp.MustCompile(`(?i)analysis\s*:?\s*\n?(.*?)(?:\n\n|$)`),
		"conclusion": regexp.MustCompile(`(?i)conclusion\s*:?\s*\n?(.*?)(?:\n\n|$)`),
	}
	sectionOrder = []string{"assessment", "analysis", "conclusion"}

	contraindicationLinePattern = regexp.MustCompile(`(?i)(contraindication|contraindicated|not recommended|risk|interaction|allergy|adverse)`)
	recommendationLinePattern   = regexp.MustCompile(`(?i)(recommend|suggest|advise|should|consider)`)
)

const excerptLength = 200

// parseEligibilityStatus implements spec.md §4.5 step 4's eligibility_status
// rule: a negative phrase is stripped before the positive check runs, so
// "not eligible" alone never also counts as a positive signal.
func parseEligibilityStatus(text string) domain.MatchStatus {
	hasNegative := negativeEligibilityPattern.MatchString(text)
	withoutNegative := negativeEligibilityPattern.ReplaceAllString(text, "")
	hasPositive := positiveEligibilityPattern.MatchString(withoutNegative)

	switch {
	case hasPositive && hasNegative:
		return domain.MatchRequiresReview
	case hasPositive:
		return domain.MatchEligible
	case hasNegative:
		return domain.MatchIneligible
	default:
		return domain.MatchRequiresReview
	}
}

// parseConfidenceScore implements spec.md §4.5 step 4's confidence_score
// rule: an explicit percentage wins; otherwise the default depends on
// the verdict's polarity.
func parseConfidenceScore(text string, status domain.MatchStatus) float64 {
	for _, p := range confidencePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > 100 {
			n = 100
		}
		if n < 0 {
			n = 0
		}
		return float64(n) / 100.0
	}

	switch status {
	case domain.MatchEligible:
		return 0.8
	case domain.MatchIneligible:
		return 0.7
	default:
		return 0.5
	}
}

// parseReasoningChain implements spec.md §4.5 step 4's reasoning_chain
// rule: the assessment/analysis/conclusion sections, in that fixed
// order, each present one becoming a step with a 200-character excerpt.
func parseReasoningChain(text string) []RawStep {
	var steps []RawStep
	for _, label := range sectionOrder {
		m := sectionHeadingPatterns[label].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if content == "" {
			continue
		}
		steps = append(steps, RawStep{
			Category:   label,
			Details:    excerpt(content, excerptLength),
			Confidence: 0.7,
		})
	}
	return steps
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// parseContraindications implements spec.md §4.5 step 4's
// contraindications rule: scan lines for the keyword set, cap at 5.
func parseContraindications(text string) []string {
	return scanLines(text, contraindicationLinePattern, 5)
}

// parseRecommendations implements spec.md §4.5 step 4's recommendations
// rule: scan lines for the keyword set, cap at 3.
func parseRecommendations(text string) []string {
	return scanLines(text, recommendationLinePattern, 3)
}

func scanLines(text string, pattern *regexp.Regexp, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if pattern.MatchString(trimmed) {
			out = append(out, trimmed)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// parseConclusion implements spec.md §4.5 step 4's conclusion rule: the
// content after a "conclusion" heading, falling back to the first
// sentence of the whole response.
func parseConclusion(text string) string {
	if m := sectionHeadingPatterns["conclusion"].FindStringSubmatch(text); m != nil {
		if content := strings.TrimSpace(m[1]); content != "" {
			return content
		}
	}
	return firstSentence(text)
}

func firstSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexAny(trimmed, ".!?"); idx != -1 {
		return strings.TrimSpace(trimmed[:idx+1])
	}
	return trimmed
}

// parseResponse runs the full response-parsing pipeline over raw LLM
// completion text, producing everything assess_eligibility needs except
// the metadata block (spec.md §4.5 step 4).
func parseResponse(text string) MedicalReasoningResult {
	status := parseEligibilityStatus(text)
	return MedicalReasoningResult{
		EligibilityStatus: status,
		ConfidenceScore:   parseConfidenceScore(text, status),
		ReasoningChain:    parseReasoningChain(text),
		Contraindications: parseContraindications(text),
		Recommendations:   parseRecommendations(text),
		Conclusion:        parseConclusion(text),
	}
}

// safeFallback is the result returned whenever assess_eligibility hits
// an unrecoverable error, per spec.md §4.5 step 5.
func safeFallback(errMessage string) MedicalReasoningResult {
	return MedicalReasoningResult{
		EligibilityStatus: domain.MatchRequiresReview,
		ConfidenceScore:   0,
		ReasoningChain:    nil,
		Contraindications: []string{"Assessment error - manual review needed"},
		Recommendations:   []string{"Consult with medical professional for eligibility determination"},
		Metadata:          map[string]string{"error": errMessage},
	}
}
