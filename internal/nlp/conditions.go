package nlp

import (
	"regexp"
	"strings"
)

// flexiblePattern builds a word-boundary regex for a phrase that
// tolerates hyphen-or-space between tokens and flexible internal
// whitespace, per spec.md §4.3 step 2.
func flexiblePattern(phrase string) *regexp.Regexp {
	tokens := strings.Fields(strings.ReplaceAll(phrase, "-", " "))
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	joined := strings.Join(escaped, `[\s-]+`)
	return regexp.MustCompile(`\b` + joined + `\b`)
}

var compoundPatterns = buildCompoundPatterns()

func buildCompoundPatterns() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(compoundConditions))
	for _, c := range compoundConditions {
		m[c] = flexiblePattern(c)
	}
	return m
}

// extractCompoundConditions scans text for every compound-condition
// dictionary entry, returning canonical phrase text for each match.
func extractCompoundConditions(text string) []string {
	var out []string
	for _, phrase := range compoundConditions {
		if compoundPatterns[phrase].MatchString(text) {
			out = append(out, phrase)
		}
	}
	return out
}

// extractSingleTerm scans text for each vocabulary entry using
// word-boundary patterns, discarding any match that is a strict
// substring of an already-recorded compound (spec.md §4.3 step 3).
func extractSingleTerm(text string, vocabulary []string, alreadyCompound []string) []string {
	var out []string
	for _, term := range vocabulary {
		pattern := flexiblePattern(term)
		if !pattern.MatchString(text) {
			continue
		}
		if isSubstringOfAny(term, alreadyCompound) {
			continue
		}
		out = append(out, term)
	}
	return out
}

func isSubstringOfAny(term string, compounds []string) bool {
	for _, c := range compounds {
		if strings.Contains(c, term) && c != term {
			return true
		}
	}
	return false
}

var exclusionSpanPattern = regexp.MustCompile(`(?i)(?:exclusion|exclude|not eligible|contraindication)\s*:\s*([^.;\n]+)`)

// extractExclusions locates spans introduced by exclusion-context markers
// and re-runs the condition pass over each span (spec.md §4.3 step 4).
func extractExclusions(text string) []string {
	var out []string
	for _, m := range exclusionSpanPattern.FindAllStringSubmatch(text, -1) {
		span := m[1]
		out = append(out, extractCompoundConditions(span)...)
		out = append(out, extractSingleTerm(span, conditionVocabulary, nil)...)
	}
	return out
}

// maskExclusionSpans blanks out exclusion-context spans so the primary
// condition pass never double-counts a condition that only appears
// there; length is preserved so downstream offsets stay stable.
func maskExclusionSpans(text string) string {
	return exclusionSpanPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}
