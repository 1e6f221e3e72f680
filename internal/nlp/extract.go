// Package nlp implements C3, the medical entity extractor: a pure
// function over free text with no I/O and no external dependency.
package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

var abbreviations = []struct {
	pattern *regexp.Regexp
	expand  string
}{
	{regexp.MustCompile(`\bw/o\b`), "without"},
	{regexp.MustCompile(`\bw/`), "with "},
	{regexp.MustCompile(`\bhx\b`), "history"},
	{regexp.MustCompile(`\bdx\b`), "diagnosis"},
	{regexp.MustCompile(`\btx\b`), "treatment"},
	{regexp.MustCompile(`\bpt\b`), "patient"},
	{regexp.MustCompile(`\byrs?\b`), "years"},
	{regexp.MustCompile(`\bmos?\b`), "months"},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// Preprocess lowercases text, collapses whitespace runs, and expands the
// closed set of clinical-note abbreviations (spec.md §4.3 step 1).
func Preprocess(text string) string {
	t := strings.ToLower(text)
	for _, abbr := range abbreviations {
		t = abbr.pattern.ReplaceAllString(t, abbr.expand)
	}
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// Extract is C3's sole operation. It is pure and idempotent: calling it
// twice on the same text, or on text already run through Preprocess,
// yields identical output.
func Extract(text string) domain.ExtractedEntities {
	pre := Preprocess(text)

	entities := domain.ExtractedEntities{
		Conditions:         []string{},
		ExcludedConditions: []string{},
		Medications:        []string{},
		Procedures:         []string{},
		LabValues:          []string{},
	}

	entities.ExcludedConditions = dedup(extractExclusions(pre))
	primaryText := maskExclusionSpans(pre)

	compoundMatches := extractCompoundConditions(primaryText)
	entities.Conditions = append(entities.Conditions, compoundMatches...)

	singleConditions := extractSingleTerm(primaryText, conditionVocabulary, compoundMatches)
	entities.Conditions = append(entities.Conditions, singleConditions...)
	entities.Conditions = dedup(entities.Conditions)

	entities.Medications = dedup(extractSingleTerm(pre, medicationVocabulary, nil))
	entities.Procedures = dedup(extractSingleTerm(pre, procedureVocabulary, nil))
	entities.LabValues = dedup(extractSingleTerm(pre, labValueVocabulary, nil))

	entities.Demographics = extractDemographics(pre)
	entities.AgeRequirements = extractAgeRequirements(pre)
	entities.GenderRequirements = extractGenderRequirements(pre)

	entities.ComplexityScore = complexityScore(pre, entities)

	return entities
}

func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
