package nlp

import (
	"regexp"
	"strconv"

	"github.com/medmatch/matching-core/internal/domain"
)

var (
	// Explicit "age" context is required so stage numbers ("stage 4")
	// never get mistaken for an age (spec.md §4.3 step 5).
	agePattern1 = regexp.MustCompile(`\bage\s*(\d{1,3})\b`)
	agePattern2 = regexp.MustCompile(`\b(\d{1,3})\s*year\s*old\b`)
	agePattern3 = regexp.MustCompile(`\b(\d{1,3})\s*yo\b`)

	femalePattern = regexp.MustCompile(`\b(female|woman|girl)\b`)
	malePattern   = regexp.MustCompile(`\b(male|man|boy)\b`)
)

func extractDemographics(text string) domain.ExtractedDemographics {
	var d domain.ExtractedDemographics

	for _, p := range []*regexp.Regexp{agePattern1, agePattern2, agePattern3} {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				d.Age = &n
				break
			}
		}
	}

	if femalePattern.MatchString(text) {
		d.Sex = domain.SexFemale
	} else if malePattern.MatchString(text) {
		d.Sex = domain.SexMale
	}

	return d
}

var (
	rangePattern1 = regexp.MustCompile(`\b(\d{1,3})\s*-\s*(\d{1,3})\s*years\b`)
	rangePattern2 = regexp.MustCompile(`\bbetween\s+(\d{1,3})\s+and\s+(\d{1,3})\b`)
	rangePattern3 = regexp.MustCompile(`\baged\s+(\d{1,3})\s+to\s+(\d{1,3})\b`)

	minAgePattern1 = regexp.MustCompile(`\bminimum age\s*(\d{1,3})\b`)
	minAgePattern2 = regexp.MustCompile(`\bover\s+(\d{1,3})\b`)
	maxAgePattern1 = regexp.MustCompile(`\bmaximum age\s*(\d{1,3})\b`)
	maxAgePattern2 = regexp.MustCompile(`\bunder\s+(\d{1,3})\b`)
)

func extractAgeRequirements(text string) domain.AgeRequirements {
	for _, p := range []*regexp.Regexp{rangePattern1, rangePattern2, rangePattern3} {
		if m := p.FindStringSubmatch(text); m != nil {
			lo, errLo := strconv.Atoi(m[1])
			hi, errHi := strconv.Atoi(m[2])
			if errLo == nil && errHi == nil {
				if lo > hi {
					lo, hi = hi, lo
				}
				return domain.AgeRequirements{Min: &lo, Max: &hi, Units: "years"}
			}
		}
	}

	req := domain.AgeRequirements{Units: "years"}
	for _, p := range []*regexp.Regexp{minAgePattern1, minAgePattern2} {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				req.Min = &n
				break
			}
		}
	}
	for _, p := range []*regexp.Regexp{maxAgePattern1, maxAgePattern2} {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				req.Max = &n
				break
			}
		}
	}
	return req
}

var (
	maleOnlyPattern   = regexp.MustCompile(`\b(male only|only male)\b`)
	femaleOnlyPattern = regexp.MustCompile(`\b(female only|only female)\b`)
	allGendersPattern = regexp.MustCompile(`\b(all genders|both sexes)\b`)
)

// extractGenderRequirements applies the male-only/female-only/all rules.
// Pregnancy/nursing mentions never force a gender requirement on their
// own (spec.md §4.3 step 7).
func extractGenderRequirements(text string) domain.GenderRequirement {
	switch {
	case maleOnlyPattern.MatchString(text):
		return domain.GenderMale
	case femaleOnlyPattern.MatchString(text):
		return domain.GenderFemale
	case allGendersPattern.MatchString(text):
		return domain.GenderAll
	default:
		return ""
	}
}
