package orchestrator

import (
	"regexp"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/nlp"
)

// buildPatientProfile is step 1 of Match (spec.md §4.6): run C3 over any
// free text present, then fold structured fields and extracted entities
// into one normalized view.
func buildPatientProfile(patient domain.PatientInput) domain.PatientProfile {
	profile := domain.PatientProfile{
		Raw:         &patient,
		Demographics: domain.Demographics{Age: patient.Age, Sex: patient.Sex},
	}

	freeText := patient.FreeText()
	if freeText != "" {
		extracted := nlp.Extract(freeText)
		profile.Extracted = &extracted

		if profile.Demographics.Age == nil {
			profile.Demographics.Age = extracted.Demographics.Age
		}
		if profile.Demographics.Sex == "" {
			profile.Demographics.Sex = extracted.Demographics.Sex
		}
	}

	profile.PrimaryConditions = mergeUnique(patient.Conditions, conditionsFrom(profile.Extracted))
	profile.Medications = mergeUnique(patient.CurrentMedications, medicationsFrom(profile.Extracted))
	profile.Biomarkers = biomarkersFrom(patient)

	return profile
}

func conditionsFrom(e *domain.ExtractedEntities) []string {
	if e == nil {
		return nil
	}
	return e.Conditions
}

func medicationsFrom(e *domain.ExtractedEntities) []string {
	if e == nil {
		return nil
	}
	return e.Medications
}

func biomarkersFrom(patient domain.PatientInput) []string {
	out := make([]string, 0, len(patient.Biomarkers))
	for name, value := range patient.Biomarkers {
		if value != "" {
			out = append(out, name+": "+value)
		} else {
			out = append(out, name)
		}
	}
	return out
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, item := range list {
			key := strings.ToLower(strings.TrimSpace(item))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

var stagePattern = regexp.MustCompile(`(?i)\bstage\s*(0|I{1,3}V?|IV|[1-4][abc]?)\b`)

// extractStage finds a cancer-stage mention in the patient's free text
// for the outbound extracted_entities.stage field. It is deliberately
// separate from C3's closed entity set — stage is a response-shaping
// convenience, not a matching input.
func extractStage(text string) string {
	m := stagePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "Stage " + strings.ToUpper(m[1])
}

func locationString(loc *domain.Location) string {
	if loc == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.City, loc.State, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
