package orchestrator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

var (
	advancedStagePattern  = regexp.MustCompile(`(?i)stage\s*(iv|4)\b|metastatic|advanced`)
	cancerConditionPattern = regexp.MustCompile(`(?i)cancer|tumor|carcinoma|malignan\w*|sarcoma|lymphoma|leukemia`)
	preventionPattern     = regexp.MustCompile(`(?i)prevention|prophylaxis|risk reduction|preventive|chemoprevention`)
	reconstructionPattern = regexp.MustCompile(`(?i)reconstruction|mastectomy|lumpectomy|cosmetic|aesthetic surgery`)
	healthyVolunteerPattern = regexp.MustCompile(`(?i)healthy volunteer|healthy subject|healthy participant`)
	diagnosticStudyPattern = regexp.MustCompile(`(?i)diagnostic stud|imaging stud|screening stud|registry|observational cohort|biomarker stud`)
	pediatricMarkerPattern = regexp.MustCompile(`(?i)pediatric|child(ren)?|adolescent|infant`)
	adultOnlyMarkerPattern = regexp.MustCompile(`(?i)adults? only|18 years and older|adult participants`)
	treatmentPattern       = regexp.MustCompile(`(?i)treatment|therapy|therapeutic|chemotherapy|immunotherapy|targeted therapy|drug trial`)
	phaseMarkerPattern     = regexp.MustCompile(`(?i)phase\s*[1-4]`)
	observationalPattern   = regexp.MustCompile(`(?i)observational`)
)

var specificCancerTypes = []string{"breast", "lung", "colorectal", "prostate", "pancreatic", "ovarian", "melanoma"}

// scoredCandidate pairs a trial with its relevance score for the
// intermediate filter-and-sort pass.
type scoredCandidate struct {
	trial domain.Trial
	score float64
}

// filterByRelevance is step 4 of Match, spec.md §4.6.1: score every
// candidate, drop anything below 0.5, sort descending, and truncate to
// limit. A panic during scoring (never expected from pure string
// matching, but guarded per spec) is treated as a borderline 0.5.
func filterByRelevance(profile domain.PatientProfile, trials []domain.Trial, limit int) []domain.Trial {
	scored := make([]scoredCandidate, 0, len(trials))
	for _, t := range trials {
		scored = append(scored, scoredCandidate{trial: t, score: safeRelevanceScore(profile, t)})
	}

	kept := scored[:0]
	for _, c := range scored {
		if c.score >= 0.5 {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]domain.Trial, len(kept))
	for i, c := range kept {
		out[i] = c.trial
	}
	return out
}

func safeRelevanceScore(profile domain.PatientProfile, t domain.Trial) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0.5
		}
	}()
	return relevanceScore(profile, t)
}

// relevanceScore implements the relevance-filter rubric of spec.md
// §4.6.1.
func relevanceScore(profile domain.PatientProfile, t domain.Trial) float64 {
	trialText := strings.ToLower(t.CombinedText())
	patientText := strings.ToLower(patientFreeText(profile))
	conditions := lowerAll(profile.PrimaryConditions)

	if patientConditionsAreCancer(conditions) {
		if advancedStagePattern.MatchString(patientText) &&
			(preventionPattern.MatchString(trialText) || reconstructionPattern.MatchString(trialText)) {
			return 0
		}
		if healthyVolunteerPattern.MatchString(trialText) {
			return 0
		}
	}

	score := 0.0

	if anyConditionWordMatches(conditions, trialText) {
		score += 0.4
	}

	if patientConditionsAreCancer(conditions) && diagnosticStudyPattern.MatchString(trialText) {
		score -= 0.4
	}

	patientAge := profile.Demographics.Age
	if patientAge != nil {
		isPediatricPatient := *patientAge < 18
		if isPediatricPatient && adultOnlyMarkerPattern.MatchString(trialText) {
			score -= 0.6
		} else if !isPediatricPatient && pediatricMarkerPattern.MatchString(trialText) {
			score -= 0.6
		} else if isPediatricPatient && pediatricMarkerPattern.MatchString(trialText) {
			score += 0.6
		}
	}

	switch {
	case treatmentPattern.MatchString(trialText):
		score += 0.3
	case phaseMarkerPattern.MatchString(trialText):
		score += 0.2
	case observationalPattern.MatchString(trialText):
		score -= 0.1
	}

	if t.Status.IsActive() {
		score += 0.1
	} else if t.Status.IsClosed() {
		score -= 0.2
	}

	if patientCancerType := specificCancerType(conditions); patientCancerType != "" && strings.Contains(trialText, patientCancerType) {
		score += 0.3
	}

	return clamp01(score)
}

func patientFreeText(profile domain.PatientProfile) string {
	if profile.Raw == nil {
		return ""
	}
	return profile.Raw.MedicalQuery + " " + profile.Raw.ClinicalNotes + " " + profile.Raw.MedicalHistory
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

func patientConditionsAreCancer(conditions []string) bool {
	for _, c := range conditions {
		if cancerConditionPattern.MatchString(c) {
			return true
		}
	}
	return false
}

func anyConditionWordMatches(conditions []string, trialText string) bool {
	for _, c := range conditions {
		if c == "" {
			continue
		}
		if strings.Contains(trialText, c) {
			return true
		}
		for _, word := range strings.Fields(c) {
			if len(word) > 3 && strings.Contains(trialText, word) {
				return true
			}
		}
	}
	return false
}

func specificCancerType(conditions []string) string {
	for _, c := range conditions {
		for _, t := range specificCancerTypes {
			if strings.Contains(c, t) {
				return t
			}
		}
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
