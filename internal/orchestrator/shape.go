package orchestrator

import (
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
)

func stepsOfCategory(raw []reasoning.RawStep, category string) string {
	for _, s := range raw {
		if s.Category == category {
			return s.Details
		}
	}
	return ""
}

func chainOfThought(raw []reasoning.RawStep) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		out = append(out, s.Details)
	}
	return out
}

func contraindicationSummary(contraindications []string) string {
	if len(contraindications) == 0 {
		return "No contraindications identified."
	}
	return strings.Join(contraindications, "; ")
}

func factorsByResult(chain []domain.ReasoningStep, result domain.ReasoningResult) []string {
	out := make([]string, 0, len(chain))
	for _, s := range chain {
		if s.Result == result {
			out = append(out, s.Details)
		}
	}
	return out
}

// buildMatchReasoning shapes the outbound reasoning block from C5's raw
// result and the orchestrator's mapped domain chain (spec.md §6).
func buildMatchReasoning(raw reasoning.MedicalReasoningResult, mappedChain []domain.ReasoningStep) MatchReasoning {
	return MatchReasoning{
		ChainOfThought:        chainOfThought(raw.ReasoningChain),
		MedicalAnalysis:       stepsOfCategory(raw.ReasoningChain, "analysis"),
		EligibilityAssessment: firstNonEmpty(stepsOfCategory(raw.ReasoningChain, "assessment"), raw.Conclusion),
		ContraindicationCheck: contraindicationSummary(raw.Contraindications),
		ConfidenceFactors:     factorsByResult(mappedChain, domain.ResultPass),
		ExcludedFactors:       factorsByResult(mappedChain, domain.ResultFail),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildLocationAndContact picks the first listed site, if any, for the
// outbound location/contact blocks.
func buildLocationAndContact(t domain.Trial) (MatchLocation, MatchContact) {
	if len(t.Locations) == 0 {
		return MatchLocation{}, MatchContact{}
	}
	site := t.Locations[0]
	loc := MatchLocation{Facility: site.Facility, City: site.City, State: site.State, Country: site.Country}
	var contact MatchContact
	if site.Contact != nil {
		contact = MatchContact{Name: site.Contact.Name, Phone: site.Contact.Phone, Email: site.Contact.Email}
	}
	return loc, contact
}

func matchScoreFromConfidence(confidence float64) int {
	score := int(confidence*100 + 0.5)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
