package orchestrator

import "github.com/medmatch/matching-core/internal/domain"

// nextStepsByStatus is the deterministic, status-keyed next-steps table
// (SPEC_FULL.md §12, supplementing a feature the distilled spec dropped
// but the original implementation carried).
var nextStepsByStatus = map[domain.MatchStatus][]string{
	domain.MatchEligible: {
		"Contact the trial coordinator listed for this site to confirm enrollment availability.",
		"Gather recent lab results and medical records for the screening visit.",
		"Discuss this trial with your treating physician before enrolling.",
	},
	domain.MatchIneligible: {
		"Ask your physician about similar trials with broader eligibility criteria.",
		"Re-check eligibility if your condition or treatment history changes.",
	},
	domain.MatchPotentiallyEligible: {
		"Share the trial's eligibility criteria with your physician for a detailed review.",
		"Request confirmatory lab work or imaging if the criteria depend on values not yet on file.",
	},
	domain.MatchRequiresReview: {
		"A clinician should review this match manually before any enrollment decision.",
		"Provide additional medical history if available to improve the automated assessment.",
	},
	domain.MatchInsufficientData: {
		"Provide additional medical history, current medications, or lab values to improve matching.",
	},
}

// nextStepsFor returns the next-steps list for status, defaulting to the
// requires_review list for any status not present in the table.
func nextStepsFor(status domain.MatchStatus) []string {
	if steps, ok := nextStepsByStatus[status]; ok {
		return steps
	}
	return nextStepsByStatus[domain.MatchRequiresReview]
}
