package domain

// ReasoningStep is one entry in a MatchResult's reasoning chain. Step
// numbers are 1-based and strictly increasing within a chain (spec.md §8).
type ReasoningStep struct {
	Step    int               `json:"step"`
	Category ReasoningCategory `json:"category"`
	Result  ReasoningResult   `json:"result"`
	Details string            `json:"details"`
	Score   *float64          `json:"score,omitempty"`
	Weight  *float64          `json:"weight,omitempty"`
}

// MatchResult is the request-scoped outcome of scoring one candidate
// trial against one patient.
type MatchResult struct {
	MatchID           string             `json:"match_id"`
	PatientIDOrAnon   string             `json:"patient_id"`
	TrialNCTID        string             `json:"trial_nct_id"`
	OverallScore      float64            `json:"overall_score"`
	ConfidenceScore   float64            `json:"confidence_score"`
	MatchStatus       MatchStatus        `json:"match_status"`
	ReasoningChain    []ReasoningStep    `json:"reasoning_chain"`
	Explanation       string             `json:"explanation"`
	NextSteps         []string           `json:"next_steps"`
	ConfidenceFactors map[string]float64 `json:"confidence_factors"`
	AuditMetadata     map[string]string  `json:"audit_metadata"`
	ProcessingTimeMs  int64              `json:"processing_time_ms"`
	AIModelVersion    string             `json:"ai_model_version"`
}

// ComputeOverallScore implements spec.md §3's weighted-mean rule: fail
// steps contribute 0 regardless of their declared score; a chain with no
// steps yields the neutral 0.5.
func ComputeOverallScore(steps []ReasoningStep) float64 {
	if len(steps) == 0 {
		return 0.5
	}
	var weightedSum, weightTotal float64
	for _, s := range steps {
		weight := 1.0
		if s.Weight != nil {
			weight = *s.Weight
		}
		score := 0.0
		if s.Result != ResultFail {
			if s.Score != nil {
				score = *s.Score
			}
		}
		weightedSum += weight * score
		weightTotal += weight
	}
	if weightTotal == 0 {
		return 0.5
	}
	return weightedSum / weightTotal
}

// HasDisqualifyingFailure reports whether the chain contains a fail step
// in exclusion_check or allergy_check — spec.md §3's invariant that such
// a chain cannot be eligible without external override.
func HasDisqualifyingFailure(steps []ReasoningStep) bool {
	for _, s := range steps {
		if s.Result == ResultFail && (s.Category == CategoryExclusionCheck || s.Category == CategoryAllergyCheck) {
			return true
		}
	}
	return false
}

// RenumberSteps assigns contiguous, 1-based, increasing step numbers,
// preserving order — the invariant required by spec.md §8.
func RenumberSteps(steps []ReasoningStep) []ReasoningStep {
	for i := range steps {
		steps[i].Step = i + 1
	}
	return steps
}
