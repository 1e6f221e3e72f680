// Package reasoning implements C5, the LLM reasoning service: it turns
// a patient profile and a single trial's eligibility data into a
// structured eligibility verdict, a contraindication scan, a ranked
// list of trials, and audience-specific explanations, all by prompting
// the LLM client (pkg/llmclient) and parsing its free-text response.
package reasoning

import "github.com/medmatch/matching-core/internal/domain"

// RiskLevel is the closed set of contraindication severities.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// Contraindication is one entry returned by CheckContraindications.
type Contraindication struct {
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}

// RawStep is one entry in C5's own reasoning chain, before the
// orchestrator maps its free-text category label onto the closed
// domain.ReasoningCategory set (spec.md §4.6 step 5).
type RawStep struct {
	Category   string  `json:"category"`
	Details    string  `json:"details"`
	Confidence float64 `json:"confidence"`
}

// MedicalReasoningResult is assess_eligibility's output (spec.md §4.5).
type MedicalReasoningResult struct {
	EligibilityStatus domain.MatchStatus `json:"eligibility_status"`
	ConfidenceScore   float64            `json:"confidence_score"`
	ReasoningChain    []RawStep          `json:"reasoning_chain"`
	Contraindications []string           `json:"contraindications"`
	Recommendations   []string           `json:"recommendations"`
	Conclusion        string             `json:"conclusion"`
	Metadata          map[string]string  `json:"metadata,omitempty"`
}

// Audience selects the wording rule set GenerateExplanation applies.
type Audience string

const (
	AudiencePatient    Audience = "patient"
	AudiencePhysician  Audience = "physician"
	AudienceResearcher Audience = "researcher"
)

// RankedTrial is one entry in RankTrialMatches's output.
type RankedTrial struct {
	Trial             domain.Trial `json:"trial"`
	CompatibilityScore float64     `json:"compatibility_score"`
	Reasoning         string       `json:"reasoning"`
	KeyFactors        []string     `json:"key_factors"`
	Concerns          []string     `json:"concerns"`
}
