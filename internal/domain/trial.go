package domain

import "fmt"

// Contact is an optional point of contact attached to a trial location.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// TrialLocation is one recruiting site for a trial.
type TrialLocation struct {
	Facility string   `json:"facility"`
	City     string   `json:"city,omitempty"`
	State    string   `json:"state,omitempty"`
	Country  string   `json:"country,omitempty"`
	Contact  *Contact `json:"contact,omitempty"`
}

// EligibilityCriteria captures a trial's inclusion/exclusion text and the
// structured data derived from it.
type EligibilityCriteria struct {
	RawText              string            `json:"raw_text"`
	Inclusion            []string          `json:"inclusion"`
	Exclusion            []string          `json:"exclusion"`
	AgeRequirements      AgeRequirements   `json:"age_requirements"`
	GenderRequirements   GenderRequirement `json:"gender_requirements"`
	ExtractedEntities    *ExtractedEntities `json:"extracted_entities,omitempty"`
	StructuredRequirements map[string]string `json:"structured_requirements,omitempty"`
	ComplexityScore      float64           `json:"complexity_score"`
}

// Validate re-checks derived invariants before an EligibilityCriteria is
// attached to a Trial returned by the core (original_source validation.py,
// reintroduced per SPEC_FULL.md §12).
func (e *EligibilityCriteria) Validate() error {
	if !e.AgeRequirements.Valid() {
		return NewValidationError("age_requirements", "min must be <= max")
	}
	return nil
}

// Trial is the internal representation of a single clinical trial record,
// whether sourced from the registry client (C1) or the in-memory index (C4).
type Trial struct {
	NCTID               string              `json:"nct_id"`
	Title               string              `json:"title"`
	BriefSummary        string              `json:"brief_summary"`
	DetailedDescription string              `json:"detailed_description,omitempty"`
	PrimaryPurpose      PrimaryPurpose      `json:"primary_purpose,omitempty"`
	Phase               Phase               `json:"phase,omitempty"`
	Status              TrialStatus         `json:"status"`
	Enrollment          *int                `json:"enrollment,omitempty"`
	StudyType           StudyType           `json:"study_type,omitempty"`
	Conditions          []string            `json:"conditions"`
	Interventions       []string            `json:"interventions"`
	Eligibility         EligibilityCriteria `json:"eligibility_criteria"`
	Locations           []TrialLocation     `json:"locations"`
	PrimaryOutcomes     []string            `json:"primary_outcomes,omitempty"`
	Embedding           []float64           `json:"embedding,omitempty"`
	EmbeddingModel      string              `json:"embedding_model,omitempty"`
	SearchText          string              `json:"search_text,omitempty"`
}

// Validate enforces the NCT-id-shape and enrollment invariants (spec.md
// §3 invariants, supplemented per SPEC_FULL.md §12).
func (t *Trial) Validate() error {
	if !IsValidNCTID(t.NCTID) {
		return NewValidationError("nct_id", fmt.Sprintf("%q does not match NCT\\d{8}", t.NCTID))
	}
	if t.Enrollment != nil && *t.Enrollment < 0 {
		return NewValidationError("enrollment", "must be non-negative")
	}
	return t.Eligibility.Validate()
}

// CombinedText concatenates the fields used for keyword/condition
// matching across the orchestrator's relevance filter and C4's indexing
// (title, summary, detailed description — lowercased by the caller).
func (t *Trial) CombinedText() string {
	return t.Title + " " + t.BriefSummary + " " + t.DetailedDescription
}
