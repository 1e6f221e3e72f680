package domain

import "strings"

// Location is a free-form geographic hint attached to a patient or a
// trial site. The core never geocodes it (spec.md §9 open question 2).
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// PatientInput is the request-scoped patient record submitted to the
// pipeline. It is never persisted by the core (spec.md §3 ownership).
type PatientInput struct {
	PatientID          string            `json:"patient_id,omitempty"`
	Age                *int              `json:"age,omitempty"`
	Sex                Sex               `json:"sex,omitempty"`
	Conditions         []string          `json:"conditions,omitempty"`
	Medications        []string          `json:"medications,omitempty"`
	Allergies          []string          `json:"allergies,omitempty"`
	Biomarkers         map[string]string `json:"biomarkers,omitempty"`
	LabResults         map[string]string `json:"lab_results,omitempty"`
	MedicalHistory     string            `json:"medical_history,omitempty"`
	Location           *Location         `json:"location,omitempty"`
	MedicalQuery       string            `json:"medical_query,omitempty"`
	ClinicalNotes      string            `json:"clinical_notes,omitempty"`
	CurrentMedications []string          `json:"current_medications,omitempty"`
}

// Validate enforces spec.md §3's "at least one of" requirement.
func (p *PatientInput) Validate() error {
	if p.MedicalQuery == "" && p.ClinicalNotes == "" && p.MedicalHistory == "" &&
		p.Age == nil && p.Sex == "" && len(p.Conditions) == 0 &&
		len(p.CurrentMedications) == 0 {
		return NewValidationError("patient_data",
			"at least one of medical_query, clinical_notes, medical_history, demographics, or current_medications must be present")
	}
	if len(p.MedicalQuery) > 10000 {
		return NewValidationError("medical_query", "free-text narrative exceeds 10000 characters")
	}
	if len(p.ClinicalNotes) > 10000 {
		return NewValidationError("clinical_notes", "free-text narrative exceeds 10000 characters")
	}
	return nil
}

// FreeText returns the free-text narrative to run C3 over. medical_query,
// clinical_notes, and medical_history are all valid narrative sources
// per spec.md §3, so all three that are present are concatenated rather
// than picking just one (a patient submitting only medical_history would
// otherwise get no entity extraction at all).
func (p *PatientInput) FreeText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.MedicalQuery, p.ClinicalNotes, p.MedicalHistory} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// AnonymizedID returns the patient id, or "anonymous" when absent, for
// use in outbound responses (spec.md §6).
func (p *PatientInput) AnonymizedID() string {
	if p.PatientID == "" {
		return "anonymous"
	}
	return p.PatientID
}

// Demographics is the normalized {age, sex} pair threaded through the
// pipeline, derived either from structured fields or from C3 extraction.
type Demographics struct {
	Age *int `json:"age,omitempty"`
	Sex Sex  `json:"sex,omitempty"`
}

// PatientProfile is the orchestrator's normalized view of a patient,
// built in step 1 of Match (spec.md §4.6): raw input plus extracted
// entities plus a flattened set of fields used by retrieval and scoring.
type PatientProfile struct {
	Raw               *PatientInput
	Extracted         *ExtractedEntities
	PrimaryConditions []string
	Biomarkers        []string
	Medications       []string
	Demographics      Demographics
}
