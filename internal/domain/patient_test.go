package domain

import (
	"strings"
	"testing"
)

func TestPatientInputFreeTextFallsBackToMedicalHistory(t *testing.T) {
	p := PatientInput{MedicalHistory: "Diagnosed with stage II breast cancer in 2023."}
	if got := p.FreeText(); got != "Diagnosed with stage II breast cancer in 2023." {
		t.Errorf("FreeText() = %q, want medical_history content", got)
	}
}

func TestPatientInputFreeTextConcatenatesAllNarrativeFields(t *testing.T) {
	p := PatientInput{
		MedicalQuery:   "Looking for breast cancer trials.",
		ClinicalNotes:  "Patient reports fatigue.",
		MedicalHistory: "History of hypertension.",
	}
	got := p.FreeText()
	for _, want := range []string{"Looking for breast cancer trials.", "Patient reports fatigue.", "History of hypertension."} {
		if !strings.Contains(got, want) {
			t.Errorf("FreeText() = %q, missing %q", got, want)
		}
	}
}

func TestPatientInputFreeTextEmptyWhenNoNarrativeFields(t *testing.T) {
	p := PatientInput{Age: intp(40)}
	if got := p.FreeText(); got != "" {
		t.Errorf("FreeText() = %q, want empty", got)
	}
}
