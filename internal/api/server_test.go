package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/orchestrator"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/medmatch/matching-core/internal/telemetry"
)

type fakeRegistry struct{ trials []domain.Trial }

func (f *fakeRegistry) SearchForPatient(ctx context.Context, patientExcerpt string, maxResults int) ([]domain.Trial, error) {
	return f.trials, nil
}

type fakeReasoner struct{}

func (f *fakeReasoner) AssessEligibility(ctx context.Context, profile domain.PatientProfile, trial domain.Trial, detailed bool) reasoning.MedicalReasoningResult {
	return reasoning.MedicalReasoningResult{
		EligibilityStatus: domain.MatchEligible,
		ConfidenceScore:   0.8,
		ReasoningChain: []reasoning.RawStep{
			{Category: "assessment", Details: "patient condition matches trial target condition", Confidence: 0.9},
		},
		Conclusion: "Looks eligible.",
	}
}

func (f *fakeReasoner) GenerateExplanation(result reasoning.MedicalReasoningResult, audience reasoning.Audience) string {
	return "explanation"
}

func testServer(t *testing.T) *Server {
	t.Helper()
	trial := domain.Trial{
		NCTID: "NCT00000001", Title: "Breast Cancer Treatment Trial",
		BriefSummary: "A treatment trial for breast cancer patients.",
		Status:       domain.StatusRecruiting,
		Conditions:   []string{"breast cancer"},
		Locations:    []domain.TrialLocation{{Facility: "City Hospital", City: "Boston", State: "MA"}},
	}
	logger := telemetry.New(telemetry.Config{Level: "error", Format: "text"})
	orch := orchestrator.New(nil, &fakeRegistry{trials: []domain.Trial{trial}}, &fakeReasoner{}, logger, orchestrator.Config{ModelVersion: "llama3.1-8b"})
	return NewServer(":0", orch, logger)
}

func TestHandleMatchReturnsShapedResponse(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{
		"patient_data": map[string]interface{}{"conditions": []string{"breast cancer"}},
		"max_results":  3,
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/match", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp matchResponseWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "NCT00000001", resp.Matches[0].NCTID)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestHandleMatchRejectsEmptyPatientData(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{"patient_data": map[string]interface{}{}})

	req := httptest.NewRequest(http.MethodPost, "/v1/match", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealthReportsIndexAndWiring(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["registry_configured"])
}
