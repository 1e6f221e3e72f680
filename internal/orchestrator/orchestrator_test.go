package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/medmatch/matching-core/internal/search"
	"github.com/medmatch/matching-core/internal/telemetry"
)

func floatPtr(v float64) *float64 { return &v }

type fakeRegistry struct {
	trials []domain.Trial
	err    error
}

func (f *fakeRegistry) SearchForPatient(ctx context.Context, patientExcerpt string, maxResults int) ([]domain.Trial, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trials, nil
}

// fakeReasoner returns a canned assessment keyed by trial NCT id, so
// tests can control confidence and eligibility per candidate without an
// HTTP round trip.
type fakeReasoner struct {
	byTrial map[string]reasoning.MedicalReasoningResult
	def     reasoning.MedicalReasoningResult
}

func (f *fakeReasoner) AssessEligibility(ctx context.Context, profile domain.PatientProfile, trial domain.Trial, detailed bool) reasoning.MedicalReasoningResult {
	if r, ok := f.byTrial[trial.NCTID]; ok {
		return r
	}
	return f.def
}

func (f *fakeReasoner) GenerateExplanation(result reasoning.MedicalReasoningResult, audience reasoning.Audience) string {
	return "explanation: " + string(result.EligibilityStatus)
}

func testLogger() *telemetry.Logger {
	return telemetry.New(telemetry.Config{Level: "error", Format: "text"})
}

func eligibleResult(confidence float64) reasoning.MedicalReasoningResult {
	return reasoning.MedicalReasoningResult{
		EligibilityStatus: domain.MatchEligible,
		ConfidenceScore:   confidence,
		ReasoningChain: []reasoning.RawStep{
			{Category: "assessment", Details: "patient age and demographics are within range", Confidence: 0.9},
			{Category: "analysis", Details: "primary condition matches trial target condition", Confidence: 0.9},
		},
		Conclusion: "Patient appears eligible.",
	}
}

func sampleTrial(id, title string, status domain.TrialStatus) domain.Trial {
	return domain.Trial{
		NCTID:        id,
		Title:        title,
		BriefSummary: "A treatment trial.",
		Status:       status,
		Conditions:   []string{"breast cancer"},
		Phase:        domain.Phase2,
		Eligibility: domain.EligibilityCriteria{
			Inclusion: []string{"Age 18 or older", "Confirmed diagnosis of breast cancer"},
		},
		Locations: []domain.TrialLocation{
			{Facility: "University Medical Center", City: "Boston", State: "MA", Country: "USA",
				Contact: &domain.Contact{Name: "Dr. Lee", Phone: "555-0100", Email: "trials@example.org"}},
		},
	}
}

func TestMatchReturnsEmptyMessageWhenNoCandidates(t *testing.T) {
	o := New(nil, &fakeRegistry{trials: nil}, &fakeReasoner{}, testLogger(), Config{})
	resp := o.Match(context.Background(), Request{Patient: domain.PatientInput{MedicalQuery: "breast cancer"}})

	assert.Empty(t, resp.Matches)
	assert.Equal(t, "No matching clinical trials found for the given criteria.", resp.Message)
	assert.Equal(t, "none", resp.ProcessingMetadata.DataSource)
}

func TestMatchShapesSuccessfulResponse(t *testing.T) {
	registry := &fakeRegistry{trials: []domain.Trial{
		sampleTrial("NCT00000001", "Breast Cancer Treatment Trial", domain.StatusRecruiting),
	}}
	reasoner := &fakeReasoner{def: eligibleResult(0.85)}
	o := New(nil, registry, reasoner, testLogger(), Config{ModelVersion: "llama3.1-8b"})

	resp := o.Match(context.Background(), Request{
		Patient:                domain.PatientInput{Conditions: []string{"breast cancer"}},
		MaxResults:              3,
		MinConfidence:           floatPtr(0.5),
		EnableAdvancedReasoning: true,
	})

	require.Len(t, resp.Matches, 1)
	match := resp.Matches[0]
	assert.Equal(t, "NCT00000001", match.NCTID)
	assert.Equal(t, "University Medical Center", match.Location.Facility)
	assert.Equal(t, "Dr. Lee", match.Contact.Name)
	assert.Equal(t, "phase-2", match.Phase)
	assert.Equal(t, "recruiting", match.Status)
	assert.InDelta(t, 0.85, match.ConfidenceScore, 0.0001)
	assert.NotEmpty(t, match.Reasoning.ChainOfThought)
	assert.NotNil(t, resp.LLMFeatures)
	assert.Equal(t, "advanced", resp.LLMFeatures.ReasoningDepth)
	assert.True(t, resp.ProcessingMetadata.RealTrials)
}

func TestMatchFiltersBelowMinConfidence(t *testing.T) {
	registry := &fakeRegistry{trials: []domain.Trial{
		sampleTrial("NCT00000001", "Breast Cancer Treatment Trial", domain.StatusRecruiting),
	}}
	reasoner := &fakeReasoner{def: eligibleResult(0.2)}
	o := New(nil, registry, reasoner, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{
		Patient:       domain.PatientInput{Conditions: []string{"breast cancer"}},
		MinConfidence: floatPtr(0.5),
	})

	assert.Empty(t, resp.Matches)
	assert.Equal(t, "no_matches_met_min_confidence", resp.ProcessingMetadata.FallbackReason)
}

func TestMatchZeroMinConfidenceKeepsLowScoringCandidates(t *testing.T) {
	registry := &fakeRegistry{trials: []domain.Trial{
		sampleTrial("NCT00000001", "Breast Cancer Treatment Trial", domain.StatusRecruiting),
	}}
	reasoner := &fakeReasoner{def: eligibleResult(0.1)}
	o := New(nil, registry, reasoner, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{
		Patient:       domain.PatientInput{Conditions: []string{"breast cancer"}},
		MinConfidence: floatPtr(0.0),
	})

	require.Len(t, resp.Matches, 1)
}

func TestMatchOrdersByConfidenceDescendingAndTruncates(t *testing.T) {
	trials := []domain.Trial{
		sampleTrial("NCT00000001", "Breast Cancer Treatment Trial A", domain.StatusRecruiting),
		sampleTrial("NCT00000002", "Breast Cancer Treatment Trial B", domain.StatusRecruiting),
		sampleTrial("NCT00000003", "Breast Cancer Treatment Trial C", domain.StatusRecruiting),
	}
	registry := &fakeRegistry{trials: trials}
	reasoner := &fakeReasoner{byTrial: map[string]reasoning.MedicalReasoningResult{
		"NCT00000001": eligibleResult(0.6),
		"NCT00000002": eligibleResult(0.95),
		"NCT00000003": eligibleResult(0.75),
	}}
	o := New(nil, registry, reasoner, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{
		Patient:       domain.PatientInput{Conditions: []string{"breast cancer"}},
		MaxResults:    2,
		MinConfidence: floatPtr(0.5),
	})

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "NCT00000002", resp.Matches[0].NCTID)
	assert.Equal(t, "NCT00000003", resp.Matches[1].NCTID)
}

func TestMatchFallsBackToRegistryWhenIndexEmpty(t *testing.T) {
	idx := search.NewIndex()
	engine := search.NewEngine(idx)
	registry := &fakeRegistry{trials: []domain.Trial{
		sampleTrial("NCT00000001", "Breast Cancer Treatment Trial", domain.StatusRecruiting),
	}}
	reasoner := &fakeReasoner{def: eligibleResult(0.8)}
	o := New(engine, registry, reasoner, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{Patient: domain.PatientInput{Conditions: []string{"breast cancer"}}})

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "registry", resp.ProcessingMetadata.DataSource)
}

func TestMatchUsesIndexedTrialsWhenPresent(t *testing.T) {
	idx := search.NewIndex()
	trial := sampleTrial("NCT00000001", "Breast Cancer Treatment Trial", domain.StatusRecruiting)
	require.NoError(t, idx.IndexTrial(trial))
	engine := search.NewEngine(idx)
	reasoner := &fakeReasoner{def: eligibleResult(0.8)}
	o := New(engine, &fakeRegistry{}, reasoner, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{Patient: domain.PatientInput{Conditions: []string{"breast cancer"}}})

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "index", resp.ProcessingMetadata.DataSource)
}

func TestMatchRegistryErrorProducesEmptyResponseWithFallbackReason(t *testing.T) {
	registry := &fakeRegistry{err: &domain.ClientError{Kind: domain.ErrKindNetwork, Message: "boom"}}
	o := New(nil, registry, &fakeReasoner{}, testLogger(), Config{})

	resp := o.Match(context.Background(), Request{Patient: domain.PatientInput{Conditions: []string{"breast cancer"}}})

	assert.Empty(t, resp.Matches)
	assert.Contains(t, resp.ProcessingMetadata.FallbackReason, "registry_error")
}
