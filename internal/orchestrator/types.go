// Package orchestrator implements C6, the matching orchestrator: the
// seven-step pipeline that turns a patient input into a ranked list of
// trial matches by composing C1 (registry), C3 (NLP), C4 (search), and
// C5 (LLM reasoning).
package orchestrator

import (
	"context"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/medmatch/matching-core/internal/search"
)

// RegistryClient is the subset of pkg/registry.Client the orchestrator
// depends on, narrowed to an interface so tests can substitute a fake.
type RegistryClient interface {
	SearchForPatient(ctx context.Context, patientExcerpt string, maxResults int) ([]domain.Trial, error)
}

// SearchEngine is the subset of internal/search.Engine the orchestrator
// depends on.
type SearchEngine interface {
	Search(q search.Query) search.Results
	Size() int
	Lookup(nctID string) (domain.Trial, bool)
}

// Reasoner is the subset of internal/reasoning.Service the orchestrator
// depends on.
type Reasoner interface {
	AssessEligibility(ctx context.Context, profile domain.PatientProfile, trial domain.Trial, includeDetailedReasoning bool) reasoning.MedicalReasoningResult
	GenerateExplanation(result reasoning.MedicalReasoningResult, audience reasoning.Audience) string
}

// Request is the orchestrator's Match input, corresponding to the
// inbound request body (spec.md §6). MinConfidence is a pointer so an
// explicit 0.0 (spec.md §8: "returns up to max_results candidates
// regardless of confidence") can be told apart from an omitted field.
type Request struct {
	Patient                domain.PatientInput
	MaxResults             int      // 1-10, default 3
	MinConfidence          *float64 // 0-1, default 0.5 when nil
	EnableAdvancedReasoning bool // default true
}

// normalize applies the inbound defaults (spec.md §6).
func (r *Request) normalize() {
	if r.MaxResults <= 0 {
		r.MaxResults = 3
	}
	if r.MaxResults > 10 {
		r.MaxResults = 10
	}
	if r.MinConfidence == nil {
		def := 0.5
		r.MinConfidence = &def
	}
}

// Match is one scored trial in a Response.
type Match struct {
	ID                  string
	NCTID               string
	Title               string
	MatchScore          int // 0-100
	ConfidenceScore     float64
	Location            MatchLocation
	Explanation         string
	Contact             MatchContact
	Eligibility         []string
	Phase               string
	Status              string
	Conditions          []string
	Reasoning           MatchReasoning
}

// MatchLocation is the outbound location block for one match.
type MatchLocation struct {
	Facility string
	City     string
	State    string
	Country  string
	Distance *float64
}

// MatchContact is the outbound contact block for one match.
type MatchContact struct {
	Name  string
	Phone string
	Email string
}

// MatchReasoning is the outbound reasoning block for one match
// (spec.md §6).
type MatchReasoning struct {
	ChainOfThought         []string
	MedicalAnalysis        string
	EligibilityAssessment  string
	ContraindicationCheck  string
	ConfidenceFactors      []string
	ExcludedFactors        []string
}

// ExtractedEntitiesSummary is the outbound extracted_entities block.
type ExtractedEntitiesSummary struct {
	Conditions []string
	Stage      string
	Biomarkers []string
	Location   string
}

// ProcessingMetadata is the outbound processing_metadata block.
type ProcessingMetadata struct {
	DataSource      string
	ReasoningEnabled bool
	ModelUsed       string
	InferenceTimeMs int64
	RealTrials      bool
	FallbackReason  string
}

// LLMFeatures is the outbound llm_features block, present only when
// advanced reasoning ran.
type LLMFeatures struct {
	ModelVersion   string
	ReasoningDepth string
}

// Response is the orchestrator's Match output (spec.md §6).
type Response struct {
	RequestID          string
	PatientID          string
	Matches            []Match
	ProcessingTimeMs   int64
	Timestamp          string
	ExtractedEntities  ExtractedEntitiesSummary
	ProcessingMetadata ProcessingMetadata
	LLMFeatures        *LLMFeatures
	Message            string
}

// StageTimings records the wall-clock duration of each Match step.
// Match logs these at debug level; they are not part of the wire
// response (SPEC_FULL.md §12).
type StageTimings struct {
	NormalizeMs int64
	RetrieveMs  int64
	RelevanceMs int64
	ReasoningMs int64
	ShapeMs     int64
}

// HealthReport is the output of Orchestrator.Health (SPEC_FULL.md §12).
type HealthReport struct {
	IndexSize         int
	RegistryConfigured bool
	ReasoningConfigured bool
}
