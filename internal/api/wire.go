// Package api exposes the matching pipeline over HTTP: a single
// POST /v1/match endpoint plus a liveness probe, wired with gin the way
// the rest of this codebase's sibling services are (SPEC_FULL.md §6).
package api

import "github.com/medmatch/matching-core/internal/domain"

// matchRequestWire is the inbound JSON body for POST /v1/match
// (spec.md §6).
type matchRequestWire struct {
	PatientData             domain.PatientInput `json:"patient_data" binding:"required"`
	MaxResults              int                 `json:"max_results"`
	MinConfidence           *float64            `json:"min_confidence"`
	EnableAdvancedReasoning *bool               `json:"enable_advanced_reasoning"`
}

type locationWire struct {
	Facility string   `json:"facility"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Country  string   `json:"country,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

type contactWire struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type reasoningWire struct {
	ChainOfThought        []string `json:"chain_of_thought"`
	MedicalAnalysis       string   `json:"medical_analysis"`
	EligibilityAssessment string   `json:"eligibility_assessment"`
	ContraindicationCheck string   `json:"contraindication_check"`
	ConfidenceFactors     []string `json:"confidence_factors"`
	ExcludedFactors       []string `json:"excluded_factors"`
}

type matchWire struct {
	ID              string        `json:"id"`
	NCTID           string        `json:"nctId"`
	Title           string        `json:"title"`
	MatchScore      int           `json:"matchScore"`
	ConfidenceScore float64       `json:"confidence_score"`
	Location        locationWire  `json:"location"`
	Explanation     string        `json:"explanation"`
	Contact         contactWire   `json:"contact"`
	Eligibility     []string      `json:"eligibility"`
	Phase           string        `json:"phase"`
	Status          string        `json:"status"`
	Conditions      []string      `json:"conditions"`
	Reasoning       reasoningWire `json:"reasoning"`
}

type extractedEntitiesWire struct {
	Conditions []string `json:"conditions"`
	Stage      string   `json:"stage"`
	Biomarkers []string `json:"biomarkers"`
	Location   string   `json:"location"`
}

type processingMetadataWire struct {
	DataSource       string `json:"data_source"`
	ReasoningEnabled bool   `json:"reasoning_enabled"`
	ModelUsed        string `json:"model_used"`
	InferenceTimeMs  int64  `json:"inference_time_ms"`
	RealTrials       bool   `json:"real_trials"`
	FallbackReason   string `json:"fallback_reason,omitempty"`
}

type llmFeaturesWire struct {
	ModelVersion   string `json:"model_version"`
	ReasoningDepth string `json:"reasoning_depth"`
}

type matchResponseWire struct {
	RequestID          string                 `json:"request_id"`
	PatientID          string                 `json:"patient_id"`
	Matches            []matchWire            `json:"matches"`
	ProcessingTimeMs   int64                  `json:"processing_time_ms"`
	Timestamp          string                 `json:"timestamp"`
	ExtractedEntities  extractedEntitiesWire  `json:"extracted_entities"`
	ProcessingMetadata processingMetadataWire `json:"processing_metadata"`
	LLMFeatures        *llmFeaturesWire       `json:"llm_features,omitempty"`
	Message            string                 `json:"message,omitempty"`
}
