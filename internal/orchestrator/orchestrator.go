package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/medmatch/matching-core/internal/telemetry"
)

// Config configures an Orchestrator.
type Config struct {
	MaxCandidatesMultiplier int // candidates pulled per requested result, default 3
	RankConcurrency         int // bounded fan-out width for step 5, default 5
	ModelVersion            string
}

// Orchestrator is C6: the pipeline that turns a patient input into a
// ranked list of trial matches (spec.md §4.6).
type Orchestrator struct {
	index    SearchEngine
	registry RegistryClient
	reasoner Reasoner
	logger   *telemetry.Logger
	cfg      Config
}

// New wires an Orchestrator from its dependencies. index and registry
// may each be nil, but not both — retrieval has no data source left to
// fall back to if neither is configured.
func New(index SearchEngine, registry RegistryClient, reasoner Reasoner, logger *telemetry.Logger, cfg Config) *Orchestrator {
	if cfg.MaxCandidatesMultiplier <= 0 {
		cfg.MaxCandidatesMultiplier = 3
	}
	if cfg.RankConcurrency <= 0 {
		cfg.RankConcurrency = 5
	}
	return &Orchestrator{index: index, registry: registry, reasoner: reasoner, logger: logger, cfg: cfg}
}

// Match runs the full seven-step pipeline (spec.md §4.6).
func (o *Orchestrator) Match(ctx context.Context, req Request) Response {
	start := time.Now()
	req.normalize()

	requestID := fmt.Sprintf("req_%d", time.Now().UnixNano())
	patientID := req.Patient.AnonymizedID()
	var timings StageTimings

	// Step 1: normalize input.
	stepStart := time.Now()
	profile := buildPatientProfile(req.Patient)

	extractedSummary := ExtractedEntitiesSummary{
		Location: locationString(req.Patient.Location),
	}
	if profile.Extracted != nil {
		extractedSummary.Conditions = profile.Extracted.Conditions
		biomarkers := make([]string, 0, len(req.Patient.Biomarkers))
		for name := range req.Patient.Biomarkers {
			biomarkers = append(biomarkers, name)
		}
		extractedSummary.Biomarkers = biomarkers
	}
	extractedSummary.Stage = extractStage(patientFreeText(profile))
	timings.NormalizeMs = time.Since(stepStart).Milliseconds()

	// Step 2: build candidate query.
	stepStart = time.Now()
	query := buildCandidateQuery(profile)
	maxCandidates := req.MaxResults * o.cfg.MaxCandidatesMultiplier

	// Step 3: retrieve candidates.
	candidates, meta := o.retrieveCandidates(ctx, query, maxCandidates)
	meta.ReasoningEnabled = req.EnableAdvancedReasoning
	meta.ModelUsed = o.cfg.ModelVersion
	timings.RetrieveMs = time.Since(stepStart).Milliseconds()

	if len(candidates) == 0 {
		o.logTimings(ctx, requestID, timings)
		return o.emptyResponse(requestID, patientID, start, extractedSummary, meta)
	}

	// Step 4: relevance filter.
	stepStart = time.Now()
	relevant := filterByRelevance(profile, candidates, maxCandidates)
	timings.RelevanceMs = time.Since(stepStart).Milliseconds()
	if len(relevant) == 0 {
		meta.FallbackReason = "no_candidates_passed_relevance_filter"
		o.logTimings(ctx, requestID, timings)
		return o.emptyResponse(requestID, patientID, start, extractedSummary, meta)
	}

	// Step 5: per-candidate LLM scoring, bounded concurrent fan-out.
	reasoningStart := time.Now()
	results := o.scoreCandidates(ctx, profile, relevant, req.EnableAdvancedReasoning, patientID)
	meta.InferenceTimeMs = time.Since(reasoningStart).Milliseconds()
	timings.ReasoningMs = meta.InferenceTimeMs

	// Step 6: sort, filter by min_confidence, truncate.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].result.ConfidenceScore > results[j].result.ConfidenceScore
	})

	kept := make([]scoredMatch, 0, len(results))
	for _, r := range results {
		if r.result.ConfidenceScore >= *req.MinConfidence {
			kept = append(kept, r)
		}
	}
	if len(kept) > req.MaxResults {
		kept = kept[:req.MaxResults]
	}

	if len(kept) == 0 {
		meta.FallbackReason = "no_matches_met_min_confidence"
		o.logTimings(ctx, requestID, timings)
		return o.emptyResponse(requestID, patientID, start, extractedSummary, meta)
	}

	// Step 7: shape response.
	stepStart = time.Now()
	matches := make([]Match, 0, len(kept))
	for _, r := range kept {
		matches = append(matches, shapeMatch(r))
	}
	timings.ShapeMs = time.Since(stepStart).Milliseconds()
	o.logTimings(ctx, requestID, timings)

	resp := Response{
		RequestID:          requestID,
		PatientID:          patientID,
		Matches:            matches,
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		ExtractedEntities:  extractedSummary,
		ProcessingMetadata: meta,
	}
	if req.EnableAdvancedReasoning {
		resp.LLMFeatures = &LLMFeatures{ModelVersion: o.cfg.ModelVersion, ReasoningDepth: "advanced"}
	}
	return resp
}

// scoredMatch bundles a trial, its mapped domain.MatchResult, and the
// raw reasoning result the wire-shaping step still needs (chain_of_thought
// excerpts aren't preserved on domain.MatchResult).
type scoredMatch struct {
	trial  domain.Trial
	result domain.MatchResult
	raw    reasoning.MedicalReasoningResult
}

// scoreCandidates runs AssessEligibility concurrently across candidates,
// bounded by cfg.RankConcurrency, preserving input order in the output
// slice (spec.md §4.6 step 5; same fan-out shape as
// pkg/llmclient.BatchAnalyze and reasoning.Service.RankTrialMatches).
func (o *Orchestrator) scoreCandidates(ctx context.Context, profile domain.PatientProfile, trials []domain.Trial, detailed bool, patientID string) []scoredMatch {
	out := make([]scoredMatch, len(trials))
	sem := make(chan struct{}, o.cfg.RankConcurrency)
	var wg sync.WaitGroup

	for i, trial := range trials {
		wg.Add(1)
		go func(i int, trial domain.Trial) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw := o.reasoner.AssessEligibility(ctx, profile, trial, detailed)
			mappedChain := buildReasoningChain(raw.ReasoningChain)
			overallScore := domain.ComputeOverallScore(mappedChain)
			status := raw.EligibilityStatus
			if domain.HasDisqualifyingFailure(mappedChain) {
				status = domain.MatchIneligible
			}

			out[i] = scoredMatch{
				trial: trial,
				raw:   raw,
				result: domain.MatchResult{
					MatchID:         fmt.Sprintf("%s-%s", patientID, trial.NCTID),
					PatientIDOrAnon: patientID,
					TrialNCTID:      trial.NCTID,
					OverallScore:    overallScore,
					ConfidenceScore: raw.ConfidenceScore,
					MatchStatus:     status,
					ReasoningChain:  mappedChain,
					Explanation:     o.reasoner.GenerateExplanation(raw, reasoning.AudiencePatient),
					NextSteps:       nextStepsFor(status),
					AIModelVersion:  o.cfg.ModelVersion,
				},
			}
		}(i, trial)
	}
	wg.Wait()
	return out
}

func shapeMatch(m scoredMatch) Match {
	location, contact := buildLocationAndContact(m.trial)
	return Match{
		ID:              m.result.MatchID,
		NCTID:           m.trial.NCTID,
		Title:           m.trial.Title,
		MatchScore:      matchScoreFromConfidence(m.result.ConfidenceScore),
		ConfidenceScore: m.result.ConfidenceScore,
		Location:        location,
		Explanation:     m.result.Explanation,
		Contact:         contact,
		Eligibility:     m.trial.Eligibility.Inclusion,
		Phase:           string(m.trial.Phase),
		Status:          string(m.trial.Status),
		Conditions:      m.trial.Conditions,
		Reasoning:       buildMatchReasoning(m.raw, m.result.ReasoningChain),
	}
}

// logTimings emits per-stage durations at debug level, for callers
// diagnosing slow matches without needing them on the wire response.
func (o *Orchestrator) logTimings(ctx context.Context, requestID string, t StageTimings) {
	o.logger.WithContext(ctx).WithFields(o.logger.Fields(map[string]interface{}{
		"request_id":   requestID,
		"normalize_ms": t.NormalizeMs,
		"retrieve_ms":  t.RetrieveMs,
		"relevance_ms": t.RelevanceMs,
		"reasoning_ms": t.ReasoningMs,
		"shape_ms":     t.ShapeMs,
	})).Debug("match stage timings")
}

// emptyResponse shapes the zero-match response, with the exact message
// text spec.md §4.6.2 requires.
func (o *Orchestrator) emptyResponse(requestID, patientID string, start time.Time, entities ExtractedEntitiesSummary, meta ProcessingMetadata) Response {
	return Response{
		RequestID:          requestID,
		PatientID:          patientID,
		Matches:            []Match{},
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		ExtractedEntities:  entities,
		ProcessingMetadata: meta,
		Message:            "No matching clinical trials found for the given criteria.",
	}
}
