package reasoning

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/telemetry"
	"github.com/medmatch/matching-core/pkg/llmclient"
)

// Config configures a Service.
type Config struct {
	ModelVersion       string
	MaxTokens          int // default 1500, spec.md §4.5 step 3
	MaxRankConcurrency int // default 5
}

// Service is C5, the LLM reasoning service.
type Service struct {
	llm         *llmclient.Client
	cfg         Config
	cache       *assessmentCache
	logger      *telemetry.Logger
	rankSemSize int
}

// New builds a Service from an already-constructed llmclient.Client and
// cache.
func New(llm *llmclient.Client, cfg Config, cache *assessmentCache, logger *telemetry.Logger) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.MaxRankConcurrency <= 0 {
		cfg.MaxRankConcurrency = 5
	}
	return &Service{llm: llm, cfg: cfg, cache: cache, logger: logger, rankSemSize: cfg.MaxRankConcurrency}
}

// NewCache builds the two-tier assessment cache from domain.CacheConfig
// fields, disabled unless enabled is true (spec.md §5, §11).
func NewCache(enabled bool, memorySize int, ttl time.Duration, redisURL string, logger *telemetry.Logger) *assessmentCache {
	return newAssessmentCache(enabled, memorySize, ttl, redisURL, logger)
}

// AssessEligibility is C5's primary operation (spec.md §4.5).
func (s *Service) AssessEligibility(ctx context.Context, profile domain.PatientProfile, trial domain.Trial, includeDetailedReasoning bool) MedicalReasoningResult {
	summary := patientSummary(profile)
	key := cacheKey(summary, trial.NCTID, s.cfg.ModelVersion)

	if cached, ok := s.cache.get(ctx, key); ok {
		return cached
	}

	prompt := formatEligibilityPrompt(summary, trial)
	completion, err := s.llm.ChatCompletion(ctx, []llmclient.Message{
		{Role: "system", Content: eligibilitySystemPrompt},
		{Role: "user", Content: prompt},
	}, s.cfg.MaxTokens, 0.1)

	if err != nil {
		s.logger.WithContext(ctx).WithFields(s.logger.Fields(map[string]interface{}{
			"trial_nct_id": trial.NCTID, "error": err.Error(),
		})).Warn("eligibility assessment failed, returning safe fallback")
		return safeFallback(err.Error())
	}

	result := parseResponse(completion.Content)
	if !includeDetailedReasoning {
		result.ReasoningChain = nil
	}

	s.cache.set(ctx, key, result)
	return result
}

// CheckContraindications scans a proposed intervention against the
// patient profile (spec.md §4.5).
func (s *Service) CheckContraindications(ctx context.Context, profile domain.PatientProfile, interventionData string) ([]Contraindication, error) {
	summary := patientSummary(profile)
	completion, err := s.llm.ChatCompletion(ctx, []llmclient.Message{
		{Role: "system", Content: contraindicationSystemPrompt},
		{Role: "user", Content: formatContraindicationPrompt(summary, interventionData)},
	}, s.cfg.MaxTokens, 0.1)
	if err != nil {
		return nil, fmt.Errorf("check contraindications: %w", err)
	}
	return parseContraindicationLines(completion.Content), nil
}

var contraindicationLineFieldPattern = regexp.MustCompile(`(?i)type\s*:\s*([^|]+)\|\s*risk\s*:\s*([^|]+)\|\s*description\s*:\s*([^|]+)\|\s*recommendation\s*:\s*(.+)`)

func parseContraindicationLines(text string) []Contraindication {
	var out []Contraindication
	for _, line := range strings.Split(text, "\n") {
		m := contraindicationLineFieldPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, Contraindication{
			Type:           strings.TrimSpace(m[1]),
			RiskLevel:      normalizeRiskLevel(m[2]),
			Description:    strings.TrimSpace(m[3]),
			Recommendation: strings.TrimSpace(m[4]),
		})
	}
	return out
}

func normalizeRiskLevel(raw string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// RankTrialMatches scores every candidate trial against the patient
// profile and returns them ordered by compatibility score descending,
// truncated to limit. Per-trial assessments run concurrently, bounded
// by the same semaphore shape as pkg/llmclient.BatchAnalyze.
func (s *Service) RankTrialMatches(ctx context.Context, profile domain.PatientProfile, trials []domain.Trial, limit int) []RankedTrial {
	results := make([]RankedTrial, len(trials))
	sem := make(chan struct{}, s.rankSemSize)
	var wg sync.WaitGroup

	for i, trial := range trials {
		wg.Add(1)
		go func(i int, trial domain.Trial) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			assessment := s.AssessEligibility(ctx, profile, trial, true)
			results[i] = RankedTrial{
				Trial:              trial,
				CompatibilityScore: assessment.ConfidenceScore,
				Reasoning:          assessment.Conclusion,
				KeyFactors:         passingCategories(assessment.ReasoningChain),
				Concerns:           assessment.Contraindications,
			}
		}(i, trial)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompatibilityScore > results[j].CompatibilityScore
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func passingCategories(chain []RawStep) []string {
	out := make([]string, 0, len(chain))
	for _, step := range chain {
		out = append(out, step.Category)
	}
	return out
}

// GenerateExplanation renders reasoning into audience-specific wording;
// an unrecognized audience falls back to a deterministic string
// (spec.md §4.5).
func (s *Service) GenerateExplanation(result MedicalReasoningResult, audience Audience) string {
	switch audience {
	case AudiencePatient:
		return explainForPatient(result)
	case AudiencePhysician:
		return explainForPhysician(result)
	case AudienceResearcher:
		return explainForResearcher(result)
	default:
		return deterministicExplanationFallback(result)
	}
}

func explainForPatient(r MedicalReasoningResult) string {
	switch r.EligibilityStatus {
	case domain.MatchEligible:
		return "Based on the information provided, you may be eligible for this trial. " + r.Conclusion
	case domain.MatchIneligible:
		return "Based on the information provided, this trial may not be a fit for you right now. " + r.Conclusion
	default:
		return "This trial needs a closer look by your care team before we can say whether it's a fit. " + r.Conclusion
	}
}

func explainForPhysician(r MedicalReasoningResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eligibility: %s (confidence %.0f%%). ", r.EligibilityStatus, r.ConfidenceScore*100)
	if len(r.Contraindications) > 0 {
		fmt.Fprintf(&b, "Contraindications noted: %s. ", strings.Join(r.Contraindications, "; "))
	}
	b.WriteString(r.Conclusion)
	return b.String()
}

func explainForResearcher(r MedicalReasoningResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status=%s confidence=%.2f steps=%d contraindications=%d recommendations=%d. ",
		r.EligibilityStatus, r.ConfidenceScore, len(r.ReasoningChain), len(r.Contraindications), len(r.Recommendations))
	b.WriteString(r.Conclusion)
	return b.String()
}

func deterministicExplanationFallback(r MedicalReasoningResult) string {
	return fmt.Sprintf("Eligibility determination: %s.", r.EligibilityStatus)
}
