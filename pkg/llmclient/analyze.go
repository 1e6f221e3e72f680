package llmclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const defaultSystemPrompt = `You are a clinical-trial-eligibility reasoning assistant. Given a sanitized patient summary and a trial's eligibility criteria, produce a structured assessment with these sections:

Assessment: per-criterion PASS/FAIL determination.
Analysis: overall compatibility percentage and supporting reasoning.
Conclusion: a recommendation and concrete next steps.`

// AnalyzePatientTrialCompatibility sanitizes patientData, formats it
// alongside trialCriteria into a single user prompt, and issues a chat
// completion. optionalSystemPrompt overrides the default reasoner role
// prompt when non-empty.
func (c *Client) AnalyzePatientTrialCompatibility(ctx context.Context, patientData, trialCriteria map[string]interface{}, optionalSystemPrompt string) (*CompletionResult, error) {
	sanitized := SanitizePatientData(patientData)

	systemPrompt := defaultSystemPrompt
	if optionalSystemPrompt != "" {
		systemPrompt = optionalSystemPrompt
	}

	userPrompt := formatCompatibilityPrompt(sanitized, trialCriteria)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	return c.ChatCompletion(ctx, messages, c.cfg.MaxTokens, 0.1)
}

func formatCompatibilityPrompt(patient, trial map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("Patient data:\n")
	writeSortedFields(&b, patient)
	b.WriteString("\nTrial eligibility criteria:\n")
	writeSortedFields(&b, trial)
	return b.String()
}

func writeSortedFields(b *strings.Builder, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %v\n", k, fields[k])
	}
}

// BatchResult is one per-trial outcome of BatchAnalyze; it carries no
// index of its own, since its position in the returned slice is the
// position of its input.
type BatchResult struct {
	Result *CompletionResult
	Err    error
}

// BatchAnalyze runs AnalyzePatientTrialCompatibility against every entry
// in trialCriteriaList, bounded by maxConcurrent concurrent in-flight
// calls, and returns results in the same order as the input (spec.md
// §4.2, §5). A per-item failure is returned as that slot's Err, never as
// a panic or a dropped element.
func (c *Client) BatchAnalyze(ctx context.Context, patientData map[string]interface{}, trialCriteriaList []map[string]interface{}, maxConcurrent int) []BatchResult {
	if maxConcurrent <= 0 {
		maxConcurrent = c.cfg.MaxConcurrent
	}

	results := make([]BatchResult, len(trialCriteriaList))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, criteria := range trialCriteriaList {
		wg.Add(1)
		go func(idx int, trialCriteria map[string]interface{}) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx] = BatchResult{Err: ctx.Err()}
				return
			}

			res, err := c.AnalyzePatientTrialCompatibility(ctx, patientData, trialCriteria, "")
			results[idx] = BatchResult{Result: res, Err: err}
		}(i, criteria)
	}

	wg.Wait()
	return results
}
