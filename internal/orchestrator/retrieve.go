package orchestrator

import (
	"context"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/search"
)

var fallbackCancerTypes = []string{
	"breast cancer", "lung cancer", "colorectal cancer", "prostate cancer",
	"pancreatic cancer", "melanoma", "leukemia", "lymphoma", "ovarian cancer",
}

var fallbackGeneralConditions = []string{
	"diabetes", "hypertension", "asthma", "arthritis", "depression",
	"heart disease", "kidney disease", "obesity",
}

// buildCandidateQuery is step 2 of Match (spec.md §4.6): join the
// patient's primary conditions and biomarkers into a search query,
// falling back to a narrower keyword scan of the free text, and
// finally to "cancer" so retrieval is never attempted with an empty
// query.
func buildCandidateQuery(profile domain.PatientProfile) string {
	terms := make([]string, 0, len(profile.PrimaryConditions)+len(profile.Biomarkers))
	terms = append(terms, profile.PrimaryConditions...)
	terms = append(terms, profile.Biomarkers...)
	if len(terms) > 0 {
		return strings.Join(terms, " ")
	}

	freeText := ""
	if profile.Raw != nil {
		freeText = profile.Raw.FreeText()
	}
	if fallback := fallbackKeywords(freeText); len(fallback) > 0 {
		return strings.Join(fallback, " ")
	}

	return "cancer"
}

func fallbackKeywords(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, term := range fallbackCancerTypes {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	for _, term := range fallbackGeneralConditions {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// retrieveCandidates is step 3 of Match (spec.md §4.6): pull up to
// maxCandidates trials from whichever data source is configured,
// falling back to the alternate source on failure or an empty result,
// and never fabricating trials when both sources come up empty.
func (o *Orchestrator) retrieveCandidates(ctx context.Context, query string, maxCandidates int) ([]domain.Trial, ProcessingMetadata) {
	meta := ProcessingMetadata{DataSource: "none"}

	if o.index != nil && o.index.Size() > 0 {
		results := o.index.Search(search.Query{
			Text:  query,
			Mode:  domain.SearchHybrid,
			Limit: maxCandidates,
		})
		if len(results.Results) > 0 {
			meta.DataSource = "index"
			meta.RealTrials = true
			return trialsFromResults(o.index, results), meta
		}
	}

	if o.registry != nil {
		trials, err := o.registry.SearchForPatient(ctx, query, maxCandidates)
		if err != nil {
			o.logger.WithContext(ctx).WithFields(o.logger.Fields(map[string]interface{}{
				"error": err.Error(),
			})).Warn("registry retrieval failed")
			meta.FallbackReason = "registry_error: " + err.Error()
			return nil, meta
		}
		if len(trials) > 0 {
			meta.DataSource = "registry"
			meta.RealTrials = true
			return trials, meta
		}
		meta.FallbackReason = "no_candidates_from_registry"
		return nil, meta
	}

	meta.FallbackReason = "no_data_source_configured"
	return nil, meta
}

// trialsFromResults re-fetches the full domain.Trial for each search
// result from the index, since search.Result carries only the fields
// needed for ranking display.
func trialsFromResults(idx SearchEngine, results search.Results) []domain.Trial {
	out := make([]domain.Trial, 0, len(results.Results))
	for _, r := range results.Results {
		if t, found := idx.Lookup(r.TrialID); found {
			out = append(out, t)
			continue
		}
		out = append(out, domain.Trial{
			NCTID:        r.NCTID,
			Title:        r.Title,
			BriefSummary: r.BriefSummary,
			Conditions:   r.Conditions,
		})
	}
	return out
}
