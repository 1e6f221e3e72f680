package search

import "github.com/medmatch/matching-core/internal/domain"

// Query carries the text, filters, and pagination parameters for a
// single C4 search call (spec.md §4.4).
type Query struct {
	Text            string
	Conditions      []string
	Keywords        []string
	AgeRange        domain.AgeRequirements
	Gender          domain.GenderRequirement
	StatusFilter    []domain.TrialStatus
	LocationFilter  string
	Mode            domain.SearchMode
	Limit           int
	Offset          int
}

// Result is one scored, filtered hit returned from Search.
type Result struct {
	TrialID         string   `json:"trial_id"`
	NCTID           string   `json:"nct_id"`
	Title           string   `json:"title"`
	BriefSummary    string   `json:"brief_summary"`
	Conditions      []string `json:"conditions"`
	RelevanceScore  float64  `json:"relevance_score"`
	SimilarityScore float64  `json:"similarity_score"`
	KeywordScore    float64  `json:"keyword_score"`
	Explanation     string   `json:"explanation"`
	MatchedKeywords []string `json:"matched_keywords"`
	MatchedConcepts []string `json:"matched_concepts"`
}

// Results is the full response envelope from Search.
type Results struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
}
