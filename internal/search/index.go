package search

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/medmatch/matching-core/internal/domain"
)

// IndexedTrial is the engine's per-entry state: the trial itself plus
// the derived fields C4 needs for ranking (spec.md §4.4).
type IndexedTrial struct {
	Trial     domain.Trial
	SearchText string
	Embedding  []float64
	Keywords   []string
	IndexedAt  time.Time
}

var (
	diabetesPattern = regexp.MustCompile(`(?i)diabet\w*`)
	cancerPattern   = regexp.MustCompile(`(?i)cancer\w*`)
	cardioPattern   = regexp.MustCompile(`(?i)cardio\w*`)
	therapyPattern  = regexp.MustCompile(`(?i)therap\w*`)
	nctPattern      = regexp.MustCompile(`(?i)nct\d+`)
	typeNumPattern  = regexp.MustCompile(`(?i)type [12]`)
	properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)
)

// buildSearchText concatenates the fields C4 indexes for lexical and
// embedding purposes: title, summary, conditions, interventions,
// purpose, phase, and parsed inclusion/exclusion lines (spec.md §4.4).
func buildSearchText(t domain.Trial) string {
	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteString(" ")
	b.WriteString(t.BriefSummary)
	b.WriteString(" ")
	b.WriteString(strings.Join(t.Conditions, " "))
	b.WriteString(" ")
	b.WriteString(strings.Join(t.Interventions, " "))
	b.WriteString(" ")
	b.WriteString(string(t.PrimaryPurpose))
	b.WriteString(" ")
	b.WriteString(string(t.Phase))
	b.WriteString(" ")
	b.WriteString(strings.Join(t.Eligibility.Inclusion, " "))
	b.WriteString(" ")
	b.WriteString(strings.Join(t.Eligibility.Exclusion, " "))
	return b.String()
}

// extractKeywords extracts C4's index keywords: medical-vocabulary
// membership, a closed set of regex patterns, and capitalized proper
// nouns (spec.md §4.4).
func extractKeywords(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(kw string) {
		kw = strings.ToLower(kw)
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		out = append(out, kw)
	}

	lower := strings.ToLower(text)
	for _, term := range keywordVocabulary {
		if strings.Contains(lower, term) {
			add(term)
		}
	}

	for _, p := range []*regexp.Regexp{diabetesPattern, cancerPattern, cardioPattern, therapyPattern, nctPattern, typeNumPattern} {
		for _, m := range p.FindAllString(text, -1) {
			add(m)
		}
	}

	for _, m := range properNounPattern.FindAllString(text, -1) {
		add(m)
	}

	return out
}

// Index is C4, the hybrid search engine's in-memory trial corpus. It is
// a process-wide, read-mostly map guarded by a single RWMutex: readers
// (Search) take the read lock, writers (IndexTrial/BulkIndex/Remove/Clear) take the
// write lock (spec.md §4.4, concurrency model §5).
type Index struct {
	mu      sync.RWMutex
	entries map[string]*IndexedTrial
}

// NewIndex returns an empty index ready for use.
func NewIndex() *Index {
	return &Index{entries: make(map[string]*IndexedTrial)}
}

// IndexTrial builds the derived fields for trial and replaces any
// existing entry with the same id.
func (idx *Index) IndexTrial(t domain.Trial) error {
	if err := t.Validate(); err != nil {
		return err
	}

	searchText := buildSearchText(t)
	entry := &IndexedTrial{
		Trial:      t,
		SearchText: searchText,
		Embedding:  embed(searchText),
		Keywords:   extractKeywords(searchText),
		IndexedAt:  time.Now(),
	}

	idx.mu.Lock()
	idx.entries[t.NCTID] = entry
	idx.mu.Unlock()
	return nil
}

// BulkIndex indexes each trial in trials, returning the count of
// successes; a failure on one trial does not abort the remainder.
func (idx *Index) BulkIndex(trials []domain.Trial) int {
	successes := 0
	for _, t := range trials {
		if err := idx.IndexTrial(t); err == nil {
			successes++
		}
	}
	return successes
}

// Remove deletes the entry for id, if present.
func (idx *Index) Remove(id string) {
	idx.mu.Lock()
	delete(idx.entries, id)
	idx.mu.Unlock()
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.mu.Lock()
	idx.entries = make(map[string]*IndexedTrial)
	idx.mu.Unlock()
}

// Size reports the number of indexed trials.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// snapshot returns a stable slice of the indexed entries for a single
// search pass, taken under the read lock so concurrent writers cannot
// mutate the map mid-scan.
func (idx *Index) snapshot() []*IndexedTrial {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]*IndexedTrial, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	return out
}
