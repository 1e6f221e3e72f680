package search

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

const rrfK = 60

// semanticCandidate and lexicalCandidate hold the per-list score before
// fusion; both are computed over the same index snapshot so ranks are
// assigned consistently within a single Search call.
type semanticCandidate struct {
	entry *IndexedTrial
	score float64
}

type lexicalCandidate struct {
	entry           *IndexedTrial
	score           float64
	matchedKeywords []string
	matchedConcepts []string
}

// Engine is C4's query surface over an Index. It holds no state of its
// own beyond the index reference, so scoring is a pure function of the
// index snapshot and the query — identical inputs and identical index
// state always produce identical output (spec.md §8 determinism law).
type Engine struct {
	index *Index
}

// NewEngine wraps idx in a query engine.
func NewEngine(idx *Index) *Engine {
	return &Engine{index: idx}
}

// Size reports the number of trials in the underlying index.
func (e *Engine) Size() int {
	return e.index.Size()
}

// Lookup returns the full indexed trial for an NCT id, for callers that
// only have a Result (which carries display fields, not the full
// record) and need the rest of the trial back.
func (e *Engine) Lookup(nctID string) (domain.Trial, bool) {
	e.index.mu.RLock()
	defer e.index.mu.RUnlock()
	entry, ok := e.index.entries[nctID]
	if !ok {
		return domain.Trial{}, false
	}
	return entry.Trial, true
}

// Search is C4's sole read operation: scores the index snapshot per
// q.Mode, applies post-retrieval filters, then paginates.
func (e *Engine) Search(q Query) Results {
	snapshot := e.index.snapshot()

	queryKeywords := queryKeywords(q)

	var semantic []semanticCandidate
	var lexical []lexicalCandidate

	if q.Mode == domain.SearchSemantic || q.Mode == domain.SearchHybrid {
		semantic = scoreSemantic(snapshot, q.Text)
	}
	if q.Mode == domain.SearchLexical || q.Mode == domain.SearchHybrid || q.Mode == "" {
		lexical = scoreLexical(snapshot, queryKeywords)
	}

	var scored []Result
	switch q.Mode {
	case domain.SearchSemantic:
		scored = semanticOnlyResults(semantic)
	case domain.SearchHybrid:
		scored = fuseRRF(semantic, lexical)
	default: // lexical, or unset defaults to lexical
		scored = lexicalOnlyResults(lexical)
	}

	filtered := applyFilters(scored, snapshot, q)

	total := len(filtered)
	page := paginate(filtered, q.Offset, q.Limit)

	return Results{Results: page, TotalCount: total}
}

func queryKeywords(q Query) []string {
	kws := make([]string, 0, len(q.Keywords)+4)
	kws = append(kws, q.Keywords...)
	kws = append(kws, extractKeywords(q.Text)...)
	kws = append(kws, q.Conditions...)
	seen := make(map[string]bool, len(kws))
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// scoreSemantic computes cosine similarity against the query embedding,
// keeping only candidates above the 0.1 threshold (spec.md §4.4).
func scoreSemantic(snapshot []*IndexedTrial, text string) []semanticCandidate {
	queryVec := embed(text)
	var out []semanticCandidate
	for _, entry := range snapshot {
		sim := cosineSimilarity(queryVec, entry.Embedding)
		if sim > 0.1 {
			out = append(out, semanticCandidate{entry: entry, score: sim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].entry.Trial.NCTID < out[j].entry.Trial.NCTID
	})
	return out
}

// scoreLexical scores each candidate as matches/total_query_weight: an
// exact substring match of a query term contributes full weight (1.0),
// a medical-synonym match contributes 0.8, keeping only candidates
// above the 0.1 threshold (spec.md §4.4).
func scoreLexical(snapshot []*IndexedTrial, queryKeywords []string) []lexicalCandidate {
	if len(queryKeywords) == 0 {
		return nil
	}
	var out []lexicalCandidate
	for _, entry := range snapshot {
		text := strings.ToLower(entry.SearchText)
		var matched float64
		var matchedKeywords, matchedConcepts []string

		for _, term := range queryKeywords {
			if strings.Contains(text, term) {
				matched += 1.0
				matchedKeywords = append(matchedKeywords, term)
				continue
			}
			if syn := findSynonymMatch(text, entry.Keywords, term); syn != "" {
				matched += 0.8
				matchedConcepts = append(matchedConcepts, syn)
			}
		}

		score := matched / float64(len(queryKeywords))
		if score > 0.1 {
			out = append(out, lexicalCandidate{
				entry:           entry,
				score:           score,
				matchedKeywords: matchedKeywords,
				matchedConcepts: matchedConcepts,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].entry.Trial.NCTID < out[j].entry.Trial.NCTID
	})
	return out
}

// findSynonymMatch reports a term from the candidate's own keyword list
// that is a synonym of queryTerm, or "" if none. candidateText is not
// searched.
func findSynonymMatch(candidateText string, candidateKeywords []string, queryTerm string) string {
	for _, kw := range candidateKeywords {
		if isSynonymOf(kw, queryTerm) {
			return kw
		}
	}
	return ""
}

func semanticOnlyResults(semantic []semanticCandidate) []Result {
	out := make([]Result, 0, len(semantic))
	for _, c := range semantic {
		out = append(out, newResult(c.entry, c.score, c.score, 0, nil, nil))
	}
	return out
}

func lexicalOnlyResults(lexical []lexicalCandidate) []Result {
	out := make([]Result, 0, len(lexical))
	for _, c := range lexical {
		out = append(out, newResult(c.entry, c.score, 0, c.score, c.matchedKeywords, c.matchedConcepts))
	}
	return out
}

// fuseRRF combines independently-ranked semantic and lexical lists with
// Reciprocal Rank Fusion, constant k=60: rrf = 1/(k+rank_semantic) +
// 1/(k+rank_lexical), taking +inf for a list a trial is absent from
// (spec.md §4.4). At least one of the two ranks is always finite since
// a trial only appears here if it cleared one list's threshold.
func fuseRRF(semantic []semanticCandidate, lexical []lexicalCandidate) []Result {
	semRank := make(map[string]int, len(semantic))
	semScore := make(map[string]float64, len(semantic))
	for i, c := range semantic {
		semRank[c.entry.Trial.NCTID] = i + 1
		semScore[c.entry.Trial.NCTID] = c.score
	}

	lexRank := make(map[string]int, len(lexical))
	lexScore := make(map[string]float64, len(lexical))
	lexKeywords := make(map[string][]string, len(lexical))
	lexConcepts := make(map[string][]string, len(lexical))
	for i, c := range lexical {
		lexRank[c.entry.Trial.NCTID] = i + 1
		lexScore[c.entry.Trial.NCTID] = c.score
		lexKeywords[c.entry.Trial.NCTID] = c.matchedKeywords
		lexConcepts[c.entry.Trial.NCTID] = c.matchedConcepts
	}

	entries := make(map[string]*IndexedTrial, len(semantic)+len(lexical))
	for _, c := range semantic {
		entries[c.entry.Trial.NCTID] = c.entry
	}
	for _, c := range lexical {
		entries[c.entry.Trial.NCTID] = c.entry
	}

	type fused struct {
		id  string
		rrf float64
	}
	fusedList := make([]fused, 0, len(entries))
	for id := range entries {
		rSem := rankOrInf(semRank, id)
		rLex := rankOrInf(lexRank, id)
		rrf := rrfTerm(rSem) + rrfTerm(rLex)
		fusedList = append(fusedList, fused{id: id, rrf: rrf})
	}
	sort.Slice(fusedList, func(i, j int) bool {
		if fusedList[i].rrf != fusedList[j].rrf {
			return fusedList[i].rrf > fusedList[j].rrf
		}
		return fusedList[i].id < fusedList[j].id
	})

	out := make([]Result, 0, len(fusedList))
	for _, f := range fusedList {
		entry := entries[f.id]
		r := newResult(entry, f.rrf, semScore[f.id], lexScore[f.id], lexKeywords[f.id], lexConcepts[f.id])
		out = append(out, r)
	}
	return out
}

func rankOrInf(ranks map[string]int, id string) float64 {
	if r, ok := ranks[id]; ok {
		return float64(r)
	}
	return math.Inf(1)
}

func rrfTerm(rank float64) float64 {
	if math.IsInf(rank, 1) {
		return 0
	}
	return 1 / (rrfK + rank)
}

func newResult(entry *IndexedTrial, relevance, similarity, keyword float64, matchedKeywords, matchedConcepts []string) Result {
	t := entry.Trial
	return Result{
		TrialID:         t.NCTID,
		NCTID:           t.NCTID,
		Title:           t.Title,
		BriefSummary:    t.BriefSummary,
		Conditions:      t.Conditions,
		RelevanceScore:  relevance,
		SimilarityScore: similarity,
		KeywordScore:    keyword,
		Explanation:     explain(similarity, keyword, matchedKeywords),
		MatchedKeywords: matchedKeywords,
		MatchedConcepts: matchedConcepts,
	}
}

func explain(similarity, keyword float64, matchedKeywords []string) string {
	switch {
	case similarity > 0 && keyword > 0:
		return fmt.Sprintf("semantic similarity %.2f, keyword overlap %.2f (%s)", similarity, keyword, strings.Join(matchedKeywords, ", "))
	case similarity > 0:
		return fmt.Sprintf("semantic similarity %.2f", similarity)
	case keyword > 0:
		return fmt.Sprintf("keyword overlap %.2f (%s)", keyword, strings.Join(matchedKeywords, ", "))
	default:
		return "no scored match"
	}
}

// applyFilters runs the post-retrieval filter chain: condition, status,
// age-range, and gender (spec.md §4.4). Location is accepted but never
// filters, per the core's no-geocoding Non-goal.
func applyFilters(results []Result, snapshot []*IndexedTrial, q Query) []Result {
	if len(q.Conditions) == 0 && len(q.StatusFilter) == 0 && q.Gender == "" && !hasAgeBound(q.AgeRange) {
		return results
	}

	byID := make(map[string]*IndexedTrial, len(snapshot))
	for _, e := range snapshot {
		byID[e.Trial.NCTID] = e
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		entry, ok := byID[r.TrialID]
		if !ok {
			continue
		}
		t := entry.Trial

		if len(q.Conditions) > 0 && !anyConditionMatches(t.Conditions, q.Conditions) {
			continue
		}
		if len(q.StatusFilter) > 0 && !statusInSet(t.Status, q.StatusFilter) {
			continue
		}
		if hasAgeBound(q.AgeRange) && !t.Eligibility.AgeRequirements.OverlapsWith(q.AgeRange) {
			continue
		}
		if q.Gender != "" && q.Gender != domain.GenderAll &&
			t.Eligibility.GenderRequirements != "" &&
			t.Eligibility.GenderRequirements != domain.GenderAll &&
			t.Eligibility.GenderRequirements != q.Gender {
			continue
		}

		out = append(out, r)
	}
	return out
}

func hasAgeBound(a domain.AgeRequirements) bool {
	return a.Min != nil || a.Max != nil
}

func anyConditionMatches(trialConditions, requested []string) bool {
	set := make(map[string]bool, len(requested))
	for _, c := range requested {
		set[strings.ToLower(c)] = true
	}
	for _, c := range trialConditions {
		if set[strings.ToLower(c)] {
			return true
		}
	}
	return false
}

func statusInSet(status domain.TrialStatus, set []domain.TrialStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func paginate(results []Result, offset, limit int) []Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []Result{}
	}
	end := len(results)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return results[offset:end]
}
