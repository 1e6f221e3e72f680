package search

import "strings"

// synonymGroups is the static medical-synonym map used by lexical
// scoring to credit partial-weight matches between related terms
// (spec.md §4.4). Each group is treated as mutually synonymous.
var synonymGroups = [][]string{
	{"diabetes", "dm", "diabetic", "hyperglycemia"},
	{"cancer", "carcinoma", "tumor", "neoplasm", "malignancy", "oncology"},
	{"heart attack", "myocardial infarction", "mi", "cardiac arrest"},
	{"high blood pressure", "hypertension", "htn"},
	{"stroke", "cerebrovascular accident", "cva"},
	{"kidney disease", "renal disease", "nephropathy"},
	{"liver disease", "hepatic disease", "hepatopathy"},
	{"chemo", "chemotherapy"},
	{"copd", "chronic obstructive pulmonary disease", "emphysema"},
	{"rheumatoid arthritis", "ra"},
	{"multiple sclerosis", "ms"},
}

var synonymIndex = buildSynonymIndex()

// buildSynonymIndex inverts synonymGroups into term -> group-id so
// lookups are O(1) instead of scanning every group per term.
func buildSynonymIndex() map[string]int {
	idx := make(map[string]int)
	for groupID, group := range synonymGroups {
		for _, term := range group {
			idx[term] = groupID
		}
	}
	return idx
}

// isSynonymOf reports whether a and b belong to the same synonym group.
func isSynonymOf(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	ga, okA := synonymIndex[a]
	gb, okB := synonymIndex[b]
	return okA && okB && ga == gb
}

// keywordVocabulary is the medical-vocabulary membership list C4 uses
// when extracting index keywords, independent of C3's condition/
// medication/procedure vocabularies (spec.md §4.4).
var keywordVocabulary = []string{
	"cancer", "carcinoma", "tumor", "neoplasm", "malignancy", "diabetes",
	"hypertension", "cardiovascular", "cardiac", "stroke", "asthma", "copd",
	"renal", "kidney", "hepatic", "liver", "leukemia", "lymphoma", "melanoma",
	"sarcoma", "arthritis", "depression", "anxiety", "epilepsy", "hiv", "aids",
	"tuberculosis", "pneumonia", "obesity", "osteoporosis",
}
