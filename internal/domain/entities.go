package domain

// AgeRequirements bounds an eligible age range. Units are always years
// (spec.md §3): absent bounds are open.
type AgeRequirements struct {
	Min   *int   `json:"min,omitempty"`
	Max   *int   `json:"max,omitempty"`
	Units string `json:"units"`
}

// OverlapsWith implements the age-range overlap law from spec.md §8:
// a trial range [tmin,tmax] is retained under a patient/requested range
// [pmin,pmax] iff (tmin==nil || tmin<=pmax) && (tmax==nil || tmax>=pmin).
func (a AgeRequirements) OverlapsWith(other AgeRequirements) bool {
	if a.Min != nil && other.Max != nil && *a.Min > *other.Max {
		return false
	}
	if a.Max != nil && other.Min != nil && *a.Max < *other.Min {
		return false
	}
	return true
}

// Valid reports whether min <= max whenever both are present (spec.md §8
// eligibility validator law).
func (a AgeRequirements) Valid() bool {
	if a.Min != nil && a.Max != nil {
		return *a.Min <= *a.Max
	}
	return true
}

// ExtractedEntities is the output of the medical NLP extractor (C3).
type ExtractedEntities struct {
	Conditions          []string        `json:"conditions"`
	ExcludedConditions   []string        `json:"excluded_conditions"`
	Medications         []string        `json:"medications"`
	Procedures          []string        `json:"procedures"`
	LabValues           []string        `json:"lab_values"`
	Demographics        ExtractedDemographics `json:"demographics"`
	AgeRequirements     AgeRequirements `json:"age_requirements"`
	GenderRequirements  GenderRequirement `json:"gender_requirements"`
	ComplexityScore     float64         `json:"complexity_score"`
}

// ExtractedDemographics holds the age/sex/other-markers block nested
// inside ExtractedEntities (spec.md §3).
type ExtractedDemographics struct {
	Age          *int     `json:"age,omitempty"`
	Sex          Sex      `json:"sex,omitempty"`
	OtherMarkers []string `json:"other_markers,omitempty"`
}
