package domain

import "regexp"

// Sex represents patient or eligibility sex/gender values.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexOther   Sex = "other"
	SexUnknown Sex = "unknown"
)

// GenderRequirement represents a trial's gender eligibility requirement.
type GenderRequirement string

const (
	GenderAll            GenderRequirement = "all"
	GenderMale           GenderRequirement = "male"
	GenderFemale         GenderRequirement = "female"
	GenderOther          GenderRequirement = "other"
	GenderPreferNotToSay GenderRequirement = "prefer_not_to_say"
)

// PrimaryPurpose is the trial's declared primary purpose.
type PrimaryPurpose string

const (
	PurposeTreatment   PrimaryPurpose = "treatment"
	PurposePrevention  PrimaryPurpose = "prevention"
	PurposeDiagnostic  PrimaryPurpose = "diagnostic"
	PurposeOther       PrimaryPurpose = "other"
)

// Phase is the trial's clinical phase.
type Phase string

const (
	Phase1        Phase = "phase-1"
	Phase2        Phase = "phase-2"
	Phase3        Phase = "phase-3"
	Phase4        Phase = "phase-4"
	PhaseNA       Phase = "not_applicable"
)

// TrialStatus is the recruitment status of a trial.
type TrialStatus string

const (
	StatusRecruiting           TrialStatus = "recruiting"
	StatusNotYetRecruiting     TrialStatus = "not_yet_recruiting"
	StatusActiveNotRecruiting  TrialStatus = "active_not_recruiting"
	StatusCompleted            TrialStatus = "completed"
	StatusSuspended            TrialStatus = "suspended"
	StatusTerminated           TrialStatus = "terminated"
	StatusWithdrawn            TrialStatus = "withdrawn"
	StatusEnrollingByInvitation TrialStatus = "enrolling_by_invitation"
	StatusAvailable            TrialStatus = "available"
	StatusNoLongerAvailable    TrialStatus = "no_longer_available"
)

// IsActive reports whether the status counts as "recruiting or active"
// for the orchestrator's status bonus (spec.md §4.6.1).
func (s TrialStatus) IsActive() bool {
	switch s {
	case StatusRecruiting, StatusActiveNotRecruiting, StatusNotYetRecruiting:
		return true
	default:
		return false
	}
}

// IsClosed reports whether the status counts as completed/terminated for
// the orchestrator's status penalty.
func (s TrialStatus) IsClosed() bool {
	switch s {
	case StatusCompleted, StatusTerminated, StatusWithdrawn, StatusSuspended:
		return true
	default:
		return false
	}
}

// DefaultRegistryStatusFilter is the default status filter C1 applies
// when the caller doesn't specify one: recruiting, not_yet_recruiting,
// active_not_recruiting (spec.md §4.1).
func DefaultRegistryStatusFilter() []TrialStatus {
	return []TrialStatus{StatusRecruiting, StatusNotYetRecruiting, StatusActiveNotRecruiting}
}

// StudyType is the trial's study design type.
type StudyType string

const (
	StudyInterventional StudyType = "interventional"
	StudyObservational  StudyType = "observational"
	StudyExpandedAccess StudyType = "expanded_access"
)

// MatchStatus is the final verdict attached to a MatchResult.
type MatchStatus string

const (
	MatchEligible            MatchStatus = "eligible"
	MatchIneligible          MatchStatus = "ineligible"
	MatchPotentiallyEligible MatchStatus = "potentially_eligible"
	MatchRequiresReview      MatchStatus = "requires_review"
	MatchInsufficientData    MatchStatus = "insufficient_data"
)

// ReasoningCategory is the closed set of categories a ReasoningStep may
// belong to (spec.md §3).
type ReasoningCategory string

const (
	CategoryAgeCheck               ReasoningCategory = "age_check"
	CategoryGenderCheck            ReasoningCategory = "gender_check"
	CategoryConditionMatch         ReasoningCategory = "condition_match"
	CategoryMedicationCompat       ReasoningCategory = "medication_compatibility"
	CategoryAllergyCheck           ReasoningCategory = "allergy_check"
	CategoryExclusionCheck         ReasoningCategory = "exclusion_check"
	CategoryInclusionCheck         ReasoningCategory = "inclusion_check"
	CategoryLocationProximity      ReasoningCategory = "location_proximity"
	CategoryTrialStatusCheck       ReasoningCategory = "trial_status_check"
	CategoryLabValuesCheck         ReasoningCategory = "lab_values_check"
	CategorySpecialPopulationCheck ReasoningCategory = "special_populations_check"
)

// ReasoningResult is the closed set of outcomes for a single reasoning step.
type ReasoningResult string

const (
	ResultPass           ReasoningResult = "pass"
	ResultFail           ReasoningResult = "fail"
	ResultPartial        ReasoningResult = "partial"
	ResultUnknown        ReasoningResult = "unknown"
	ResultRequiresReview ReasoningResult = "requires_review"
)

// SearchMode selects the retrieval strategy for C4.
type SearchMode string

const (
	SearchSemantic SearchMode = "semantic"
	SearchLexical  SearchMode = "lexical"
	SearchHybrid   SearchMode = "hybrid"
)

var nctIDPattern = regexp.MustCompile(`^NCT\d{8}$`)

// IsValidNCTID reports whether id matches the registry's NCT grammar
// exactly: "NCT" followed by 8 digits (spec.md §6).
func IsValidNCTID(id string) bool {
	return nctIDPattern.MatchString(id)
}
