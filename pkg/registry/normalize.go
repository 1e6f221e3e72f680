package registry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

func normalizeStudy(s registryStudy) domain.Trial {
	id := s.ProtocolSection.IdentificationModule
	status := s.ProtocolSection.StatusModule
	desc := s.ProtocolSection.DescriptionModule
	design := s.ProtocolSection.DesignModule
	cond := s.ProtocolSection.ConditionsModule
	arms := s.ProtocolSection.ArmsInterventionsModule
	elig := s.ProtocolSection.EligibilityModule
	locs := s.ProtocolSection.ContactsLocationsModule

	interventions := make([]string, 0, len(arms.Interventions))
	for _, iv := range arms.Interventions {
		if iv.Name != "" {
			interventions = append(interventions, iv.Name)
		}
	}

	locations := make([]domain.TrialLocation, 0, len(locs.Locations))
	for _, l := range locs.Locations {
		locations = append(locations, domain.TrialLocation{
			Facility: l.Facility,
			City:     l.City,
			State:    l.State,
			Country:  l.Country,
		})
	}

	enrollment := design.EnrollmentInfo.Count

	inclusion, exclusion := parseEligibilityText(elig.EligibilityCriteria)

	trial := domain.Trial{
		NCTID:               id.NCTId,
		Title:               id.BriefTitle,
		BriefSummary:        desc.BriefSummary,
		DetailedDescription: desc.DetailedDescription,
		Phase:               normalizePhase(design.Phases),
		Status:              normalizeStatus(status.OverallStatus),
		Enrollment:          &enrollment,
		StudyType:           normalizeStudyType(design.StudyType),
		Conditions:          cond.Conditions,
		Interventions:       interventions,
		Locations:           locations,
		Eligibility: domain.EligibilityCriteria{
			RawText:   elig.EligibilityCriteria,
			Inclusion: inclusion,
			Exclusion: exclusion,
			AgeRequirements: domain.AgeRequirements{
				Min:   parseAgeToYears(elig.MinimumAge),
				Max:   parseAgeToYears(elig.MaximumAge),
				Units: "years",
			},
			GenderRequirements: normalizeGender(elig.Sex),
		},
	}

	return trial
}

var ageUnitPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*(year|years|month|months|day|days)\s*$`)

// parseAgeToYears converts a registry age string like "18 Years" or
// "6 Months" into an integer year count, per spec.md §4.1: months ÷ 12,
// days ÷ 365, rounded down, floored at 0. "N/A" and empty strings yield
// an open (nil) bound.
func parseAgeToYears(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return nil
	}

	m := ageUnitPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	unit := strings.ToLower(m[2])
	var years int
	switch {
	case strings.HasPrefix(unit, "year"):
		years = n
	case strings.HasPrefix(unit, "month"):
		years = n / 12
	case strings.HasPrefix(unit, "day"):
		years = n / 365
	}
	if years < 0 {
		years = 0
	}
	return &years
}

var (
	sectionHeadingPattern = regexp.MustCompile(`(?i)^\s*(inclusion|exclusion)\s*criteria\s*:?\s*$`)
	bulletMarkerPattern   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|[a-zA-Z][.)])\s+`)
)

// parseEligibilityText splits raw eligibility text into inclusion and
// exclusion criterion lists by section heading and line-start markers,
// joining continuation lines to the previous criterion (spec.md §4.1).
func parseEligibilityText(raw string) (inclusion, exclusion []string) {
	lines := strings.Split(raw, "\n")
	section := ""
	var current *string
	var inclusionList, exclusionList []string

	appendToSection := func(text string) *string {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		switch section {
		case "inclusion":
			inclusionList = append(inclusionList, text)
			return &inclusionList[len(inclusionList)-1]
		case "exclusion":
			exclusionList = append(exclusionList, text)
			return &exclusionList[len(exclusionList)-1]
		default:
			return nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := sectionHeadingPattern.FindStringSubmatch(trimmed); m != nil {
			section = strings.ToLower(m[1])
			current = nil
			continue
		}

		if bulletMarkerPattern.MatchString(trimmed) {
			text := bulletMarkerPattern.ReplaceAllString(trimmed, "")
			current = appendToSection(text)
			continue
		}

		// Continuation line: join to the previous criterion.
		if current != nil {
			*current = *current + " " + trimmed
			continue
		}

		current = appendToSection(trimmed)
	}

	return inclusionList, exclusionList
}

func normalizeStatus(s string) domain.TrialStatus {
	return domain.TrialStatus(strings.ToLower(strings.ReplaceAll(s, " ", "_")))
}

func normalizePhase(phases []string) domain.Phase {
	if len(phases) == 0 {
		return domain.PhaseNA
	}
	switch strings.ToUpper(phases[0]) {
	case "PHASE1":
		return domain.Phase1
	case "PHASE2":
		return domain.Phase2
	case "PHASE3":
		return domain.Phase3
	case "PHASE4":
		return domain.Phase4
	default:
		return domain.PhaseNA
	}
}

func normalizeStudyType(s string) domain.StudyType {
	switch strings.ToUpper(s) {
	case "INTERVENTIONAL":
		return domain.StudyInterventional
	case "OBSERVATIONAL":
		return domain.StudyObservational
	case "EXPANDED_ACCESS":
		return domain.StudyExpandedAccess
	default:
		return domain.StudyInterventional
	}
}

func normalizeGender(s string) domain.GenderRequirement {
	switch strings.ToUpper(s) {
	case "MALE":
		return domain.GenderMale
	case "FEMALE":
		return domain.GenderFemale
	case "ALL", "":
		return domain.GenderAll
	default:
		return domain.GenderAll
	}
}
