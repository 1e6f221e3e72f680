package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medmatch/matching-core/internal/domain"
)

func TestParseAgeToYears(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"18 Years", intp(18)},
		{"6 Months", intp(0)},
		{"24 Months", intp(2)},
		{"400 Days", intp(1)},
		{"N/A", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseAgeToYears(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.Equal(t, *tt.want, *got, tt.in)
	}
}

func intp(v int) *int { return &v }

func TestParseEligibilityTextSplitsInclusionExclusion(t *testing.T) {
	raw := `Inclusion Criteria:
- Age 18 years or older
- Histologically confirmed breast cancer
  that has progressed on prior therapy

Exclusion Criteria:
- Pregnant or nursing
* Known hypersensitivity to study drug`

	inclusion, exclusion := parseEligibilityText(raw)

	require.Len(t, inclusion, 2)
	assert.Equal(t, "Age 18 years or older", inclusion[0])
	assert.Contains(t, inclusion[1], "Histologically confirmed breast cancer")
	assert.Contains(t, inclusion[1], "that has progressed on prior therapy")

	require.Len(t, exclusion, 2)
	assert.Equal(t, "Pregnant or nursing", exclusion[0])
	assert.Equal(t, "Known hypersensitivity to study drug", exclusion[1])
}

func TestNormalizeStatusLowercasesAndUnderscores(t *testing.T) {
	assert.Equal(t, "not_yet_recruiting", string(normalizeStatus("NOT_YET_RECRUITING")))
	assert.Equal(t, "active_not_recruiting", string(normalizeStatus("Active Not Recruiting")))
}

func TestNormalizeStudySucceeds(t *testing.T) {
	var s registryStudy
	s.ProtocolSection.IdentificationModule.NCTId = "NCT04444444"
	s.ProtocolSection.IdentificationModule.BriefTitle = "A Study of Something"
	s.ProtocolSection.StatusModule.OverallStatus = "RECRUITING"
	s.ProtocolSection.EligibilityModule.MinimumAge = "18 Years"
	s.ProtocolSection.EligibilityModule.MaximumAge = "N/A"
	s.ProtocolSection.EligibilityModule.EligibilityCriteria = "Inclusion Criteria:\n- Must be an adult"

	trial := normalizeStudy(s)

	assert.Equal(t, "NCT04444444", trial.NCTID)
	assert.Equal(t, domain.StatusRecruiting, trial.Status)
	require.NotNil(t, trial.Eligibility.AgeRequirements.Min)
	assert.Equal(t, 18, *trial.Eligibility.AgeRequirements.Min)
	assert.Nil(t, trial.Eligibility.AgeRequirements.Max)
	assert.NoError(t, trial.Validate())
}
