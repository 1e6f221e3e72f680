package reasoning

import (
	"fmt"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
)

// patientSummary builds the HIPAA-safe summary spec.md §4.5 step 1
// requires: age + sex + conditions, no identifiers.
func patientSummary(profile domain.PatientProfile) string {
	var b strings.Builder
	if profile.Demographics.Age != nil {
		fmt.Fprintf(&b, "%d-year-old ", *profile.Demographics.Age)
	}
	if profile.Demographics.Sex != "" {
		fmt.Fprintf(&b, "%s patient", profile.Demographics.Sex)
	} else {
		b.WriteString("patient")
	}
	if len(profile.PrimaryConditions) > 0 {
		fmt.Fprintf(&b, " with %s", strings.Join(profile.PrimaryConditions, ", "))
	}
	return b.String()
}

const eligibilitySystemPrompt = `You are a clinical trial eligibility reasoning assistant. Given a ` +
	`patient summary and a trial's eligibility criteria, respond with three sections in order: ` +
	`"Assessment:", "Analysis:", and "Conclusion:". State clearly whether the patient is eligible, ` +
	`not eligible, or whether the determination requires manual review, and include a confidence ` +
	`percentage (e.g. "Confidence: 85%"). Call out any contraindications or risks, and any ` +
	`recommendations for the care team, on their own lines.`

// formatEligibilityPrompt interleaves patient fields and trial fields,
// listing inclusion/exclusion criteria as bullets (spec.md §4.5 step 2).
func formatEligibilityPrompt(summary string, trial domain.Trial) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s\n\n", summary)
	fmt.Fprintf(&b, "Trial %s: %s\n%s\n\n", trial.NCTID, trial.Title, trial.BriefSummary)

	if len(trial.Eligibility.Inclusion) > 0 {
		b.WriteString("Inclusion criteria:\n")
		for _, line := range trial.Eligibility.Inclusion {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	if len(trial.Eligibility.Exclusion) > 0 {
		b.WriteString("Exclusion criteria:\n")
		for _, line := range trial.Eligibility.Exclusion {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}

// formatContraindicationPrompt builds the prompt for
// CheckContraindications.
func formatContraindicationPrompt(summary, interventionData string) string {
	return fmt.Sprintf(
		"Patient: %s\n\nProposed intervention: %s\n\n"+
			"List any contraindications as lines of the form "+
			"\"type: <name> | risk: <low|medium|high> | description: <text> | recommendation: <text>\".",
		summary, interventionData)
}

const contraindicationSystemPrompt = `You are a clinical safety reasoning assistant checking a proposed ` +
	`intervention against a patient's profile for contraindications.`
