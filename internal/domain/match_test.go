package domain

import "testing"

func f(v float64) *float64 { return &v }

func TestComputeOverallScoreNoSteps(t *testing.T) {
	if got := ComputeOverallScore(nil); got != 0.5 {
		t.Errorf("empty chain should yield 0.5 neutral score, got %v", got)
	}
}

func TestComputeOverallScoreFailContributesZero(t *testing.T) {
	steps := []ReasoningStep{
		{Result: ResultPass, Score: f(1.0)},
		{Result: ResultFail, Score: f(0.9)}, // declared score ignored
	}
	got := ComputeOverallScore(steps)
	if got != 0.5 {
		t.Errorf("expected mean of 1.0 and 0.0 = 0.5, got %v", got)
	}
}

func TestHasDisqualifyingFailure(t *testing.T) {
	steps := []ReasoningStep{
		{Result: ResultFail, Category: CategoryExclusionCheck},
	}
	if !HasDisqualifyingFailure(steps) {
		t.Error("expected disqualifying failure for exclusion_check fail")
	}
	steps2 := []ReasoningStep{
		{Result: ResultFail, Category: CategoryAgeCheck},
	}
	if HasDisqualifyingFailure(steps2) {
		t.Error("age_check fail should not be disqualifying")
	}
}

func TestRenumberSteps(t *testing.T) {
	steps := []ReasoningStep{{}, {}, {}}
	steps = RenumberSteps(steps)
	for i, s := range steps {
		if s.Step != i+1 {
			t.Errorf("step %d has number %d, want %d", i, s.Step, i+1)
		}
	}
}
