package workflow

import (
	"fmt"
	"strings"

	"salescast/models"
)

// Phase is the submission lifecycle position of a workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a snapshot of a workflow. Baseline is tracked independently of
// Phase: the static load may finish before, during or after a submission.
type State struct {
	Phase     Phase
	Form      models.FormInput
	Baseline  *models.Prediction
	Result    *models.Prediction
	Err       error
	LoadErr   error
	AttemptID string
}

// Pending reports whether a submission is in flight.
func (s State) Pending() bool {
	return s.Phase == PhasePending
}

// Current returns the value to show: the live result when the last
// submission succeeded, otherwise the baseline.
func (s State) Current() (models.Prediction, bool) {
	if s.Result != nil {
		return *s.Result, true
	}
	if s.Baseline != nil {
		return *s.Baseline, true
	}
	return models.Prediction{}, false
}

// Degraded reports whether the shown value is the baseline standing in for
// a failed live prediction.
func (s State) Degraded() bool {
	return s.Phase == PhaseFailed
}

// Annotation explains why the view is not showing a live result, or is
// empty when nothing went wrong.
func (s State) Annotation() string {
	var parts []string
	if s.LoadErr != nil {
		parts = append(parts, fmt.Sprintf("Failed to load static prediction: %v", s.LoadErr))
	}
	if s.Err != nil {
		parts = append(parts, fmt.Sprintf("Failed to get prediction: %v. Using static prediction.", s.Err))
	}
	return strings.Join(parts, " ")
}
