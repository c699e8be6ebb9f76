package order

import (
	"fmt"

	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

// Step represents the current stage of the order intake workflow.
// It implements a forward-only state machine: every step has exactly one
// successor, and the terminal step is its own successor, so advancing past
// the end is idempotent rather than an error.
//
// Step sequence:
//
//	TestMethod -> PatientDetails -> PatientTest -> ClinicalDetails
//	           -> SampleDetails -> ConsentForm -> Finalize -> Finalize ...
//
// The step also determines which mutation payload shape is valid for the
// advance operation; see the commands package.
type Step string

const (
	// StepTestMethod selects the tests ordered and derives the intake form set.
	StepTestMethod Step = "test_method"

	// StepPatientDetails collects patient demographics and relations.
	StepPatientDetails Step = "patient_details"

	// StepPatientTest assigns patients to the order's tests.
	StepPatientTest Step = "patient_test"

	// StepClinicalDetails collects clinical intake files.
	StepClinicalDetails Step = "clinical_details"

	// StepSampleDetails collects specimen records and their materials.
	StepSampleDetails Step = "sample_details"

	// StepConsentForm collects consent documents.
	StepConsentForm Step = "consent_form"

	// StepFinalize is the terminal step; completing it requests the order.
	StepFinalize Step = "finalize"
)

// Steps returns the workflow steps in order.
func Steps() []Step {
	return []Step{
		StepTestMethod,
		StepPatientDetails,
		StepPatientTest,
		StepClinicalDetails,
		StepSampleDetails,
		StepConsentForm,
		StepFinalize,
	}
}

// ParseStep converts a wire string to a Step, validating it.
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if err := step.Validate(); err != nil {
		return "", err
	}
	return step, nil
}

// Validate checks that the step is one of the defined workflow stages.
func (s Step) Validate() error {
	for _, known := range Steps() {
		if s == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("step", fmt.Errorf("%q is not a workflow step", string(s)))
}

// Next returns the step that follows s in the workflow.
// The terminal step returns itself, making repeated advances at the end a no-op.
func (s Step) Next() Step {
	steps := Steps()
	for i, known := range steps {
		if s != known {
			continue
		}
		if i == len(steps)-1 {
			return s
		}
		return steps[i+1]
	}
	return s
}

// String implements fmt.Stringer.
func (s Step) String() string {
	return string(s)
}
