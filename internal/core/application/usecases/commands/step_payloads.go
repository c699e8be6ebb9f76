package commands

import (
	"fmt"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

// Per-step payload bodies. The advance entry point accepts a structurally
// different body per workflow step, so the payload is a tagged union keyed by
// step: exactly one variant must be set, and it must match the step being
// advanced. Shapes are validated at the boundary; the engine assumes a
// well-formed variant.

// TestMethodPayload replaces the order's test selection.
type TestMethodPayload struct {
	TestIDs []uint `json:"test_ids"`
}

// RelativePayload declares one relation edge from the enclosing patient.
// Target is a local patient id in decimal form, or the literal "main", which
// resolves to the order's main patient as computed by the same call.
type RelativePayload struct {
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
	Description  string `json:"description"`
}

// PatientPayload is one patient submission: an update when ID is set, a new
// patient owned by the requesting actor otherwise.
type PatientPayload struct {
	ID            *uint             `json:"id"`
	FullName      string            `json:"full_name"`
	Nationality   string            `json:"nationality"`
	DateOfBirth   *Date             `json:"date_of_birth"`
	Gender        patient.Gender    `json:"gender"`
	Consanguinity *bool             `json:"consanguinity"`
	IsFetus       bool              `json:"is_fetus"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone"`
	Country       string            `json:"country"`
	Relatives     []RelativePayload `json:"relatives"`
}

// demographics converts the payload to the domain's mutable field set.
func (p PatientPayload) demographics() patient.Demographics {
	return patient.Demographics{
		FullName:      p.FullName,
		Nationality:   p.Nationality,
		DateOfBirth:   p.DateOfBirth.TimePtr(),
		Gender:        p.Gender,
		Consanguinity: p.Consanguinity,
		IsFetus:       p.IsFetus,
		Contact: patient.Contact{
			Address: p.Address,
			Phone:   p.Phone,
			Country: p.Country,
		},
	}
}

// PatientDetailsPayload carries one or more patients; the first becomes the
// order's main patient.
type PatientDetailsPayload struct {
	Patients []PatientPayload `json:"patients"`
}

// TestPatientsPayload assigns a patient list to the order item for one test.
// The patient at index 0 is the main patient for that item.
type TestPatientsPayload struct {
	TestID     uint   `json:"test_id"`
	PatientIDs []uint `json:"patient_ids"`
}

// PatientTestPayload declares per-test patient assignments. An empty list
// defaults every order item to the order's main patient.
type PatientTestPayload struct {
	Assignments []TestPatientsPayload `json:"assignments"`
}

// ClinicalDetailsPayload merges uploaded clinical files into the order.
type ClinicalDetailsPayload struct {
	Files []string `json:"files"`
}

// SampleDetailPayload is one specimen submission.
type SampleDetailPayload struct {
	ID             *uint  `json:"id"`
	SampleTypeID   uint   `json:"sample_type_id"`
	SampleID       string `json:"sample_id"`
	PatientID      *uint  `json:"patient_id"`
	OrderItemID    *uint  `json:"order_item_id"`
	CollectionDate *Date  `json:"collection_date"`
}

// SampleDetailsPayload is the full sample set for the order. Submission is a
// full reconciliation, not an additive patch: samples linked to the order but
// absent here are pruned.
type SampleDetailsPayload struct {
	Samples []SampleDetailPayload `json:"samples"`
}

// ConsentFormPayload merges uploaded consent files into the order's consent
// block.
type ConsentFormPayload struct {
	Files []string `json:"files"`
}

// FinalizePayload carries no data; finalizing only flips the status.
type FinalizePayload struct{}

// StepPayload is the tagged union of per-step bodies.
type StepPayload struct {
	TestMethod      *TestMethodPayload      `json:"test_method,omitempty"`
	PatientDetails  *PatientDetailsPayload  `json:"patient_details,omitempty"`
	PatientTest     *PatientTestPayload     `json:"patient_test,omitempty"`
	ClinicalDetails *ClinicalDetailsPayload `json:"clinical_details,omitempty"`
	SampleDetails   *SampleDetailsPayload   `json:"sample_details,omitempty"`
	ConsentForm     *ConsentFormPayload     `json:"consent_form,omitempty"`
	Finalize        *FinalizePayload        `json:"finalize,omitempty"`
}

// validateForStep checks that the variant matching the step is present.
func (p StepPayload) validateForStep(step order.Step) error {
	present := map[order.Step]bool{
		order.StepTestMethod:      p.TestMethod != nil,
		order.StepPatientDetails:  p.PatientDetails != nil,
		order.StepPatientTest:     p.PatientTest != nil,
		order.StepClinicalDetails: p.ClinicalDetails != nil,
		order.StepSampleDetails:   p.SampleDetails != nil,
		order.StepConsentForm:     p.ConsentForm != nil,
		order.StepFinalize:        p.Finalize != nil,
	}
	ok, known := present[step]
	if !known {
		return errs.NewValueIsInvalidErrorWithCause("step",
			fmt.Errorf("%q is not a workflow step", step))
	}
	if !ok {
		return errs.NewValueIsRequiredErrorWithCause("payload",
			fmt.Errorf("step %q requires its payload variant", step))
	}
	return nil
}
