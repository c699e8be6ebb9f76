package commands

import (
	"errors"
	"fmt"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
	"github.com/arvni/provider-panel-sub000/internal/pkg/guard"
)

var ErrImportOrderCommandIsNotConstructed = errors.New(
	"ImportOrderCommand must be created via NewImportOrderCommand constructor",
)

// ImportedPatient is a patient as described by the external system. External
// identity comes as the server-minted id, a reference code, or a document
// id-number; a payload carrying none of these always creates a new patient.
type ImportedPatient struct {
	ID            *int64         `json:"id"`
	FullName      string         `json:"fullName"`
	Nationality   string         `json:"nationality"`
	DateOfBirth   *Date          `json:"dateOfBirth"`
	Gender        patient.Gender `json:"gender"`
	Consanguinity *bool          `json:"consanguinity"`
	IsFetus       bool           `json:"is_fetus"`
	ReferenceCode *string        `json:"reference_code"`
	IDNumber      *string        `json:"id_no"`
}

func (p ImportedPatient) demographics() patient.Demographics {
	return patient.Demographics{
		FullName:      p.FullName,
		Nationality:   p.Nationality,
		DateOfBirth:   p.DateOfBirth.TimePtr(),
		Gender:        p.Gender,
		Consanguinity: p.Consanguinity,
		IsFetus:       p.IsFetus,
	}
}

// ImportedItemPatient is a patient attached to one order item, with the
// payload's explicit main flag for that item.
type ImportedItemPatient struct {
	ImportedPatient
	IsMain bool `json:"is_main"`
}

// ImportedTest is the embedded test summary used to provision a placeholder
// when the external test id is unknown locally.
type ImportedTest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ImportedSampleType is the embedded sample type summary.
type ImportedSampleType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ImportedSample is one specimen under an order item. SampleID doubles as the
// material barcode: when a material with that barcode exists locally it is
// linked, otherwise the sample is imported without one (unlike intake, a
// missing material is not fatal here).
type ImportedSample struct {
	SampleTypeID   int64              `json:"sample_type_id"`
	SampleType     ImportedSampleType `json:"sampleType"`
	SampleID       string             `json:"sample_id"`
	PatientID      *int64             `json:"patientId"`
	CollectionDate *Date              `json:"collectionDate"`
}

// ImportedOrderItem is one order item of the external payload.
type ImportedOrderItem struct {
	ID       int64                 `json:"id"`
	TestID   int64                 `json:"test_id"`
	Test     ImportedTest          `json:"test"`
	Samples  []ImportedSample      `json:"samples"`
	Patients []ImportedItemPatient `json:"patients"`
}

// ImportedOrder is the externally-authored order.
type ImportedOrder struct {
	ID          int64               `json:"id"`
	Status      string              `json:"status"`
	MainPatient ImportedPatient     `json:"main_patient"`
	Patients    []ImportedPatient   `json:"patients"`
	OrderItems  []ImportedOrderItem `json:"orderItems"`
}

// ImportPayload is the full import request body.
type ImportPayload struct {
	ReferrerID string        `json:"referrer_id"`
	Order      ImportedOrder `json:"order"`
}

// ImportOrderCommand requests an idempotent create-or-update of the full
// order aggregate from an externally-authored payload.
type ImportOrderCommand struct {
	payload ImportPayload

	guard guard.ConstructorGuard
}

// NewImportOrderCommand validates the payload's minimum required shape and
// creates the command. Validation failures carry the offending field path in
// the error, so the HTTP adapter can build its field->message map.
func NewImportOrderCommand(payload ImportPayload) (ImportOrderCommand, error) {
	if payload.ReferrerID == "" {
		return ImportOrderCommand{}, errs.NewValueIsRequiredError("referrer_id")
	}
	if payload.Order.ID == 0 {
		return ImportOrderCommand{}, errs.NewValueIsRequiredError("order.id")
	}
	if _, err := order.ParseStatus(payload.Order.Status); err != nil {
		return ImportOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("order.status", err)
	}
	if payload.Order.MainPatient.FullName == "" {
		return ImportOrderCommand{}, errs.NewValueIsRequiredError("order.main_patient.fullName")
	}
	if payload.Order.MainPatient.Nationality == "" {
		return ImportOrderCommand{}, errs.NewValueIsRequiredError("order.main_patient.nationality")
	}
	if payload.Order.MainPatient.DateOfBirth == nil || payload.Order.MainPatient.DateOfBirth.IsZero() {
		return ImportOrderCommand{}, errs.NewValueIsRequiredError("order.main_patient.dateOfBirth")
	}
	if !payload.Order.MainPatient.Gender.Valid() {
		return ImportOrderCommand{}, errs.NewValueIsInvalidError("order.main_patient.gender")
	}
	for i, item := range payload.Order.OrderItems {
		if item.TestID == 0 && item.Test.ID == 0 {
			return ImportOrderCommand{}, errs.NewValueIsRequiredError(
				fmt.Sprintf("order.orderItems[%d].test_id", i))
		}
		for j, smp := range item.Samples {
			if smp.SampleTypeID == 0 && smp.SampleType.ID == 0 {
				return ImportOrderCommand{}, errs.NewValueIsRequiredError(
					fmt.Sprintf("order.orderItems[%d].samples[%d].sample_type_id", i, j))
			}
		}
		for j, p := range item.Patients {
			if p.FullName == "" {
				return ImportOrderCommand{}, errs.NewValueIsRequiredError(
					fmt.Sprintf("order.orderItems[%d].patients[%d].fullName", i, j))
			}
		}
	}

	return ImportOrderCommand{
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ImportOrderCommand) Validate() error {
	return c.guard.Validate(ErrImportOrderCommandIsNotConstructed)
}

// Payload returns the validated import payload.
func (c ImportOrderCommand) Payload() ImportPayload {
	return c.payload
}
