package ports

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
)

// PatientRepository defines the persistence contract for patient records and
// their relation graph.
//
// The Find* methods return (nil, nil) when no patient matches; only Get
// treats absence as an error. This supports the find-or-provision flows of
// the identity resolver.
type PatientRepository interface {
	// Add persists a new patient.
	Add(ctx context.Context, p *patient.Patient) error

	// Update persists changes to an existing patient. Callers are expected
	// to dirty-check first; an unchanged patient must not be written.
	Update(ctx context.Context, p *patient.Patient) error

	// Get retrieves a patient by id. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id uint) (*patient.Patient, error)

	// FindByServerID locates a patient by the external system's id.
	FindByServerID(ctx context.Context, serverID int64) (*patient.Patient, error)

	// FindByReferenceCode locates a patient by external reference code.
	FindByReferenceCode(ctx context.Context, code string) (*patient.Patient, error)

	// FindByIDNumber locates a patient by national/document id number.
	FindByIDNumber(ctx context.Context, idNumber string) (*patient.Patient, error)

	// UpsertRelations applies relation edges with upsert-without-detach
	// semantics: missing edges are inserted, existing edges are updated, and
	// edges not mentioned are left alone.
	UpsertRelations(ctx context.Context, patientID uint, relations []patient.Relation) error
}
