// Package patientrepo implements the patient repository over GORM, including
// the upsert-without-detach maintenance of the patient relation graph.
package patientrepo

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPatientRepository implements ports.PatientRepository using GORM.
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GORM patient repository.
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// Add saves a new patient.
func (r *GormPatientRepository) Add(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Omit("Relatives").Create(p).Error
}

// Update writes the patient row. Callers dirty-check first; this method
// always writes.
func (r *GormPatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Omit("Relatives").Save(p).Error
}

// Get retrieves a patient by id.
func (r *GormPatientRepository) Get(ctx context.Context, id uint) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("patient", id)
		}
		return nil, err
	}
	return &p, nil
}

// FindByServerID locates a patient by external id, (nil, nil) when absent.
func (r *GormPatientRepository) FindByServerID(ctx context.Context, serverID int64) (*patient.Patient, error) {
	return r.findOne(ctx, "server_id = ?", serverID)
}

// FindByReferenceCode locates a patient by reference code, (nil, nil) when absent.
func (r *GormPatientRepository) FindByReferenceCode(ctx context.Context, code string) (*patient.Patient, error) {
	return r.findOne(ctx, "reference_code = ?", code)
}

// FindByIDNumber locates a patient by document id number, (nil, nil) when absent.
func (r *GormPatientRepository) FindByIDNumber(ctx context.Context, idNumber string) (*patient.Patient, error) {
	return r.findOne(ctx, "id_number = ?", idNumber)
}

func (r *GormPatientRepository) findOne(ctx context.Context, cond string, arg any) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertRelations applies the given relation edges: missing edges are
// inserted, existing edges get their type and notes refreshed, and edges not
// mentioned stay untouched.
func (r *GormPatientRepository) UpsertRelations(ctx context.Context, patientID uint, relations []patient.Relation) error {
	db := r.db.WithContext(ctx)

	for _, rel := range relations {
		rel.PatientID = patientID

		var existing patient.Relation
		err := db.First(&existing,
			"patient_id = ? AND relative_id = ?", rel.PatientID, rel.RelativeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err = db.Create(&rel).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if existing.Relationship == rel.Relationship && existing.Description == rel.Description {
			continue
		}
		err = db.Model(&patient.Relation{}).
			Where("patient_id = ? AND relative_id = ?", rel.PatientID, rel.RelativeID).
			Updates(map[string]any{
				"relationship": rel.Relationship,
				"description":  rel.Description,
			}).Error
		if err != nil {
			return err
		}
	}

	return nil
}
