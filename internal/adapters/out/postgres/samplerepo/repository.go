// Package samplerepo implements the sample and material repository over GORM.
package samplerepo

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSampleRepository implements ports.SampleRepository using GORM.
type GormSampleRepository struct {
	db *gorm.DB
}

// NewGormSampleRepository creates a new GORM sample repository.
func NewGormSampleRepository(db *gorm.DB) *GormSampleRepository {
	return &GormSampleRepository{db: db}
}

// Add persists a new sample.
func (r *GormSampleRepository) Add(ctx context.Context, s *sample.Sample) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update persists changes to an existing sample.
func (r *GormSampleRepository) Update(ctx context.Context, s *sample.Sample) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Get retrieves a sample by id.
func (r *GormSampleRepository) Get(ctx context.Context, id uint) (*sample.Sample, error) {
	var s sample.Sample
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sample", id)
		}
		return nil, err
	}
	return &s, nil
}

// FindByTypeAndSampleID locates a sample by type and human-readable sample
// id, (nil, nil) when absent.
func (r *GormSampleRepository) FindByTypeAndSampleID(ctx context.Context, sampleTypeID uint, sampleID string) (*sample.Sample, error) {
	var s sample.Sample
	err := r.db.WithContext(ctx).
		First(&s, "sample_type_id = ? AND sample_id = ?", sampleTypeID, sampleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// MaterialByBarcode locates a material by barcode, (nil, nil) when absent.
func (r *GormSampleRepository) MaterialByBarcode(ctx context.Context, barcode string) (*sample.Material, error) {
	var m sample.Material
	if err := r.db.WithContext(ctx).First(&m, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// AddMaterial persists a new material row.
func (r *GormSampleRepository) AddMaterial(ctx context.Context, m *sample.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// PruneOrderSamples detaches every sample of the order's items that is not in
// keep, then deletes those of the detached samples that no other order item
// still references. Returns the ids of the deleted samples.
func (r *GormSampleRepository) PruneOrderSamples(ctx context.Context, orderID uint, keep []uint) ([]uint, error) {
	db := r.db.WithContext(ctx)

	victims := db.
		Table("order_item_samples ois").
		Select("DISTINCT ois.sample_id").
		Joins("JOIN order_items oi ON oi.id = ois.order_item_id").
		Where("oi.order_id = ?", orderID)
	if len(keep) > 0 {
		victims = victims.Where("ois.sample_id NOT IN ?", keep)
	}

	var victimIDs []uint
	if err := victims.Pluck("ois.sample_id", &victimIDs).Error; err != nil {
		return nil, err
	}
	if len(victimIDs) == 0 {
		return nil, nil
	}

	err := db.Exec(
		`DELETE FROM order_item_samples
		 WHERE sample_id IN ?
		   AND order_item_id IN (SELECT id FROM order_items WHERE order_id = ?)`,
		victimIDs, orderID).Error
	if err != nil {
		return nil, err
	}

	// Samples shared with other orders survive the detach.
	var orphanIDs []uint
	err = db.Table("samples s").
		Select("s.id").
		Where("s.id IN ?", victimIDs).
		Where("NOT EXISTS (SELECT 1 FROM order_item_samples ois WHERE ois.sample_id = s.id)").
		Pluck("s.id", &orphanIDs).Error
	if err != nil {
		return nil, err
	}
	if len(orphanIDs) == 0 {
		return nil, nil
	}

	if err = db.Delete(&sample.Sample{}, "id IN ?", orphanIDs).Error; err != nil {
		return nil, err
	}
	return orphanIDs, nil
}
