// Package catalogrepo implements the test and sample type catalog repository
// over GORM.
package catalogrepo

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalogRepository implements ports.CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// TestByID retrieves a test by id.
func (r *GormCatalogRepository) TestByID(ctx context.Context, id uint) (*catalog.Test, error) {
	var t catalog.Test
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("test", id)
		}
		return nil, err
	}
	return &t, nil
}

// TestsByIDs retrieves the tests matching the given ids. The result may be
// shorter than the input when some ids do not exist; callers compare lengths.
func (r *GormCatalogRepository) TestsByIDs(ctx context.Context, ids []uint) ([]catalog.Test, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tests []catalog.Test
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

// TestByServerID locates a test by external id, (nil, nil) when absent.
func (r *GormCatalogRepository) TestByServerID(ctx context.Context, serverID int64) (*catalog.Test, error) {
	var t catalog.Test
	if err := r.db.WithContext(ctx).First(&t, "server_id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// AddTest saves a new test.
func (r *GormCatalogRepository) AddTest(ctx context.Context, t *catalog.Test) error {
	return r.db.WithContext(ctx).Omit("OrderForms", "SampleTypes").Create(t).Error
}

// SampleTypeByID retrieves a sample type by id.
func (r *GormCatalogRepository) SampleTypeByID(ctx context.Context, id uint) (*catalog.SampleType, error) {
	var st catalog.SampleType
	if err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sample type", id)
		}
		return nil, err
	}
	return &st, nil
}

// SampleTypeByServerID locates a sample type by external id, (nil, nil) when absent.
func (r *GormCatalogRepository) SampleTypeByServerID(ctx context.Context, serverID int64) (*catalog.SampleType, error) {
	var st catalog.SampleType
	if err := r.db.WithContext(ctx).First(&st, "server_id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// AddSampleType saves a new sample type.
func (r *GormCatalogRepository) AddSampleType(ctx context.Context, st *catalog.SampleType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

// FormsForTests returns the distinct order form templates attached to the
// given tests.
func (r *GormCatalogRepository) FormsForTests(ctx context.Context, testIDs []uint) ([]catalog.OrderForm, error) {
	if len(testIDs) == 0 {
		return nil, nil
	}
	sub := r.db.WithContext(ctx).
		Table("test_order_forms").
		Select("order_form_id").
		Where("test_id IN ?", testIDs)

	var forms []catalog.OrderForm
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("id").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	return forms, nil
}
