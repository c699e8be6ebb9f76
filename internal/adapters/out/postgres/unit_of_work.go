// Package postgres provides the GORM-based unit of work and repository
// implementations. Every Advance and Import call runs inside one unit of
// work, so multi-entity mutations commit or roll back as a whole.
package postgres

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres/catalogrepo"
	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres/orderrepo"
	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres/patientrepo"
	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres/samplerepo"
	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres/userrepo"
	"github.com/arvni/provider-panel-sub000/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM database
// connection. Each business operation gets a fresh instance, keeping
// concurrent operations isolated from each other.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the aggregate's
// repositories. Repositories obtained from it run inside the transaction once
// Begin was called, and against the base connection otherwise.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a new database transaction. Calling Begin again on an
// instance with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the current transaction. Returns
// gorm.ErrInvalidTransaction when none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction. Returns
// gorm.ErrInvalidTransaction when none is active, which makes the usual
// "defer Rollback after Commit" pattern safe.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) handle() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an order repository bound to the current transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.handle())
}

// PatientRepository returns a patient repository bound to the current transaction.
func (uow *GormUnitOfWork) PatientRepository() ports.PatientRepository {
	return patientrepo.NewGormPatientRepository(uow.handle())
}

// CatalogRepository returns a catalog repository bound to the current transaction.
func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.handle())
}

// SampleRepository returns a sample repository bound to the current transaction.
func (uow *GormUnitOfWork) SampleRepository() ports.SampleRepository {
	return samplerepo.NewGormSampleRepository(uow.handle())
}

// UserRepository returns a user repository bound to the current transaction.
func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return userrepo.NewGormUserRepository(uow.handle())
}
