package ports

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
)

// CatalogRepository defines the read/provision contract for catalog entities.
// Catalog reads are treated as immutable snapshots for the duration of a
// call; writes happen only on the import path, which may provision
// placeholder rows for unknown external references.
type CatalogRepository interface {
	// TestByID retrieves a test by local id.
	// Returns errs.ObjectNotFoundError when absent.
	TestByID(ctx context.Context, id uint) (*catalog.Test, error)

	// TestsByIDs retrieves all tests matching the given local ids.
	TestsByIDs(ctx context.Context, ids []uint) ([]catalog.Test, error)

	// TestByServerID locates a test by the external system's id.
	// Returns (nil, nil) when absent.
	TestByServerID(ctx context.Context, serverID int64) (*catalog.Test, error)

	// AddTest persists a new test row (placeholder provisioning).
	AddTest(ctx context.Context, t *catalog.Test) error

	// SampleTypeByID retrieves a sample type by local id.
	// Returns errs.ObjectNotFoundError when absent.
	SampleTypeByID(ctx context.Context, id uint) (*catalog.SampleType, error)

	// SampleTypeByServerID locates a sample type by the external system's id.
	// Returns (nil, nil) when absent.
	SampleTypeByServerID(ctx context.Context, serverID int64) (*catalog.SampleType, error)

	// AddSampleType persists a new sample type row (placeholder provisioning).
	AddSampleType(ctx context.Context, st *catalog.SampleType) error

	// FormsForTests returns the distinct form templates applicable to any of
	// the given tests.
	FormsForTests(ctx context.Context, testIDs []uint) ([]catalog.OrderForm, error)
}
