package ports

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
)

// SampleRepository defines the persistence contract for specimen records and
// their physical materials.
type SampleRepository interface {
	// Add persists a new sample.
	Add(ctx context.Context, s *sample.Sample) error

	// Update persists changes to an existing sample.
	Update(ctx context.Context, s *sample.Sample) error

	// Get retrieves a sample by id. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id uint) (*sample.Sample, error)

	// FindByTypeAndSampleID locates an existing sample by its sample type and
	// human-readable sample id, preventing duplicate rows when the same
	// barcode is resubmitted. Returns (nil, nil) when absent.
	FindByTypeAndSampleID(ctx context.Context, sampleTypeID uint, sampleID string) (*sample.Sample, error)

	// MaterialByBarcode locates a material by its unique barcode.
	// Returns (nil, nil) when absent.
	MaterialByBarcode(ctx context.Context, barcode string) (*sample.Material, error)

	// AddMaterial persists a new material row.
	AddMaterial(ctx context.Context, m *sample.Material) error

	// PruneOrderSamples detaches from the order's items every sample not in
	// keep, then deletes those samples that are no longer referenced by any
	// order item. Returns the ids of the deleted samples.
	PruneOrderSamples(ctx context.Context, orderID uint, keep []uint) ([]uint, error)
}
