package ports

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for the order aggregate,
// including its items and their sample/patient associations.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the order's own row: step, status, main patient and
	// the attached form/consent/file documents. Items and associations are
	// maintained through the dedicated methods below.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id with its items (and their patient edges)
	// preloaded. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id uint) (*order.Order, error)

	// GetByServerID retrieves an order by its external identifier.
	// Returns (nil, nil) when no such order exists.
	GetByServerID(ctx context.Context, serverID int64) (*order.Order, error)

	// SyncTests reconciles the order's item set against the given test ids:
	// items for newly selected tests are created, items for dropped tests are
	// deleted together with their association rows, items for kept tests are
	// untouched. The aggregate's OrderItems are reloaded afterwards.
	SyncTests(ctx context.Context, aggregate *order.Order, testIDs []uint) error

	// AddItem persists a new order item (import path).
	AddItem(ctx context.Context, item *order.Item) error

	// ReplacePatients sets the order's patient reference set.
	ReplacePatients(ctx context.Context, orderID uint, patientIDs []uint) error

	// SetItemPatients clears the item's patient edges and attaches the given
	// list; the patient at index 0 is flagged as main for the item.
	SetItemPatients(ctx context.Context, itemID uint, patientIDs []uint) error

	// AttachItemPatient adds a single patient edge with an explicit main
	// flag, leaving existing edges in place (import path).
	AttachItemPatient(ctx context.Context, itemID, patientID uint, isMain bool) error

	// AttachItemSample links a sample to an item without detaching samples
	// already on it. Attaching an already-linked sample is a no-op.
	AttachItemSample(ctx context.Context, itemID, sampleID uint) error

	// LinkedSampleIDs returns the distinct ids of samples linked to any of
	// the order's items.
	LinkedSampleIDs(ctx context.Context, orderID uint) ([]uint, error)

	// CountItems returns the number of items on the order.
	CountItems(ctx context.Context, orderID uint) (int64, error)

	// CountSamples returns the number of distinct samples linked to the
	// order's items.
	CountSamples(ctx context.Context, orderID uint) (int64, error)

	// UpdateStatus sets only the order's status.
	UpdateStatus(ctx context.Context, orderID uint, status order.Status) error
}
