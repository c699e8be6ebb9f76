// Package order provides the aggregate root of the intake workflow: the
// Order with its step state machine, processing status, order items, and the
// form/consent/file documents attached to the relational aggregate.
//
// Key business rules:
//   - The step pointer only moves forward, via Step.Next; the terminal step
//     is its own successor so re-finalizing is idempotent.
//   - Status "requested" is reachable only from the terminal step.
//   - Attached forms are order-scoped copies of catalog templates.
//   - ServerID is the external system's id and, when present, is unique; it
//     is the idempotency key of the import path.
package order

import (
	"time"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Order is the aggregate root representing one diagnostic request as it moves
// through intake and, after synchronization, through the external system's
// processing pipeline.
type Order struct {
	ID uint `gorm:"primaryKey"`

	// ReferenceID is the local human-shareable reference for the order.
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	// ServerID is the identifier minted by the external system of record.
	// Nullable, unique when present; imports key idempotency on it.
	ServerID *int64 `gorm:"uniqueIndex"`

	// UserID is the requesting account that owns the order.
	UserID uint `gorm:"not null;index"`

	Step   Step   `gorm:"size:50;not null;default:'test_method'"`
	Status Status `gorm:"size:50;not null;default:'pending'"`

	MainPatientID *uint
	Patients      []patient.Patient `gorm:"many2many:order_patients"`

	OrderItems []Item `gorm:"foreignKey:OrderID"`

	// Forms, Consents and Files are the document blocks attached to the
	// relational aggregate. Orders own these exclusively.
	Forms    FormDocList    `gorm:"type:jsonb"`
	Consents ConsentDoc     `gorm:"type:jsonb"`
	Files    pq.StringArray `gorm:"type:text[]"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a fresh intake order for the given account, positioned at
// the first workflow step with a generated reference id.
func NewOrder(userID uint) *Order {
	return &Order{
		ReferenceID: uuid.New(),
		UserID:      userID,
		Step:        StepTestMethod,
		Status:      StatusPending,
	}
}

// AdvanceStep moves the step pointer to the successor of the step that was
// just applied. The pointer is a high-water mark: it only moves when the
// applied step is the order's current one, so re-running an earlier step
// never pushes the order past stages that have not been submitted. At the
// terminal step this is a no-op.
func (o *Order) AdvanceStep(applied Step) {
	if applied != o.Step {
		return
	}
	o.Step = o.Step.Next()
}

// MarkRequested transitions the order to the requested status. Only the
// terminal workflow step may request an order.
func (o *Order) MarkRequested() error {
	if o.Step != StepFinalize {
		return errs.NewValueIsInvalidErrorWithCause("step",
			errs.NewValueIsRequiredError("finalize step"))
	}
	o.Status = StatusRequested
	return nil
}

// MergeFiles unions newly uploaded file paths into the order's file list
// without dropping any previously stored path.
func (o *Order) MergeFiles(files []string) {
	seen := make(map[string]struct{}, len(o.Files))
	for _, f := range o.Files {
		seen[f] = struct{}{}
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		o.Files = append(o.Files, f)
		seen[f] = struct{}{}
	}
}

// ItemForTest returns the order item joining the given test, or nil.
func (o *Order) ItemForTest(testID uint) *Item {
	for i := range o.OrderItems {
		if o.OrderItems[i].TestID == testID {
			return &o.OrderItems[i]
		}
	}
	return nil
}

// TestIDs returns the ids of the currently selected tests.
func (o *Order) TestIDs() []uint {
	ids := make([]uint, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		ids = append(ids, item.TestID)
	}
	return ids
}
