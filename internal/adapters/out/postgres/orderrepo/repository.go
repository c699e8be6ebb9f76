// Package orderrepo implements the order aggregate repository over GORM.
// The aggregate's document blocks (forms, consents, files) live on the order
// row as jsonb/array columns; items and their sample/patient edges are
// relational rows maintained through dedicated association methods.
package orderrepo

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return r.db.WithContext(ctx).Omit("Patients", "OrderItems").Create(aggregate).Error
}

// Update persists the order's own row: workflow position, main patient and
// attached documents. Associations are maintained through dedicated methods.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ?", aggregate.ID).
		Updates(map[string]any{
			"step":            aggregate.Step,
			"status":          aggregate.Status,
			"main_patient_id": aggregate.MainPatientID,
			"forms":           aggregate.Forms,
			"consents":        aggregate.Consents,
			"files":           aggregate.Files,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID)
	}
	return nil
}

// Get retrieves an order by id with items and their patient edges preloaded.
func (r *GormOrderRepository) Get(ctx context.Context, id uint) (*order.Order, error) {
	var aggregate order.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.Patients").
		First(&aggregate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}
	return &aggregate, nil
}

// GetByServerID retrieves an order by external identifier, (nil, nil) when absent.
func (r *GormOrderRepository) GetByServerID(ctx context.Context, serverID int64) (*order.Order, error) {
	var aggregate order.Order
	err := r.db.WithContext(ctx).First(&aggregate, "server_id = ?", serverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &aggregate, nil
}

// SyncTests reconciles the order's items against the desired test set. Items
// for kept tests survive untouched; items for dropped tests are deleted with
// their association rows; missing tests get fresh items.
func (r *GormOrderRepository) SyncTests(ctx context.Context, aggregate *order.Order, testIDs []uint) error {
	db := r.db.WithContext(ctx)

	var items []order.Item
	if err := db.Find(&items, "order_id = ?", aggregate.ID).Error; err != nil {
		return err
	}

	want := make(map[uint]struct{}, len(testIDs))
	for _, id := range testIDs {
		want[id] = struct{}{}
	}

	have := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, keep := want[item.TestID]; keep {
			have[item.TestID] = struct{}{}
			continue
		}
		if err := db.Delete(&order.ItemPatient{}, "order_item_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := db.Exec("DELETE FROM order_item_samples WHERE order_item_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := db.Delete(&order.Item{}, "id = ?", item.ID).Error; err != nil {
			return err
		}
	}

	for _, id := range testIDs {
		if _, ok := have[id]; ok {
			continue
		}
		item := order.Item{OrderID: aggregate.ID, TestID: id}
		if err := db.Create(&item).Error; err != nil {
			return err
		}
	}

	return db.
		Preload("Patients").
		Find(&aggregate.OrderItems, "order_id = ?", aggregate.ID).Error
}

// AddItem persists a new order item.
func (r *GormOrderRepository) AddItem(ctx context.Context, item *order.Item) error {
	return r.db.WithContext(ctx).Omit("Test", "Samples", "Patients").Create(item).Error
}

// ReplacePatients sets the order's patient reference set.
func (r *GormOrderRepository) ReplacePatients(ctx context.Context, orderID uint, patientIDs []uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec("DELETE FROM order_patients WHERE order_id = ?", orderID).Error; err != nil {
		return err
	}
	for _, patientID := range patientIDs {
		err := db.Exec(
			"INSERT INTO order_patients (order_id, patient_id) VALUES (?, ?)",
			orderID, patientID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// SetItemPatients clears the item's patient edges and attaches the given
// list, flagging index 0 as main for the item.
func (r *GormOrderRepository) SetItemPatients(ctx context.Context, itemID uint, patientIDs []uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Delete(&order.ItemPatient{}, "order_item_id = ?", itemID).Error; err != nil {
		return err
	}
	for i, patientID := range patientIDs {
		edge := order.ItemPatient{
			OrderItemID: itemID,
			PatientID:   patientID,
			IsMain:      i == 0,
		}
		if err := db.Create(&edge).Error; err != nil {
			return err
		}
	}
	return nil
}

// AttachItemPatient adds or updates a single patient edge with an explicit
// main flag, leaving other edges alone.
func (r *GormOrderRepository) AttachItemPatient(ctx context.Context, itemID, patientID uint, isMain bool) error {
	db := r.db.WithContext(ctx)

	var edge order.ItemPatient
	err := db.First(&edge, "order_item_id = ? AND patient_id = ?", itemID, patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		edge = order.ItemPatient{OrderItemID: itemID, PatientID: patientID, IsMain: isMain}
		return db.Create(&edge).Error
	}
	if err != nil {
		return err
	}
	if edge.IsMain == isMain {
		return nil
	}
	return db.Model(&order.ItemPatient{}).
		Where("order_item_id = ? AND patient_id = ?", itemID, patientID).
		Update("is_main", isMain).Error
}

// AttachItemSample links a sample to an item without detaching others;
// linking twice is a no-op.
func (r *GormOrderRepository) AttachItemSample(ctx context.Context, itemID, sampleID uint) error {
	db := r.db.WithContext(ctx)

	var count int64
	err := db.Table("order_item_samples").
		Where("order_item_id = ? AND sample_id = ?", itemID, sampleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Exec(
		"INSERT INTO order_item_samples (order_item_id, sample_id) VALUES (?, ?)",
		itemID, sampleID,
	).Error
}

// LinkedSampleIDs returns the distinct sample ids linked to the order's items.
func (r *GormOrderRepository) LinkedSampleIDs(ctx context.Context, orderID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("order_item_samples").
		Joins("JOIN order_items ON order_items.id = order_item_samples.order_item_id").
		Where("order_items.order_id = ?", orderID).
		Distinct().
		Pluck("order_item_samples.sample_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountItems returns the number of items on the order.
func (r *GormOrderRepository) CountItems(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Item{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

// CountSamples returns the number of distinct samples linked to the order.
func (r *GormOrderRepository) CountSamples(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_item_samples").
		Joins("JOIN order_items ON order_items.id = order_item_samples.order_item_id").
		Where("order_items.order_id = ?", orderID).
		Distinct("order_item_samples.sample_id").
		Count(&count).Error
	return count, err
}

// UpdateStatus sets only the order's status column.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status order.Status) error {
	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", orderID)
	}
	return nil
}
