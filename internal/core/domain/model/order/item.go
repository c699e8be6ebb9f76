package order

import (
	"time"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
)

// Item joins an Order to a single Test. It carries its own sample and patient
// associations; the patient join records which patient is the main subject of
// this particular test.
type Item struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"not null;index"`

	TestID uint         `gorm:"not null;index"`
	Test   catalog.Test `gorm:"foreignKey:TestID"`

	// ServerID is the external system's id for this item, set during import.
	ServerID *int64 `gorm:"index"`

	Samples []sample.Sample `gorm:"many2many:order_item_samples"`

	// Patients uses an explicit join entity because the edge carries the
	// is-main flag.
	Patients []ItemPatient `gorm:"foreignKey:OrderItemID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Item) TableName() string {
	return "order_items"
}

// ItemPatient is the edge between an order item and a patient, flagged when
// the patient is the main subject for that item's test.
type ItemPatient struct {
	OrderItemID uint `gorm:"primaryKey;autoIncrement:false"`
	PatientID   uint `gorm:"primaryKey;autoIncrement:false"`

	IsMain bool `gorm:"not null;default:false"`
}

// TableName overrides GORM's default naming.
func (ItemPatient) TableName() string {
	return "order_item_patients"
}
