// Package sample provides the specimen entities: Sample records collected
// during intake or import, and the barcode-identified physical Materials they
// may be drawn into.
package sample

import "time"

// Sample is one specimen record. It is a shared leaf of the order aggregate:
// once referenced by materials or patients it is keyed by (sample type,
// human-readable sample id) rather than owned by a single order item, and it
// is deleted only when no order item references it after a re-sync.
type Sample struct {
	ID uint `gorm:"primaryKey"`

	// SampleID is the human-readable specimen identifier (usually the tube
	// barcode printed at collection). Optional for sample types that do not
	// require identifying barcodes.
	SampleID *string `gorm:"size:100;index:idx_samples_type_sample_id,priority:2"`

	SampleTypeID uint  `gorm:"not null;index:idx_samples_type_sample_id,priority:1"`
	MaterialID   *uint `gorm:"index"`
	PatientID    *uint `gorm:"index"`

	CollectionDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Sample) TableName() string {
	return "samples"
}

// Material is a physical, barcode-identified consumable (e.g. a collection
// tube) that may be linked to a sample. The barcode is globally unique.
type Material struct {
	ID uint `gorm:"primaryKey"`

	Barcode      string `gorm:"size:100;not null;uniqueIndex"`
	SampleTypeID uint   `gorm:"not null;index"`

	// OrderMaterialID references the batch the material was dispatched in,
	// when it was dispatched through a material order.
	OrderMaterialID *uint `gorm:"index"`

	ExpireDate *time.Time `gorm:"type:date"`
	UserID     *uint      `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Material) TableName() string {
	return "materials"
}
