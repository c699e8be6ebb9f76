// Package catalog holds the read-mostly reference entities consulted during
// intake and import: orderable tests, specimen sample types, and intake form
// templates. Catalog rows are treated as immutable snapshots for the duration
// of a single engine call.
package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Test is a catalog entry for an orderable laboratory test.
type Test struct {
	ID       uint   `gorm:"primaryKey"`
	ServerID *int64 `gorm:"uniqueIndex"`

	Name           string `gorm:"size:255;not null"`
	Code           string `gorm:"size:100;not null"`
	TurnaroundDays int
	IsActive       bool `gorm:"not null;default:true"`

	// Placeholder marks rows auto-created during import because the external
	// payload referenced a test unknown to the local catalog. Placeholders are
	// surfaced by the catalog audit job for later curation.
	Placeholder bool `gorm:"not null;default:false"`

	OrderForms  []OrderForm  `gorm:"many2many:test_order_forms"`
	SampleTypes []SampleType `gorm:"many2many:test_sample_types"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Test) TableName() string {
	return "tests"
}

// SampleType is a catalog description of a specimen kind.
type SampleType struct {
	ID       uint   `gorm:"primaryKey"`
	ServerID *int64 `gorm:"uniqueIndex"`

	Name      string `gorm:"size:255;not null"`
	Orderable bool   `gorm:"not null;default:true"`

	// SampleIDRequired means specimens of this type must reference a
	// barcode-identified physical material. Intake fails hard when the
	// barcode does not resolve, since an unresolvable barcode indicates an
	// unlabeled physical specimen.
	SampleIDRequired bool `gorm:"not null;default:false"`

	// Placeholder marks rows auto-created during import; see Test.Placeholder.
	Placeholder bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (SampleType) TableName() string {
	return "sample_types"
}

// FormField is one field definition of an intake form template.
type FormField struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// FormFieldList is the template's ordered field definitions, stored as jsonb.
type FormFieldList []FormField

// Value implements driver.Valuer for jsonb persistence.
func (l FormFieldList) Value() (driver.Value, error) {
	if l == nil {
		l = FormFieldList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb persistence.
func (l *FormFieldList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		if s, isString := src.(string); isString {
			raw = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into FormFieldList", src)
		}
	}
	return json.Unmarshal(raw, l)
}

// OrderForm is a reusable intake questionnaire template. Attaching it to an
// order copies the field definitions into the order document, so the template
// itself is never mutated by intake.
type OrderForm struct {
	ID uint `gorm:"primaryKey"`

	Name   string        `gorm:"size:255;not null"`
	Fields FormFieldList `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (OrderForm) TableName() string {
	return "order_forms"
}
