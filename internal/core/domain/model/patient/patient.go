// Package patient provides the demographic entities referenced by orders:
// the Patient record itself and the edge-attributed relation graph between
// patients (parent, sibling, fetus-of, ...).
package patient

import (
	"time"
)

// Gender is a tri-state demographic value matching the external system's
// wire encoding: -1 unknown, 0 female, 1 male.
type Gender int8

const (
	GenderUnknown Gender = -1
	GenderFemale  Gender = 0
	GenderMale    Gender = 1
)

// Valid reports whether the gender carries one of the three wire values.
func (g Gender) Valid() bool {
	return g == GenderUnknown || g == GenderFemale || g == GenderMale
}

// Contact is the optional contact block embedded in the patient row.
type Contact struct {
	Address string `gorm:"size:500" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Country string `gorm:"size:100" json:"country"`
}

// Patient is a demographic record owned by the requesting account. It may be
// referenced by many orders. External identity comes in three flavors, tried
// in this resolution order during import: ServerID (id minted by the system
// of record), ReferenceCode, then IDNumber.
type Patient struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`

	ServerID      *int64  `gorm:"uniqueIndex"`
	ReferenceCode *string `gorm:"size:100;index"`
	IDNumber      *string `gorm:"size:100;index"`

	FullName    string `gorm:"size:255;not null"`
	Nationality string `gorm:"size:100"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Gender      Gender     `gorm:"type:smallint;not null;default:-1"`

	// Consanguinity is tri-state: nil means unknown.
	Consanguinity *bool
	IsFetus       bool `gorm:"not null;default:false"`

	Contact Contact `gorm:"embedded;embeddedPrefix:contact_"`

	Relatives []Relation `gorm:"foreignKey:PatientID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Patient) TableName() string {
	return "patients"
}

// Demographics carries the mutable demographic fields of a patient as
// submitted during intake or import.
type Demographics struct {
	FullName      string
	Nationality   string
	DateOfBirth   *time.Time
	Gender        Gender
	Consanguinity *bool
	IsFetus       bool
	Contact       Contact
}

// Apply writes the demographics onto the patient and reports whether anything
// actually changed. Callers use the return value as a dirty check: an
// unchanged patient must not be written back, so resubmitting identical data
// leaves the stored row (and its update marker) untouched.
func (p *Patient) Apply(d Demographics) bool {
	changed := false

	if p.FullName != d.FullName {
		p.FullName = d.FullName
		changed = true
	}
	if p.Nationality != d.Nationality {
		p.Nationality = d.Nationality
		changed = true
	}
	if !equalDate(p.DateOfBirth, d.DateOfBirth) {
		p.DateOfBirth = d.DateOfBirth
		changed = true
	}
	if p.Gender != d.Gender {
		p.Gender = d.Gender
		changed = true
	}
	if !equalBoolPtr(p.Consanguinity, d.Consanguinity) {
		p.Consanguinity = d.Consanguinity
		changed = true
	}
	if p.IsFetus != d.IsFetus {
		p.IsFetus = d.IsFetus
		changed = true
	}
	if p.Contact != d.Contact {
		p.Contact = d.Contact
		changed = true
	}

	return changed
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
