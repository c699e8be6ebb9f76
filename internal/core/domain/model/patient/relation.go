package patient

import "time"

// Relation is one edge of the self-referential patient graph. The edge
// carries its own attributes (relation type and free-text notes), so it is an
// explicit join entity rather than a bare many-to-many table.
//
// Relations are maintained with upsert-without-detach semantics: submitting a
// patient's relations inserts missing edges and updates existing ones, but
// never deletes edges that were not mentioned.
type Relation struct {
	PatientID  uint `gorm:"primaryKey;autoIncrement:false"`
	RelativeID uint `gorm:"primaryKey;autoIncrement:false"`

	Relationship string `gorm:"size:50;not null"`
	Description  string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (Relation) TableName() string {
	return "patient_relatives"
}
