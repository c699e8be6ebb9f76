package postgres

import (
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/user"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every aggregate table,
// including the explicit join entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&catalog.Test{},
		&catalog.SampleType{},
		&catalog.OrderForm{},
		&patient.Patient{},
		&patient.Relation{},
		&sample.Material{},
		&sample.Sample{},
		&order.Order{},
		&order.Item{},
		&order.ItemPatient{},
	)
}
