package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20240215000000_add_specifications_to_products", &AddSpecificationsToProducts{})
}

// AddSpecificationsToProducts is additive; databases created before the
// runner existed may already have the column.
type AddSpecificationsToProducts struct{}

func (m *AddSpecificationsToProducts) Up(db *gorm.DB) error {
	if db.Migrator().HasColumn(&models.Product{}, "Specifications") {
		return nil
	}
	return db.Migrator().AddColumn(&models.Product{}, "Specifications")
}

func (m *AddSpecificationsToProducts) Down(db *gorm.DB) error {
	if !db.Migrator().HasColumn(&models.Product{}, "Specifications") {
		return nil
	}
	return db.Migrator().DropColumn(&models.Product{}, "Specifications")
}
