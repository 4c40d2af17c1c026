package migrations

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20240101000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20240101000002_create_cart_table", &CreateCartTable{})
}

// productV1 is the products table before specifications existed.
type productV1 struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Price       float64   `gorm:"not null;default:0"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:text"`
	Category    string    `gorm:"size:255;index:idx_products_category"`
	Stock       int       `gorm:"not null;default:0"`
	Discount    float64   `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_products_created_at"`
}

func (productV1) TableName() string { return "products" }

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&productV1{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

type CreateCartTable struct{}

func (m *CreateCartTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.CartItem{})
}

func (m *CreateCartTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart")
}
