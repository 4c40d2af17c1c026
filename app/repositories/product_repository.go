package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns every product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&products).Error
	return products, err
}

// Discounted returns products with a discount, highest discount first.
func (r *ProductRepository) Discounted(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("discount > ?", 0).
		Order("discount DESC").
		Find(&products).Error
	return products, err
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// Search matches q against name or description and filters by exact
// category. Empty arguments are ignored.
func (r *ProductRepository) Search(ctx context.Context, q, category string) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var products []models.Product
	err := tx.Order("id").Find(&products).Error
	return products, err
}

// Create persists p and fills in its id.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Replace overwrites every mutable column of the product with p.ID.
// Returns gorm.ErrRecordNotFound when there is no such row.
func (r *ProductRepository) Replace(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Select("id", "created_at").First(&existing, p.ID).Error; err != nil {
			return err
		}
		p.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).
			Select("name", "price", "description", "image", "category", "stock", "discount", "specifications").
			Updates(p).Error
	})
}

// Delete removes the product and reports how many rows went away.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}
