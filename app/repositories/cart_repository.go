package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Add(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// Lines returns the session's cart joined with product details. Rows whose
// product no longer exists are left out.
func (r *CartRepository) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := r.db.WithContext(ctx).
		Table("cart AS c").
		Select("c.id, c.quantity, p.id AS product_id, p.name, p.price, p.description, p.image").
		Joins("JOIN products p ON c.product_id = p.id").
		Where("c.session_id = ?", sessionID).
		Order("c.id").
		Scan(&lines).Error
	return lines, err
}

// SetQuantity updates one row and reports how many rows matched.
func (r *CartRepository) SetQuantity(ctx context.Context, id uint, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

func (r *CartRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, id)
	return res.RowsAffected, res.Error
}
