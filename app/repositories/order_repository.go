package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) Find(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	return o, err
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

// Transition moves the order from one status to another. It only succeeds
// while the stored status still equals from, so two concurrent updates
// cannot both apply. Returns the number of rows changed.
func (r *OrderRepository) Transition(ctx context.Context, id uint, from, to models.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// Revenue sums total_amount over orders in status.
func (r *OrderRepository) Revenue(ctx context.Context, status models.OrderStatus) (float64, error) {
	var sum struct{ Total float64 }
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status = ?", status).
		Scan(&sum).Error
	return sum.Total, err
}
