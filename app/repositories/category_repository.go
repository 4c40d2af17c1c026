package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns categories ordered by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Rename sets the name of category id. Returns gorm.ErrRecordNotFound when
// the row does not exist.
func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.Select("id").First(&c, id).Error; err != nil {
			return err
		}
		return tx.Model(&c).Update("name", name).Error
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	return res.RowsAffected, res.Error
}
