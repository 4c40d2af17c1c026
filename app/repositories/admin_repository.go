package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername looks up an admin by exact username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	return a, err
}

func (r *AdminRepository) All(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	err := r.db.WithContext(ctx).Order("id").Find(&admins).Error
	return admins, err
}

// CreateIfAbsent inserts a unless the username is taken. It reports
// whether a row was written.
func (r *AdminRepository) CreateIfAbsent(ctx context.Context, a *models.Admin) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(a)
	return res.RowsAffected > 0, res.Error
}
