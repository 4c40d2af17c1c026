package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

func init() {
	Register("settings", SeedSettings)
	Register("admin", SeedAdmin)
}

// SeedSettings inserts site_enabled, maintenance_message and show_discounts
// when missing. Existing values are left alone.
func SeedSettings(ctx context.Context, db *gorm.DB) error {
	return services.NewSettingsService(repositories.NewSettingRepository(db), nil).Seed(ctx)
}

// SeedAdmin creates the default admin from ADMIN_USERNAME/ADMIN_PASSWORD
// unless that username already exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	svc := services.NewAdminService(
		repositories.NewAdminRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewOrderRepository(db),
	)
	created, err := svc.EnsureAdmin(ctx, config.AdminUsername(), config.AdminPassword())
	if err != nil {
		return err
	}
	if created {
		logger.Info("default admin created", "username", config.AdminUsername())
	}
	return nil
}
