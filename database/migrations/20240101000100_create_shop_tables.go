package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

func init() {
	migration.Register("20240101000100_create_orders_table", &CreateOrdersTable{})
	migration.Register("20240101000101_create_admins_table", &CreateAdminsTable{})
	migration.Register("20240101000102_create_settings_table", &CreateSettingsTable{})
	migration.Register("20240101000103_create_failed_jobs_table", &CreateFailedJobsTable{})
}

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

type CreateAdminsTable struct{}

func (m *CreateAdminsTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Admin{})
}

func (m *CreateAdminsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admins")
}

type CreateSettingsTable struct{}

func (m *CreateSettingsTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Setting{})
}

func (m *CreateSettingsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("settings")
}

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
