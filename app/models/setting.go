package models

import "time"

// Known setting keys.
const (
	SettingSiteEnabled        = "site_enabled"
	SettingMaintenanceMessage = "maintenance_message"
	SettingShowDiscounts      = "show_discounts"
)

// DefaultMaintenanceMessage is shown while the site is disabled and no
// custom message was saved.
const DefaultMaintenanceMessage = "The site is being updated. We'll be back soon!"

// Setting is a string key/value pair. Booleans are stored as "true"/"false".
type Setting struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	Key       string    `gorm:"size:100;not null;unique"  json:"key"`
	Value     string    `gorm:"type:text"                 json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"            json:"updated_at"`
}
