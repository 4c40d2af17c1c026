package models

import "time"

// Category names are unique and compared case-sensitively.
type Category struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	Name      string    `gorm:"size:255;not null;unique"  json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime"            json:"created_at"`
}
