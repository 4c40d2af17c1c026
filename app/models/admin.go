package models

import "time"

type Admin struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	Username  string    `gorm:"size:255;not null;unique"  json:"username"`
	Password  string    `gorm:"size:255;not null"         json:"-"` // bcrypt hash
	CreatedAt time.Time `gorm:"autoCreateTime"            json:"created_at"`
}
