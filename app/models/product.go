package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog item. DiscountedPrice is never stored; it is filled
// in after every load.
type Product struct {
	ID              uint      `gorm:"primaryKey"                  json:"id"`
	Name            string    `gorm:"size:255;not null"           json:"name"`
	Price           float64   `gorm:"not null;default:0"          json:"price"`
	Description     string    `gorm:"type:text"                   json:"description"`
	Image           string    `gorm:"type:text"                   json:"image"`
	Category        string    `gorm:"size:255;index"              json:"category"`
	Stock           int       `gorm:"not null;default:0"          json:"stock"`
	Discount        float64   `gorm:"not null;default:0"          json:"discount"`
	Specifications  string    `gorm:"type:text"                   json:"specifications"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"        json:"created_at"`
	DiscountedPrice float64   `gorm:"-"                           json:"discounted_price"`
}

// FinalPrice is price minus discount percent.
func (p Product) FinalPrice() float64 {
	return DiscountedPrice(p.Price, p.Discount)
}

// HasDiscount reports whether a discount applies.
func (p Product) HasDiscount() bool { return p.Discount > 0 }

func (p *Product) AfterFind(*gorm.DB) error {
	p.DiscountedPrice = p.FinalPrice()
	return nil
}

func (p *Product) AfterSave(*gorm.DB) error {
	p.DiscountedPrice = p.FinalPrice()
	return nil
}

// DiscountedPrice applies a percentage discount to price.
func DiscountedPrice(price, discount float64) float64 {
	return price - price*discount/100
}
