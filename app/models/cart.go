package models

// CartItem is one line of a session's cart.
type CartItem struct {
	ID        uint   `gorm:"primaryKey"         json:"id"`
	ProductID uint   `gorm:"not null;index"     json:"product_id"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
	SessionID string `gorm:"size:255;index"     json:"session_id"`

	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string { return "cart" }

// CartLine is a cart row joined with its product.
type CartLine struct {
	ID          uint    `json:"id"`
	Quantity    int     `json:"quantity"`
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}
