package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

// ParseOrderStatus validates s against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := transitions[st]
	return st, ok
}

// CanTransition reports whether an order in s may move to next. Re-applying
// the current status is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool { return len(transitions[s]) == 0 }

// Order is a checkout. Items holds the client's line items exactly as
// submitted; Lines is the decoded view returned to clients.
type Order struct {
	ID              uint              `gorm:"primaryKey"                    json:"id"`
	CustomerName    string            `gorm:"size:255"                      json:"customer_name"`
	CustomerPhone   string            `gorm:"size:100"                      json:"customer_phone"`
	CustomerEmail   string            `gorm:"size:255"                      json:"customer_email"`
	DeliveryAddress string            `gorm:"type:text"                     json:"delivery_address"`
	TotalAmount     float64           `                                     json:"total_amount"`
	Status          OrderStatus       `gorm:"size:20;default:pending;index" json:"status"`
	Items           string            `gorm:"type:text"                     json:"-"`
	CreatedAt       time.Time         `gorm:"autoCreateTime;index"          json:"created_at"`
	Lines           []json.RawMessage `gorm:"-"                             json:"items"`
}

// AfterFind decodes Items. Rows whose items cannot be decoded get an empty
// list instead of failing the read.
func (o *Order) AfterFind(*gorm.DB) error {
	o.Lines = DecodeLines(o.Items)
	return nil
}

// DecodeLines parses a stored items column.
func DecodeLines(raw string) []json.RawMessage {
	var lines []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &lines); err != nil || lines == nil {
		return []json.RawMessage{}
	}
	return lines
}

// OrderItem is the subset of a client line item the shop reads back, for
// instance to list it in the order notification.
type OrderItem struct {
	Name       string   `json:"name"`
	Quantity   float64  `json:"quantity"`
	Price      float64  `json:"price"`
	Discount   float64  `json:"discount"`
	FinalPrice *float64 `json:"finalPrice,omitempty"`
}

// Final returns the per-unit price after discount, preferring the value
// the client computed.
func (i OrderItem) Final() float64 {
	if i.FinalPrice != nil {
		return *i.FinalPrice
	}
	return DiscountedPrice(i.Price, i.Discount)
}

// ParseItems decodes the readable fields of each line. Lines that are not
// objects of the expected shape are skipped.
func ParseItems(lines []json.RawMessage) []OrderItem {
	out := make([]OrderItem, 0, len(lines))
	for _, raw := range lines {
		var it OrderItem
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}
		out = append(out, it)
	}
	return out
}
