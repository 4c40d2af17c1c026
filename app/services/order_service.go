package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// OrderInput is the checkout body. Items are stored exactly as sent and
// TotalAmount is trusted as computed by the client.
type OrderInput struct {
	CustomerName    string            `json:"customer_name"    validate:"required"`
	CustomerPhone   string            `json:"customer_phone"   validate:"required"`
	CustomerEmail   string            `json:"customer_email"`
	DeliveryAddress string            `json:"delivery_address"`
	TotalAmount     float64           `json:"total_amount"     validate:"gte=0"`
	Items           []json.RawMessage `json:"items"            validate:"required,min=1"`
}

type OrderService struct {
	orders   *repositories.OrderRepository
	notifier Notifier
}

func NewOrderService(orders *repositories.OrderRepository, notifier Notifier) *OrderService {
	return &OrderService{orders: orders, notifier: orDiscard(notifier)}
}

// Place stores a new pending order and notifies the orders channel.
func (s *OrderService) Place(ctx context.Context, in OrderInput) (models.Order, error) {
	raw, err := json.Marshal(in.Items)
	if err != nil {
		return models.Order{}, newError(ErrValidation, "Items must be valid JSON")
	}

	o := models.Order{
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		DeliveryAddress: in.DeliveryAddress,
		TotalAmount:     in.TotalAmount,
		Status:          models.StatusPending,
		Items:           string(raw),
	}
	if err := s.orders.Create(ctx, &o); err != nil {
		return o, fmt.Errorf("create order: %w", err)
	}
	o.Lines = in.Items

	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order created", "order_id", o.ID, "items", len(in.Items))

	s.notifier.Notify(ctx, notifications.OrderPlaced{Order: o, Items: models.ParseItems(o.Lines)})
	return o, nil
}

func (s *OrderService) Find(ctx context.Context, id uint) (models.Order, error) {
	o, err := s.orders.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return o, newError(ErrNotFound, "Order not found")
	}
	if err != nil {
		return o, fmt.Errorf("find order %d: %w", id, err)
	}
	return o, nil
}

func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order along its lifecycle. Setting the current
// status again succeeds without a notification.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (models.Order, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return models.Order{}, newError(ErrValidation,
			fmt.Sprintf("Unknown status %q", status))
	}

	o, err := s.Find(ctx, id)
	if err != nil {
		return o, err
	}
	if o.Status == next {
		return o, nil
	}
	if o.Status.Terminal() {
		return o, newError(ErrInvalidTransition,
			fmt.Sprintf("Order is already %s", o.Status))
	}
	if !o.Status.CanTransition(next) {
		return o, newError(ErrInvalidTransition,
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, next))
	}

	n, err := s.orders.Transition(ctx, id, o.Status, next)
	if err != nil {
		return o, fmt.Errorf("update order %d status: %w", id, err)
	}
	if n == 0 {
		return o, newError(ErrInvalidTransition, "Order status changed concurrently, reload and retry")
	}
	o.Status = next

	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "status", next)
	s.notifier.Notify(ctx, notifications.OrderStatusChanged{OrderID: id, Status: next})
	return o, nil
}
