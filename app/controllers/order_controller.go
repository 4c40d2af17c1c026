package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store POST /api/orders
func (h *OrderController) Store(c *ctx.Context) {
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.orders.Place(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"id": o.ID, "message": "Order created", "order": o})
}

// Show GET /api/orders/{id}
func (h *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	o, err := h.orders.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Index GET /api/admin/orders
func (h *OrderController) Index(c *ctx.Context) {
	orders, err := h.orders.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus PUT /api/admin/orders/{id}/status
func (h *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.orders.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	if admin, ok := middleware.AdminFromCtx(c.Context()); ok {
		logger.WithCtx(c.Context()).Info("order status set", "order_id", id, "status", o.Status, "admin", admin.Username)
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Order status updated", "status": o.Status})
}
