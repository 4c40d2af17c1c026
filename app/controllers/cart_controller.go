package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// Store POST /api/cart
func (h *CartController) Store(c *ctx.Context) {
	var in services.CartInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.cart.Add(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"id": item.ID, "message": "Product added to cart"})
}

// Show GET /api/cart/{session_id}
func (h *CartController) Show(c *ctx.Context) {
	lines, err := h.cart.Lines(c.Context(), c.Param("session_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// Update PUT /api/cart/{id}
func (h *CartController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in struct {
		Quantity *int `json:"quantity" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := h.cart.SetQuantity(c.Context(), id, *in.Quantity); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Quantity updated"})
}

// Destroy DELETE /api/cart/{id}
func (h *CartController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Product removed from cart"})
}
