package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index GET /api/products
func (h *ProductController) Index(c *ctx.Context) {
	products, err := h.catalog.Products(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Discounted GET /api/products/discounted
func (h *ProductController) Discounted(c *ctx.Context) {
	products, err := h.catalog.DiscountedProducts(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Show GET /api/products/{id}
func (h *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	p, err := h.catalog.Product(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Search GET /api/search?q=&category=
func (h *ProductController) Search(c *ctx.Context) {
	products, err := h.catalog.Search(c.Context(), c.Query("q"), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Store POST /api/admin/products
func (h *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"id": p.ID, "message": "Product added"})
}

// Update PUT /api/admin/products/{id}
func (h *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	if _, err := h.catalog.UpdateProduct(c.Context(), id, in); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Product updated"})
}

// Destroy DELETE /api/admin/products/{id}
func (h *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Product deleted"})
}

// Broadcast POST /api/admin/send-to-telegram
func (h *ProductController) Broadcast(c *ctx.Context) {
	n, err := h.catalog.BroadcastCatalog(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusOK, map[string]any{"message": "No products to send", "count": 0})
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Sending %d products to Telegram started", n),
		"count":   n,
	})
}
