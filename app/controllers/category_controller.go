package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type categoryInput struct {
	Name string `json:"name"`
}

func (h *CategoryController) Index(c *ctx.Context) {
	categories, err := h.catalog.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryController) Store(c *ctx.Context) {
	var in categoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.catalog.CreateCategory(c.Context(), in.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"id": cat.ID, "name": cat.Name, "message": "Category added"})
}

func (h *CategoryController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in categoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.catalog.RenameCategory(c.Context(), id, in.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"id": cat.ID, "name": cat.Name, "message": "Category updated"})
}

func (h *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Category deleted"})
}
