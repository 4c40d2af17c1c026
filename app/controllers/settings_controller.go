package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// Index GET /api/admin/settings
func (h *SettingsController) Index(c *ctx.Context) {
	all, err := h.settings.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

// Update PUT /api/admin/settings
func (h *SettingsController) Update(c *ctx.Context) {
	var in services.SettingsInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.settings.Update(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SiteStatus GET /api/site-status
func (h *SettingsController) SiteStatus(c *ctx.Context) {
	st, err := h.settings.SiteStatus(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
