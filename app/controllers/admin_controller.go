package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AdminController struct {
	admins *services.AdminService
}

func NewAdminController(admins *services.AdminService) *AdminController {
	return &AdminController{admins: admins}
}

// Login POST /api/admin/login
func (h *AdminController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	a, token, err := h.admins.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"admin":   map[string]any{"id": a.ID, "username": a.Username},
		"token":   token,
	})
}

// Check GET /api/admin/check
func (h *AdminController) Check(c *ctx.Context) {
	admins, err := h.admins.Admins(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"admins": admins})
}

// Stats GET /api/admin/stats
func (h *AdminController) Stats(c *ctx.Context) {
	st, err := h.admins.Stats(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
