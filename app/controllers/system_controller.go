package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// Root GET /api
func Root(c *ctx.Context) {
	c.String(http.StatusOK, "API is running")
}

// Ping GET /api/ping
func Ping(c *ctx.Context) {
	c.JSON(http.StatusOK, map[string]any{
		"status":    "active",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"message":   "Server is active",
	})
}

// Test GET /api/test
func Test(c *ctx.Context) {
	c.JSON(http.StatusOK, map[string]any{"message": "Server is working!"})
}
