// Package routes mounts the storefront's HTTP API.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Controllers groups every controller the API needs.
type Controllers struct {
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Admin      *controllers.AdminController
	Settings   *controllers.SettingsController
	Uploads    *controllers.UploadController

	// GraphQL and Feed are optional.
	GraphQL http.Handler
	Feed    http.HandlerFunc
}

// RegisterAPI mounts public and admin routes under /api. With
// adminAuthRequired, admin routes other than login need a bearer token.
func RegisterAPI(r *router.Router, c Controllers, adminAuthRequired bool) {
	api := r.Group("/api")

	api.Get("/", "api.root", ctx.Wrap(controllers.Root))
	api.Get("/ping", "api.ping", ctx.Wrap(controllers.Ping))
	api.Get("/test", "api.test", ctx.Wrap(controllers.Test))

	api.Get("/products", "products.index", ctx.Wrap(c.Products.Index))
	api.Get("/products/discounted", "products.discounted", ctx.Wrap(c.Products.Discounted))
	api.Get("/products/{id}", "products.show", ctx.Wrap(c.Products.Show))
	api.Get("/search", "products.search", ctx.Wrap(c.Products.Search))
	api.Get("/categories", "categories.index", ctx.Wrap(c.Categories.Index))
	api.Get("/site-status", "site.status", ctx.Wrap(c.Settings.SiteStatus))

	api.Post("/cart", "cart.store", ctx.Wrap(c.Cart.Store))
	api.Get("/cart/{session_id}", "cart.show", ctx.Wrap(c.Cart.Show))
	api.Put("/cart/{id}", "cart.update", ctx.Wrap(c.Cart.Update))
	api.Delete("/cart/{id}", "cart.destroy", ctx.Wrap(c.Cart.Destroy))

	api.Post("/orders", "orders.store", ctx.Wrap(c.Orders.Store))
	api.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Orders.Show))

	if c.GraphQL != nil {
		api.Get("/graphql", "graphql.get", c.GraphQL.ServeHTTP)
		api.Post("/graphql", "graphql.post", c.GraphQL.ServeHTTP)
	}

	api.Post("/admin/login", "admin.login", ctx.Wrap(c.Admin.Login))

	admin := api.Group("/admin", middleware.AdminAuth(adminAuthRequired))
	admin.Get("/check", "admin.check", ctx.Wrap(c.Admin.Check))
	admin.Get("/stats", "admin.stats", ctx.Wrap(c.Admin.Stats))

	admin.Post("/products", "admin.products.store", ctx.Wrap(c.Products.Store))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(c.Products.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(c.Products.Destroy))
	admin.Post("/send-to-telegram", "admin.products.broadcast", ctx.Wrap(c.Products.Broadcast))

	admin.Post("/categories", "admin.categories.store", ctx.Wrap(c.Categories.Store))
	admin.Put("/categories/{id}", "admin.categories.update", ctx.Wrap(c.Categories.Update))
	admin.Delete("/categories/{id}", "admin.categories.destroy", ctx.Wrap(c.Categories.Destroy))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(c.Orders.Index))
	admin.Put("/orders/{id}/status", "admin.orders.status", ctx.Wrap(c.Orders.UpdateStatus))

	admin.Get("/settings", "admin.settings.index", ctx.Wrap(c.Settings.Index))
	admin.Put("/settings", "admin.settings.update", ctx.Wrap(c.Settings.Update))

	if c.Uploads != nil {
		admin.Post("/images", "admin.images.store", ctx.Wrap(c.Uploads.Image))
	}
	if c.Feed != nil {
		admin.Get("/ws", "admin.feed", c.Feed)
	}
}
