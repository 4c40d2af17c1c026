// Package kernel assembles the storefront's HTTP handler: repositories,
// services, the notification dispatcher, controllers, global middleware
// and routes. All shared resources are passed in through Deps.
package kernel

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// Deps are the process-wide resources the HTTP layer uses.
type Deps struct {
	DB    *gorm.DB
	Queue notifications.Enqueuer

	// Optional.
	Cache       *cache.Store
	Hub         *ws.Hub
	Storage     *storage.Manager
	RateLimiter *middleware.RateLimiter

	Telegram          notifications.Config
	Stagger           time.Duration
	AdminAuthRequired bool
	CORSOrigins       []string
}

// Kernel owns the router and the services behind it.
type Kernel struct {
	router   *router.Router
	Catalog  *services.CatalogService
	Settings *services.SettingsService
}

// New builds the handler.
func New(d Deps) (*Kernel, error) {
	if d.DB == nil {
		return nil, errors.New("kernel: database is required")
	}
	if d.Queue == nil {
		return nil, errors.New("kernel: queue is required")
	}

	var feed notifications.Publisher
	if d.Hub != nil {
		feed = d.Hub
	}
	dispatcher := notifications.NewDispatcher(d.Queue, feed, d.Telegram)

	products := repositories.NewProductRepository(d.DB)
	categories := repositories.NewCategoryRepository(d.DB)
	orders := repositories.NewOrderRepository(d.DB)

	catalog := services.NewCatalogService(products, categories, d.Cache, dispatcher, d.Stagger)
	settings := services.NewSettingsService(repositories.NewSettingRepository(d.DB), dispatcher)

	c := routes.Controllers{
		Products:   controllers.NewProductController(catalog),
		Categories: controllers.NewCategoryController(catalog),
		Cart: controllers.NewCartController(
			services.NewCartService(repositories.NewCartRepository(d.DB), products),
		),
		Orders: controllers.NewOrderController(services.NewOrderService(orders, dispatcher)),
		Admin: controllers.NewAdminController(
			services.NewAdminService(repositories.NewAdminRepository(d.DB), products, orders),
		),
		Settings: controllers.NewSettingsController(settings),
	}

	schema, err := appgraphql.NewSchema(catalog, settings)
	if err != nil {
		return nil, err
	}
	c.GraphQL = graphql.Handler(schema)

	if d.Storage != nil {
		c.Uploads = controllers.NewUploadController(d.Storage.Default())
	}
	if d.Hub != nil {
		c.Feed = d.Hub.Upgrade
	}

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics - outermost for accurate total latency
	//  2. Recovery           - catches panics before they kill the goroutine
	//  3. Request ID         - inject unique ID before anything logs
	//  4. Logger             - logs request_id from context
	//  5. CORS               - answers preflight before rate limiting
	//  6. Rate limiter       - reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(d.CORSOrigins)))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	if d.Storage != nil {
		r.Mount("/storage", d.Storage.Local().Handler("/storage"))
	}

	routes.RegisterAPI(r, c, d.AdminAuthRequired)

	return &Kernel{router: r, Catalog: catalog, Settings: settings}, nil
}

// Handler returns the root http.Handler.
func (k *Kernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every mounted route.
func (k *Kernel) Routes() []router.RouteInfo { return k.router.Routes() }
