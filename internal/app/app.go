// Package app assembles the menu service: store, services, handlers and the Fiber app.
package app

import (
	"io"
	"net/http"
	"os"
	"time"

	"menusvc/internal/handlers"
	"menusvc/internal/middleware"
	"menusvc/internal/repositories"
	"menusvc/internal/services"
	"menusvc/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Collection paths the menu routes are mounted on.
var collectionPaths = []string{"/items", "/menuitems"}

// Dependencies are the collaborators Build wires into the app.
type Dependencies struct {
	Accessor       repositories.MenuItemAccessor
	Events         services.EventPublisher // optional
	StoreTimeout   time.Duration
	Ready          handlers.ReadinessCheck // optional
	RateLimit      float64
	RateLimitBurst int
	AccessLog      io.Writer // defaults to stdout
}

// Build creates the Fiber app with every route and middleware registered.
func Build(deps Dependencies) *fiber.App {
	accessLog := deps.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	notFound := handlers.NotFoundPage(web.NotFoundPage())

	app := fiber.New(fiber.Config{
		AppName:               "menusvc",
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Metrics())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:" + middleware.RequestIDKey + "} ${status} - ${latency} ${method} ${path}\n",
		Output: accessLog,
	}))
	app.Use(cors.New())

	// --- System endpoints ---
	handlers.NewHealthHandler(deps.Ready, 0).RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// --- Menu API ---
	service := services.NewMenuService(deps.Accessor, deps.Events, deps.StoreTimeout)
	menuHandler := handlers.NewMenuHandler(service, notFound)

	burst := deps.RateLimitBurst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if deps.RateLimit > 0 {
		limit = rate.Limit(deps.RateLimit)
	}
	// One bucket shared by both mounts.
	limiter := middleware.RateLimit(rate.NewLimiter(limit, burst))
	for _, path := range collectionPaths {
		menuHandler.RegisterRoutes(app.Group(path, limiter))
	}

	// --- Front end and 404 ---
	app.Use(filesystem.New(filesystem.Config{
		Root:  http.FS(web.Assets()),
		Index: "index.html",
	}))
	app.Use(notFound)

	return app
}
