package handlers

import (
	"time"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Services bundles the services the HTTP layer exposes.
type Services struct {
	Auth        *services.AuthService
	Products    *services.ProductService
	Reviews     *services.ReviewService
	Orders      *services.OrderService
	Collections *services.CollectionService
	// Health reports the state of backing stores; nil means always healthy.
	Health func() error
}

// NewApp builds the Fiber app with every route registered under /api/v1.
// extra handlers run before routing, after panic recovery and request ids.
func NewApp(svc Services, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(requestid.New())
	for _, h := range extra {
		app.Use(h)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		body := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		}
		if svc.Health != nil {
			if err := svc.Health(); err != nil {
				status = fiber.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			}
		}
		return c.Status(status).JSON(body)
	})

	apiV1 := app.Group("/api/v1", middleware.Authenticate(svc.Auth))

	NewProductHandler(svc.Products).RegisterRoutes(apiV1)
	NewReviewHandler(svc.Reviews).RegisterRoutes(apiV1)
	NewOrderHandler(svc.Orders).RegisterRoutes(apiV1)
	NewCollectionHandler(svc.Collections).RegisterRoutes(apiV1)

	return app
}
