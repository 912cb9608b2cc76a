package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-catalog/internal/api/http/handlers"
	"github.com/spec-kit/staff-catalog/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Staff  *handlers.StaffHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/health/metrics", cfg.Health.Metrics)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(domain.StaffListURL)
	})

	catalog := app.Group("/catalog")
	catalog.Get("/staffs", cfg.Staff.List)

	// create must be registered before the :id routes.
	catalog.Get("/staff/create", cfg.Staff.CreateForm)
	catalog.Post("/staff/create", cfg.Staff.CreateSubmit)

	catalog.Get("/staff/:id/delete", cfg.Staff.DeleteForm)
	catalog.Post("/staff/:id/delete", cfg.Staff.DeleteSubmit)
	catalog.Get("/staff/:id/update", cfg.Staff.UpdateForm)
	catalog.Post("/staff/:id/update", cfg.Staff.UpdateSubmit)
	catalog.Get("/staff/:id", cfg.Staff.Detail)
}
