package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-catalog/internal/observability"
	"github.com/spec-kit/staff-catalog/internal/views"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	AppName        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	Routes         RouteConfig
}

// NewServer builds a Fiber app with views, middlewares and routes.
func NewServer(opts ServerOptions) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		Views:                 views.NewEngine(),
		ViewsLayout:           views.Layout,
		DisableStartupMessage: true,
		Immutable:             true,
	})
	RegisterMiddlewares(app, logger, opts.Metrics, opts.RequestTimeout)
	RegisterRoutes(app, opts.Routes)
	return app
}
