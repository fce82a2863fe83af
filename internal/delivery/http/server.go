package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/config"
	"github.com/landuse-microservice/internal/delivery/http/handler"
	"github.com/landuse-microservice/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	layerInfoHandler   *handler.LayerInfoHandler
	zoningRulesHandler *handler.ZoningRulesHandler
}

// NewServer creates the HTTP server with all routes wired.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	layerInfoHandler *handler.LayerInfoHandler,
	zoningRulesHandler *handler.ZoningRulesHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Land Use Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                app,
		config:             cfg,
		logger:             logger,
		layerInfoHandler:   layerInfoHandler,
		zoningRulesHandler: zoningRulesHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Enrichment routes live at the root: callers treat this service as
	// a single layer-info endpoint.
	s.app.Get("/layer-info", s.layerInfoHandler.GetLayerInfo)
	s.app.Post("/layer-info", s.layerInfoHandler.PostLayerInfo)

	// Zoning rules cache
	s.app.Get("/zoning-rules/:municipality_id", s.zoningRulesHandler.GetRules)
	s.app.Post("/zoning-rules/:municipality_id/invalidate", s.zoningRulesHandler.Invalidate)
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
