// Package api provides the HTTP server of modelapi.
// It uses the Echo framework to serve the generic resource routes for every
// registered model type, plus health, metrics, API docs and a WebSocket feed
// of resource changes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "evalgo.org/modelapi/docs" // Import generated docs
	"evalgo.org/modelapi/internal/config"
	"evalgo.org/modelapi/internal/metrics"
	"evalgo.org/modelapi/internal/resource"
	"evalgo.org/modelapi/internal/validation"
	"evalgo.org/modelapi/internal/version"
)

// eventsPath is where the resource change feed is served.
const eventsPath = "/api/ws"

// Server represents the modelapi HTTP server.
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	service   *resource.Service
	validator *validation.Validator
	hub       *Hub // nil when events are disabled
	upgrader  websocket.Upgrader
	basePath  string
	log       logrus.FieldLogger
}

// New creates a new API server instance. hub may be nil.
func New(cfg *config.Config, svc *resource.Service, hub *Hub, log logrus.FieldLogger) *Server {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug
	e.JSONSerializer = jsoniterSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	server := &Server{
		echo:      e,
		config:    cfg,
		service:   svc,
		validator: validation.New(svc.Registry()),
		hub:       hub,
		upgrader:  newUpgrader(cfg.Security.AllowedOrigins),
		basePath:  strings.TrimSuffix(cfg.Server.BasePath, "/"),
		log:       log,
	}

	if hub != nil {
		go hub.Run()
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.RequestID())
	s.echo.Use(RequestLogger(s.log))
	s.echo.Use(middleware.Recover())

	if s.config.Metrics.Enabled {
		s.echo.Use(metrics.Middleware(s.config.Metrics.Path))
	}

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}

	if s.config.Server.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.Server.BodyLimit))
	}

	if s.config.Server.CompressionLevel != 0 {
		s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: s.config.Server.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, eventsPath)
			},
		}))
	}

	s.echo.Use(ValidateContentType)
	s.echo.Use(ValidateAcceptHeader)
}

// setupRoutes configures the routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.echo.GET(s.config.Metrics.Path, echo.WrapHandler(metrics.Handler()))
	}

	if s.hub != nil {
		ws := s.echo.Group(eventsPath)
		ws.GET("/events", s.HandleWebSocket)
		ws.GET("/stats", s.GetWebSocketStats)
	}

	read := ValidateResource(s.validator, validation.Read)
	create := ValidateResource(s.validator, validation.Create)
	update := ValidateResource(s.validator, validation.Update)

	// The gate is attached per route; Group.Use would register catch-all routes.
	rest := s.echo.Group(s.basePath)
	rest.GET("/types", s.listTypes)
	rest.GET("/:type", s.listResources, read)
	rest.POST("/:type", s.createResource, create)
	rest.GET("/:type/:id", s.getResource, read)
	rest.PATCH("/:type/:id", s.updateResource, update)
	rest.DELETE("/:type/:id", s.deleteResource, read)
	rest.GET("/:type/:id/relationships/:key", s.getRelationship, read)
	rest.POST("/:type/:id/:relField", s.mutateRelationship, read)
	rest.PATCH("/:type/:id/:relField", s.mutateRelationship, read)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.log.WithFields(logrus.Fields{
		"address":   addr,
		"base_path": s.config.Server.BasePath,
		"storage":   s.config.Storage.Driver,
		"debug":     s.config.Server.Debug,
		"version":   version.Version,
	}).Info("Starting modelapi server")

	// Configure server timeouts
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	if s.config.Server.TLSEnabled {
		return s.echo.StartTLS(addr, s.config.Server.TLSCert, s.config.Server.TLSKey)
	}
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server and the event hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down modelapi server")

	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.log.Info("Server shutdown complete")
	return nil
}

// healthCheck handles GET /health
// @Summary Health check
// @Description Reports whether the document store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) healthCheck(c echo.Context) error {
	if err := s.service.Ping(c.Request().Context()); err != nil {
		s.log.WithError(err).Warn("Health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "modelapi",
		"version": version.Version,
		"storage": s.config.Storage.Driver,
		"types":   len(s.service.Registry().AllTypes()),
	})
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
