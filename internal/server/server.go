// Package server implements the cirrus admin API: the HTTP surface
// for observing the supervisor, its workers and their history.
package server

import (
	"time"

	"cirrus/internal/cache"
	"cirrus/internal/config"
	"cirrus/internal/constants"
	"cirrus/internal/store"
	"cirrus/internal/supervisor"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cirrus/internal/logger"
)

// Supervisor is the launcher view the admin API exposes
type Supervisor interface {
	Workers() []supervisor.WorkerInfo
	Failures() int
	Launched() int
	Draining() bool
}

// ServiceLister provides the declarative registry view
type ServiceLister func() []ServiceSummary

// Server represents the admin API server
type Server struct {
	cfg       *config.Config
	sup       Supervisor
	store     *store.Store
	services  ServiceLister
	echo      *echo.Echo
	startTime time.Time

	// eventCache absorbs repeated reads of the store-backed
	// endpoints; entries go stale within a second.
	eventCache *cache.Cache[string, []store.WorkerEvent]
	beatCache  *cache.Cache[string, []store.Heartbeat]
}

// New creates an admin API server. store may be nil when event
// persistence is disabled.
func New(cfg *config.Config, sup Supervisor, st *store.Store, services ServiceLister) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(logger.RequestLogger())
	e.Use(middleware.CORS())

	s := &Server{
		cfg:       cfg,
		sup:       sup,
		store:     st,
		services:  services,
		echo:      e,
		startTime: time.Now(),
		eventCache: cache.New[string, []store.WorkerEvent](
			constants.DefaultReadCacheTTL, constants.DefaultReadCacheSize),
		beatCache: cache.New[string, []store.Heartbeat](
			constants.DefaultReadCacheTTL, constants.DefaultReadCacheSize),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/workers", s.handleListWorkers)
	api.GET("/services", s.handleListServices)
	api.GET("/events", s.handleListEvents)
	api.GET("/events/stream", s.handleStreamEvents)
	api.GET("/heartbeats", s.handleListHeartbeats)
}

// Echo exposes the underlying echo instance for the service handle
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
