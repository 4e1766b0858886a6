// Package server assembles the gin engine and HTTP server of the automation API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/erp/automation/docs"
	app "github.com/erp/automation/internal/application/automation"
	"github.com/erp/automation/internal/infrastructure/auth"
	"github.com/erp/automation/internal/infrastructure/config"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/interfaces/http/handler"
	"github.com/erp/automation/internal/interfaces/http/middleware"
	"github.com/erp/automation/internal/interfaces/http/router"
)

// hstsMaxAge is sent in production, where the service sits behind TLS
const hstsMaxAge = 365 * 24 * time.Hour

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Registry    *app.Registry
	Connections *app.ConnectionService
	Tokens      *auth.HostTokenService
	// Meter records HTTP server metrics. Nil disables them.
	Meter metric.Meter
	// Profiling adds Pyroscope labels to every request
	Profiling bool
	// HealthChecks are run by /health and /api/v1/system/health
	HealthChecks map[string]handler.HealthCheck
}

// Server owns the gin engine, the rate limiter and the http.Server
type Server struct {
	engine  *gin.Engine
	srv     *http.Server
	limiter *middleware.RateLimiter
	logger  *zap.Logger
}

// New builds the engine and registers every route
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Registry == nil || deps.Connections == nil {
		return nil, errors.New("server: registry and connection service are required")
	}
	if deps.Tokens == nil {
		deps.Tokens = auth.NewHostTokenService(deps.Config.Host)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := deps.Config

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(deps.Meter)
	if err != nil {
		return nil, err
	}

	security := middleware.DefaultSecurityConfig()
	if cfg.App.IsProduction() {
		security.HSTSMaxAge = hstsMaxAge
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Order matters: the request ID must exist before logging, and
	// SpanErrorMarker must run inside the span Tracing opens.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(httpMetrics)
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   deps.Profiling,
		SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
	}))
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	system := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, deps.Registry, deps.HealthChecks)
	engine.GET("/health", system.Health)

	// Swagger documentation endpoint
	if cfg.HTTP.DocsEnabled {
		engine.GET("/swagger/*any",
			middleware.IPAllowlist(cfg.HTTP.DocsAllowedIPs),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtConfig := middleware.DefaultJWTConfig(deps.Tokens)
	jwtConfig.AllowAnonymous = !cfg.App.IsProduction()
	jwtConfig.Logger = log
	if !deps.Tokens.Enabled() && jwtConfig.AllowAnonymous {
		log.Warn("Host JWT secret not set; accepting unauthenticated requests")
	}

	r := router.NewRouter(engine)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	s := &Server{engine: engine, logger: log}
	if cfg.HTTP.RateLimitEnabled {
		s.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		r.Use(middleware.RateLimit(s.limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r.Register(
		handler.SystemRoutes(system, middleware.IPAllowlist(cfg.HTTP.InfoAllowedIPs)),
		handler.AutomationRoutes(handler.NewAutomationHandler(deps.Registry),
			middleware.RequireScope(middleware.ScopeAutomation)),
		handler.OAuthRoutes(handler.NewOAuthHandler(deps.Connections),
			middleware.RequireScope(middleware.ScopeOAuth)),
	)
	r.Setup()

	s.srv = &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	return s, nil
}

// Handler returns the assembled engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

// ListenAndServe serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Server starting", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops background work
func (s *Server) Shutdown(ctx context.Context) error {
	s.Close()
	return s.srv.Shutdown(ctx)
}

// Close stops background work without touching the listener. Tests that
// only use Handler call it.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
