package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	app "github.com/erp/automation/internal/application/automation"
	"github.com/erp/automation/internal/infrastructure/auth"
	"github.com/erp/automation/internal/infrastructure/cache"
	"github.com/erp/automation/internal/infrastructure/config"
	"github.com/erp/automation/internal/infrastructure/erpclient"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/infrastructure/oauth"
	"github.com/erp/automation/internal/infrastructure/telemetry"
	"github.com/erp/automation/internal/interfaces/http/handler"
	"github.com/erp/automation/internal/interfaces/http/server"
)

//	@title			ERP Automation API
//	@version		1.0
//	@description	Triggers, actions and searches over the ERP API for automation platforms.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/automation

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Host platform token. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  logger.DefaultTimeFormat,
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP automation service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("erp", cfg.ERP.BaseURL),
	)

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if lp := providers.LoggerProvider(); lp != nil {
		log = telemetry.BridgeLogger(log, lp, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Profiler.ApplicationName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		ProfileTypes:      cfg.Profiler.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		providers.EnableSpanProfiles()
	}

	var meter metric.Meter
	if providers.IsEnabled() {
		meter = otel.GetMeterProvider().Meter(telemetry.MeterName)
	}
	metrics, err := telemetry.NewAutomationMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	client, err := erpclient.New(erpclient.Config{
		BaseURL:   cfg.ERP.BaseURL,
		Timeout:   cfg.ERP.Timeout,
		UserAgent: cfg.ERP.UserAgent,
	}, erpclient.WithLogger(log), erpclient.WithMetrics(metrics))
	if err != nil {
		log.Fatal("Failed to create ERP client", zap.Error(err))
	}

	factoryOpts := []cache.FactoryOption{
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Redis.AllowFallback),
	}
	if cfg.Redis.Enabled {
		factoryOpts = append(factoryOpts, cache.WithRedis(cache.RedisConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}))
	}
	store, err := cache.NewAuthorizationStoreFactory(factoryOpts...).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create authorization store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing authorization store", zap.Error(err))
		}
	}()

	authn, err := oauth.NewService(oauth.Config{
		BaseURL:      cfg.ERP.BaseURL,
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
		Scopes:       cfg.OAuth.Scopes,
		StateTTL:     cfg.OAuth.StateTTL,
	}, client, store, log)
	if err != nil {
		log.Fatal("Failed to create OAuth service", zap.Error(err))
	}

	registry := app.NewRegistry(client,
		app.WithLogger(log),
		app.WithMetrics(metrics),
		app.WithWebhookSecret(cfg.Webhook.Secret),
	)
	if !registry.SignatureRequired() {
		log.Warn("Webhook secret not set; pushed trigger payloads are accepted unsigned")
	}
	connections := app.NewConnectionService(authn, app.WithLogger(log), app.WithMetrics(metrics))

	checks := map[string]handler.HealthCheck{}
	if redisStore, ok := store.(*cache.RedisAuthorizationStore); ok {
		checks["redis"] = redisStore.Ping
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(server.Deps{
		Config:       cfg,
		Logger:       log,
		Registry:     registry,
		Connections:  connections,
		Tokens:       auth.NewHostTokenService(cfg.Host),
		Meter:        meter,
		Profiling:    profiler.IsEnabled(),
		HealthChecks: checks,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP server", zap.Error(err))
	}

	log.Info("Automation handlers registered",
		zap.Int("triggers", len(registry.Triggers())),
		zap.Int("actions", len(registry.Actions())),
		zap.Int("searches", len(registry.Searches())),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully", zap.Duration("timeout", cfg.HTTP.ShutdownTimeout.Round(time.Second)))
}
