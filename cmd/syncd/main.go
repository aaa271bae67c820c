package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/orderbridge/backend/internal/application/sync"
	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/cache"
	"github.com/orderbridge/backend/internal/infrastructure/config"
	"github.com/orderbridge/backend/internal/infrastructure/logger"
	"github.com/orderbridge/backend/internal/infrastructure/marketplace"
	"github.com/orderbridge/backend/internal/infrastructure/persistence"
	"github.com/orderbridge/backend/internal/infrastructure/scheduler"
	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
	"github.com/orderbridge/backend/internal/interfaces/http/handler"
	"github.com/orderbridge/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting OrderBridge sync engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with GORM logging bridged to zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Fallback throttle: Redis when enabled, in-memory otherwise
	var throttle delivery.FallbackThrottle
	if cfg.Redis.Enabled {
		redisThrottle, err := cache.NewRedisThrottle(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisThrottle.Close() //nolint:errcheck
		throttle = redisThrottle
		log.Info("Redis fallback throttle initialized", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memThrottle := cache.NewInMemoryThrottle()
		defer memThrottle.Close() //nolint:errcheck
		throttle = memThrottle
		log.Info("In-memory fallback throttle initialized")
	}

	// Marketplace API client
	client, err := marketplace.NewClient(&marketplace.Config{
		AuthURL:        cfg.Marketplace.AuthURL,
		BaseURL:        cfg.Marketplace.BaseURL,
		TimeoutSeconds: cfg.Marketplace.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to build marketplace client", zap.Error(err))
	}

	// Telemetry
	ctx := context.Background()
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	syncMetrics, err := telemetry.NewSyncMetrics(meterProvider.Meter("orderbridge/sync"), log)
	if err != nil {
		log.Fatal("Failed to initialize sync metrics", zap.Error(err))
	}

	// Sync engine wiring
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	integrationRepo := persistence.NewGormMerchantIntegrationRepository(db.DB)
	reconciler := appsync.NewOrderReconciler(orderRepo, client, syncMetrics, log)
	syncService := appsync.NewSyncService(
		integrationRepo, client, reconciler, throttle,
		cfg.Sync.FallbackInterval, syncMetrics, log,
	)

	loop, err := scheduler.NewSyncLoop(syncService, cfg.Sync.Interval, log)
	if err != nil {
		log.Fatal("Failed to build sync loop", zap.Error(err))
	}
	if cfg.Sync.Enabled {
		if err := loop.Start(ctx); err != nil {
			log.Fatal("Failed to start sync loop", zap.Error(err))
		}
	} else {
		log.Info("Recurring sync loop disabled; only the manual trigger is active")
	}

	// Admin HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Config{
		System: handler.NewSystemHandler(db),
		Sync:   handler.NewSyncHandler(loop, syncService),
		Logger: log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Admin server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Admin server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Sync.Enabled {
		if err := loop.Stop(shutdownCtx); err != nil {
			log.Error("Sync loop shutdown error", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Admin server forced to shutdown", zap.Error(err))
	}

	log.Info("Exited gracefully")
}
