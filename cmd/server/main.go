package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	catalogapp "github.com/shoplink/backend/internal/application/catalog"
	connectionapp "github.com/shoplink/backend/internal/application/connection"
	"github.com/shoplink/backend/internal/infrastructure/cache"
	"github.com/shoplink/backend/internal/infrastructure/config"
	"github.com/shoplink/backend/internal/infrastructure/event"
	"github.com/shoplink/backend/internal/infrastructure/logger"
	"github.com/shoplink/backend/internal/infrastructure/persistence"
	"github.com/shoplink/backend/internal/infrastructure/provider"
	"github.com/shoplink/backend/internal/infrastructure/telemetry"
	"github.com/shoplink/backend/internal/interfaces/http/handler"
	"github.com/shoplink/backend/internal/interfaces/http/middleware"
	"github.com/shoplink/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopLink Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		dbTraceCfg := telemetry.DefaultDBTracingConfig()
		dbTraceCfg.Enabled = true
		if err := telemetry.RegisterDBTracing(db.DB, dbTraceCfg, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)

	// Sync guard: Redis when configured, in-process otherwise
	guardFactory := cache.NewSyncGuardFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	guard, err := guardFactory.CreateGuard()
	if err != nil {
		log.Fatal("Failed to create sync guard", zap.Error(err))
	}

	// Provider adapters
	registry := provider.NewStaticRegistry()

	shopifyAdapter, err := provider.NewShopifyAdapter(&provider.ShopifyConfig{
		APIVersion:     cfg.Providers.Shopify.APIVersion,
		PageSize:       cfg.Providers.Shopify.PageSize,
		TimeoutSeconds: cfg.Providers.Shopify.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to create Shopify adapter", zap.Error(err))
	}
	registry.RegisterCatalog(shopifyAdapter)

	whatsappCfg := &provider.WhatsAppConfig{
		GraphBaseURL:   cfg.Providers.WhatsApp.GraphBaseURL,
		GraphVersion:   cfg.Providers.WhatsApp.GraphVersion,
		SandboxBaseURL: cfg.Providers.WhatsApp.SandboxBaseURL,
		TimeoutSeconds: cfg.Providers.WhatsApp.TimeoutSeconds,
	}
	cloudAdapter, err := provider.NewWhatsAppCloudAdapter(whatsappCfg)
	if err != nil {
		log.Fatal("Failed to create WhatsApp Cloud adapter", zap.Error(err))
	}
	registry.RegisterMessaging(cloudAdapter)

	sandboxAdapter, err := provider.NewWhatsAppSandboxAdapter(whatsappCfg)
	if err != nil {
		log.Fatal("Failed to create WhatsApp sandbox adapter", zap.Error(err))
	}
	registry.RegisterMessaging(sandboxAdapter)

	// Lifecycle event bus with the audit-log subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLifecycleLogger(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	connectionService := connectionapp.NewService(credentialRepo, itemRepo, registry, guard, eventBus, connectionapp.Config{
		ProbeTimeout: cfg.Sync.ProbeTimeout,
		FetchTimeout: cfg.Sync.FetchTimeout,
		SyncLockTTL:  cfg.Sync.LockTTL,
	}, log)
	itemService := catalogapp.NewItemService(itemRepo, log)

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewIntegrationHandler(connectionService)).
		Register(handler.NewItemHandler(itemService)).
		Register(handler.NewSystemHandler())
	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
