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

	appsync "github.com/dropship/backend/internal/application/sync"
	"github.com/dropship/backend/internal/domain/classify"
	"github.com/dropship/backend/internal/domain/shipping"
	domainsupplier "github.com/dropship/backend/internal/domain/supplier"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"github.com/dropship/backend/internal/infrastructure/persistence"
	"github.com/dropship/backend/internal/infrastructure/supplier"
	"github.com/dropship/backend/internal/interfaces/http/handler"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/dropship/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Dropship Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Supplier API gateway. Without credentials the server still boots
	// and serves locally persisted data; supplier-backed operations
	// return an upstream auth error.
	var gateway domainsupplier.Gateway
	if cfg.Supplier.APIBaseURL != "" && cfg.Supplier.APIKey != "" {
		supplierCfg := &supplier.Config{
			APIBaseURL:        cfg.Supplier.APIBaseURL,
			APIKey:            cfg.Supplier.APIKey,
			TimeoutSeconds:    cfg.Supplier.TimeoutSeconds,
			MinCallInterval:   cfg.Supplier.MinCallInterval,
			AuthCooldown:      cfg.Supplier.AuthCooldown,
			TokenExpiryBuffer: cfg.Supplier.TokenExpiryBuffer,
		}
		client, err := supplier.NewClient(supplierCfg, log)
		if err != nil {
			log.Fatal("Failed to create supplier client", zap.Error(err))
		}
		gateway = client
		log.Info("Supplier API client configured",
			zap.String("base_url", cfg.Supplier.APIBaseURL),
			zap.Duration("min_call_interval", cfg.Supplier.MinCallInterval),
		)
	} else {
		gateway = supplier.UnconfiguredGateway{}
		log.Warn("Supplier API credentials not set, supplier operations disabled")
	}

	// Run lock: Redis when enabled so overlapping syncs are rejected
	// across instances, in-process otherwise
	var runLock appsync.RunLock
	if cfg.Redis.Enabled {
		redisLock, err := cache.NewRedisRunLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		runLock = redisLock
		log.Info("Redis run lock enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		runLock = cache.NewInMemoryRunLock()
	}

	// Domain services
	freightQuoter := supplier.NewFreightAdapter(gateway, cfg.Sync.FreightCountryCode)
	shippingResolver := shipping.NewResolver(freightQuoter, log)
	classifier := classify.NewKeywordClassifier()

	syncService := appsync.NewService(
		gateway,
		productRepo,
		variantRepo,
		categoryRepo,
		settingsRepo,
		settingsRepo,
		classifier,
		runLock,
		log,
		appsync.Options{
			CallBudget:         cfg.Sync.CallBudget,
			HistorySize:        cfg.Sync.HistorySize,
			FreightCountryCode: cfg.Sync.FreightCountryCode,
		},
	)

	// Initialize handlers
	syncHandler := handler.NewSyncHandler(syncService)
	shippingHandler := handler.NewShippingHandler(shippingResolver, settingsRepo)
	pricingHandler := handler.NewPricingHandler(settingsRepo)
	productHandler := handler.NewProductHandler(productRepo, variantRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order: request id, panic recovery, request
	// logging, security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint outside API versioning, for load balancers
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler)
	r.Register(shippingHandler)
	r.Register(pricingHandler)
	r.Register(productHandler)
	r.Register(categoryHandler)
	r.Register(systemHandler)
	r.Setup()

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

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for the load balancer health check
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
