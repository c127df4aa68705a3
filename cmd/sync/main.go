package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appsync "github.com/dropship/backend/internal/application/sync"
	"github.com/dropship/backend/internal/domain/classify"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"github.com/dropship/backend/internal/infrastructure/persistence"
	"github.com/dropship/backend/internal/infrastructure/supplier"
)

// One-shot catalog sync runner, intended for cron and manual runs.
// Exits 0 on a clean run, 1 on a fatal error. Per-item errors are
// reported in the summary but do not fail the run.
func main() {
	var (
		resync     bool
		warehouse  string
		categoryID string
		page       int
		pageSize   int
	)

	flag.BoolVar(&resync, "resync", false, "Delete previously synced rows before processing (full replace)")
	flag.StringVar(&warehouse, "warehouse", "all", "Fulfillment origin filter: all, US, CN, CA")
	flag.StringVar(&categoryID, "category", "", "Supplier category id filter")
	flag.IntVar(&page, "page", 1, "First supplier page to fetch")
	flag.IntVar(&pageSize, "page-size", 0, "Supplier page size (config default when 0)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if pageSize == 0 {
		pageSize = cfg.Sync.PageSize
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

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
		log.Fatal("Supplier API not configured", zap.Error(err))
	}

	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	service := appsync.NewService(
		client,
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormVariantRepository(db.DB),
		persistence.NewGormCategoryRepository(db.DB),
		settingsRepo,
		settingsRepo,
		classify.NewKeywordClassifier(),
		cache.NewInMemoryRunLock(),
		log,
		appsync.Options{
			CallBudget:         cfg.Sync.CallBudget,
			HistorySize:        cfg.Sync.HistorySize,
			FreightCountryCode: cfg.Sync.FreightCountryCode,
		},
	)

	// SIGINT/SIGTERM cancel the run; progress so far stays persisted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Catalog sync starting",
		zap.Bool("resync", resync),
		zap.String("warehouse", warehouse),
		zap.String("category_id", categoryID),
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)

	result, err := service.Run(ctx, appsync.SyncRequest{
		Resync:     resync,
		Warehouse:  warehouse,
		CategoryID: categoryID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if result != nil {
			fields = append(fields,
				zap.Int("pages", result.Pages),
				zap.Int("synced", result.Synced),
				zap.Int("api_calls", result.APICalls),
			)
		}
		log.Error("Catalog sync failed", fields...)
		os.Exit(1)
	}

	log.Info("Catalog sync finished",
		zap.Duration("duration", result.Duration()),
		zap.Int("pages", result.Pages),
		zap.Int("synced", result.Synced),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("hidden", result.Hidden),
		zap.Int("skipped", result.Skipped),
		zap.Int64("deleted", result.Deleted),
		zap.Int("api_calls", result.APICalls),
		zap.Bool("budget_exhausted", result.BudgetExhausted),
		zap.Int("error_count", len(result.Errors)),
	)
	for _, e := range result.Errors {
		log.Warn("Item error", zap.String("detail", e))
	}
	for _, w := range result.Warnings {
		log.Warn("Run warning", zap.String("detail", w))
	}
}
