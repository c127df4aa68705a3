package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/classify"
	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shipping"
	"github.com/dropship/backend/internal/domain/supplier"
)

// DefaultCallBudget caps supplier API calls per run, kept under the
// provider's daily quota so a sync never exhausts it outright
const DefaultCallBudget = 900

// rateLimitBackoff is the fixed delay before the single retry of a
// throttled detail fetch
const rateLimitBackoff = 3 * time.Second

// freightFallbackFactor estimates shipping as a fraction of the
// supplier price when no freight quote is available
var freightFallbackFactor = decimal.NewFromFloat(0.3)

// RunLock serializes sync runs. TryLock returns false when another run
// holds the lock.
type RunLock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// Options tunes a sync service beyond its collaborators
type Options struct {
	// CallBudget overrides DefaultCallBudget
	CallBudget int
	// HistorySize overrides the retained run count
	HistorySize int
	// WarehouseSignals overrides the source classification signals
	WarehouseSignals []WarehouseSignal
	// FreightCountryCode is the destination used for sync-time freight
	// estimates ("US" when unset)
	FreightCountryCode string
}

// Service drives the catalog reconciliation loop: it walks the supplier
// product list page by page, enriches each item with detail, pricing,
// category, and warehouse data, and upserts the outcome. Runs are
// sequential; all supplier calls share one client and its limiter.
type Service struct {
	gateway       supplier.Gateway
	products      catalog.ProductRepository
	variants      catalog.VariantRepository
	categories    catalog.CategoryRepository
	pricingStore  pricing.ConfigStore
	shippingStore shipping.ConfigStore
	classifier    classify.Classifier
	warehouses    *WarehouseClassifier
	lock          RunLock
	logger        *zap.Logger
	history       *runHistory

	budget         int
	freightCountry string

	nowFn   func() time.Time
	sleepFn func(ctx context.Context, d time.Duration) error
}

// NewService creates a sync service
func NewService(
	gateway supplier.Gateway,
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	categories catalog.CategoryRepository,
	pricingStore pricing.ConfigStore,
	shippingStore shipping.ConfigStore,
	classifier classify.Classifier,
	lock RunLock,
	logger *zap.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CallBudget <= 0 {
		opts.CallBudget = DefaultCallBudget
	}
	if opts.FreightCountryCode == "" {
		opts.FreightCountryCode = "US"
	}
	return &Service{
		gateway:        gateway,
		products:       products,
		variants:       variants,
		categories:     categories,
		pricingStore:   pricingStore,
		shippingStore:  shippingStore,
		classifier:     classifier,
		warehouses:     NewWarehouseClassifier(opts.WarehouseSignals),
		lock:           lock,
		logger:         logger,
		history:        newRunHistory(opts.HistorySize),
		budget:         opts.CallBudget,
		freightCountry: opts.FreightCountryCode,
		nowFn:          time.Now,
		sleepFn:        sleepCtx,
	}
}

// RecentRuns returns the retained run results, newest first
func (s *Service) RecentRuns() []SyncRunResult {
	return s.history.recent()
}

// Run executes one catalog sync. Only auth failures abort the run; any
// per-item failure is recorded in the result and the loop continues.
func (s *Service) Run(ctx context.Context, req SyncRequest) (*SyncRunResult, error) {
	req = req.normalized()

	acquired, err := s.lock.TryLock(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		return nil, shared.ErrSyncInProgress
	}
	defer func() {
		if err := s.lock.Unlock(context.Background()); err != nil {
			s.logger.Warn("Failed to release sync run lock", zap.Error(err))
		}
	}()

	result := &SyncRunResult{StartedAt: s.nowFn()}
	meter := &callMeter{budget: s.budget}

	s.logger.Info("Catalog sync started",
		zap.Bool("resync", req.Resync),
		zap.String("warehouse", req.Warehouse),
		zap.Int("page", req.Page),
		zap.Int("page_size", req.PageSize))

	calc := pricing.NewCalculator(s.loadPricingConfig(ctx, result))
	shipCfg := s.loadShippingConfig(ctx, result)

	if req.Resync {
		deleted, err := s.products.DeleteSynced(ctx)
		if err != nil {
			result.FinishedAt = s.nowFn()
			return result, fmt.Errorf("resync delete: %w", err)
		}
		result.Deleted = deleted
		s.logger.Info("Resync purged synced products", zap.Int64("deleted", deleted))
	}

	cats, err := s.categories.FindAll(ctx)
	if err != nil {
		result.addWarning("categories unavailable: " + err.Error())
	}

	fatal := s.walkPages(ctx, req, calc, shipCfg, cats, meter, result)

	result.APICalls = meter.used
	result.FinishedAt = s.nowFn()
	s.history.add(*result)

	s.logger.Info("Catalog sync finished",
		zap.Int("pages", result.Pages),
		zap.Int("synced", result.Synced),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("hidden", result.Hidden),
		zap.Int("skipped", result.Skipped),
		zap.Int("api_calls", result.APICalls),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("took", result.Duration()))

	return result, fatal
}

// walkPages runs the page loop, returning a non-nil error only for
// failures fatal to the whole run
func (s *Service) walkPages(
	ctx context.Context,
	req SyncRequest,
	calc *pricing.Calculator,
	shipCfg shipping.Config,
	cats []catalog.Category,
	meter *callMeter,
	result *SyncRunResult,
) error {
	page := req.Page
	for {
		if ctx.Err() != nil {
			result.addWarning("run cancelled")
			return nil
		}
		if !meter.allow() {
			result.BudgetExhausted = true
			result.addWarning(fmt.Sprintf("api call budget (%d) exhausted, partial results kept", meter.budget))
			return nil
		}

		query := supplier.ListQuery{
			PageNum:    page,
			PageSize:   req.PageSize,
			CategoryID: req.CategoryID,
		}
		if req.Warehouse != WarehouseAll {
			query.CountryCode = req.Warehouse
		}

		productPage, err := s.gateway.ListProducts(ctx, query)
		if err != nil {
			if errors.Is(err, supplier.ErrAuthFailed) || errors.Is(err, supplier.ErrAuthCooldown) {
				return err
			}
			result.addError(fmt.Sprintf("page %d", page), err)
			return nil
		}
		result.Pages++

		for i := range productPage.Items {
			if ctx.Err() != nil {
				result.addWarning("run cancelled")
				return nil
			}
			s.processItem(ctx, &productPage.Items[i], calc, shipCfg, cats, meter, result)
		}

		if !productPage.HasMore() {
			return nil
		}
		page++
	}
}

// processItem enriches and upserts a single supplier product. Every
// failure is captured on the result; nothing here aborts the run.
func (s *Service) processItem(
	ctx context.Context,
	item *supplier.Product,
	calc *pricing.Calculator,
	shipCfg shipping.Config,
	cats []catalog.Category,
	meter *callMeter,
	result *SyncRunResult,
) {
	if strings.TrimSpace(item.Name) == "" {
		result.Skipped++
		return
	}

	parsed, err := pricing.ParsePrice(item.Price)
	if err != nil {
		result.Skipped++
		result.addError(item.PID, err)
		return
	}
	// Ranges cost out at the top end so margins hold for every variant
	supplierPrice := parsed.Max

	detail, err := s.fetchDetail(ctx, item, meter)
	if err != nil {
		if supplier.IsNotFound(err) {
			result.Skipped++
			return
		}
		result.addWarning(item.PID + ": detail unavailable, using list data: " + err.Error())
		detail = item
	}

	shippingCost := s.estimateShipping(ctx, detail, supplierPrice, shipCfg, meter)
	priced := calc.Compute(supplierPrice, shippingCost, calc.Markup())

	product, err := catalog.NewProduct(item.PID, strings.TrimSpace(item.Name))
	if err != nil {
		result.Skipped++
		result.addError(item.PID, err)
		return
	}

	product.Description = detail.Description
	if len(detail.Images) > 0 {
		product.SetImages(detail.Images)
	} else if item.Image != "" {
		product.SetImages([]string{item.Image})
	}

	warehouse, matched := s.warehouses.Classify(detail.SourceFrom, detail.DeliveryDays)
	if !matched && detail.SourceFrom != "" {
		result.addWarning(item.PID + ": ambiguous warehouse source " + strconv.Quote(detail.SourceFrom) + ", defaulted to CN")
	}
	product.SetWarehouse(warehouse)

	if categoryID := s.classifier.Classify(detail.CategoryName, item.Name, cats); categoryID != nil {
		product.SetCategory(categoryID)
	}

	product.SetStock(totalStock(detail.Variants))
	product.ApplyPricing(priced)
	product.MarkSynced(s.nowFn())

	created, err := s.products.Upsert(ctx, product)
	if err != nil {
		result.addError(item.PID, err)
		return
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	result.Synced++
	if product.IsHidden() {
		result.Hidden++
	}

	s.upsertVariants(ctx, product, detail.Variants, result)
}

// fetchDetail fetches the full product record, retrying once after a
// fixed backoff when the provider throttles the call
func (s *Service) fetchDetail(ctx context.Context, item *supplier.Product, meter *callMeter) (*supplier.Product, error) {
	if !meter.allow() {
		return nil, fmt.Errorf("call budget exhausted")
	}
	detail, err := s.gateway.GetProductDetail(ctx, item.PID)
	if err != nil && supplier.IsRateLimited(err) && meter.allow() {
		if sleepErr := s.sleepFn(ctx, rateLimitBackoff); sleepErr != nil {
			return nil, sleepErr
		}
		detail, err = s.gateway.GetProductDetail(ctx, item.PID)
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// estimateShipping quotes freight for the item's first variant, falling
// back to a fraction of the supplier price with a floor when no quote is
// available
func (s *Service) estimateShipping(
	ctx context.Context,
	detail *supplier.Product,
	supplierPrice decimal.Decimal,
	shipCfg shipping.Config,
	meter *callMeter,
) decimal.Decimal {
	if detail.HasVariants() && meter.allow() {
		quote, err := s.gateway.CalculateFreight(ctx, supplier.FreightRequest{
			EndCountryCode: s.freightCountry,
			Items: []supplier.FreightItem{
				{VID: detail.Variants[0].VID, Quantity: 1},
			},
		})
		if err != nil {
			s.logger.Debug("Freight estimate failed, using fallback",
				zap.String("pid", detail.PID), zap.Error(err))
		} else if min := supplier.MinFreightPrice(quote); min.IsPositive() {
			return min
		}
	}

	estimate := supplierPrice.Mul(freightFallbackFactor).Round(2)
	if estimate.LessThan(shipCfg.FreightMinimum) {
		return shipCfg.FreightMinimum
	}
	return estimate
}

// upsertVariants reconciles the supplier's variants under the product
func (s *Service) upsertVariants(ctx context.Context, product *catalog.Product, variants []supplier.Variant, result *SyncRunResult) {
	for _, sv := range variants {
		variant, err := catalog.NewVariant(product.ID, sv.VID, sv.Name)
		if err != nil {
			result.addError(sv.VID, err)
			continue
		}
		variant.Color, variant.Size = catalog.ParseVariantOptions(sv.Name)
		if err := variant.SetPrice(sv.Price); err != nil {
			result.addError(sv.VID, err)
			continue
		}
		variant.SetStock(sv.Stock)
		variant.Image = sv.Image

		if err := s.variants.Upsert(ctx, variant); err != nil {
			result.addError(sv.VID, err)
		}
	}
}

// loadPricingConfig loads the stored pricing config, falling back to
// defaults when none has been saved
func (s *Service) loadPricingConfig(ctx context.Context, result *SyncRunResult) pricing.Config {
	cfg, err := s.pricingStore.LoadPricingConfig(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			result.addWarning("pricing config unavailable, using defaults: " + err.Error())
		}
		return pricing.DefaultConfig()
	}
	return *cfg
}

// loadShippingConfig loads the stored shipping config, falling back to
// defaults when none has been saved
func (s *Service) loadShippingConfig(ctx context.Context, result *SyncRunResult) shipping.Config {
	cfg, err := s.shippingStore.LoadShippingConfig(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			result.addWarning("shipping config unavailable, using defaults: " + err.Error())
		}
		return shipping.DefaultConfig()
	}
	return *cfg
}

// totalStock sums variant stock for the product-level count
func totalStock(variants []supplier.Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// callMeter tracks supplier API usage against the run budget
type callMeter struct {
	budget int
	used   int
}

// allow consumes one call from the budget, refusing once it is spent
func (m *callMeter) allow() bool {
	if m.used >= m.budget {
		return false
	}
	m.used++
	return true
}

// sleepCtx sleeps for d unless the context is cancelled first
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
