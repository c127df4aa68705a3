package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/classify"
	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shipping"
	"github.com/dropship/backend/internal/domain/supplier"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeGateway struct {
	pages      []supplier.ProductPage
	details    map[string]*supplier.Product
	detailErrs map[string][]error
	freight    []supplier.FreightOption
	freightErr error
	listErr    error

	listCalls    int
	detailCalls  int
	freightCalls int
}

func (g *fakeGateway) ListProducts(_ context.Context, query supplier.ListQuery) (*supplier.ProductPage, error) {
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	idx := query.PageNum - 1
	if idx < 0 || idx >= len(g.pages) {
		return &supplier.ProductPage{PageNum: query.PageNum, PageSize: query.PageSize}, nil
	}
	page := g.pages[idx]
	return &page, nil
}

func (g *fakeGateway) GetProductDetail(_ context.Context, pid string) (*supplier.Product, error) {
	g.detailCalls++
	if errs := g.detailErrs[pid]; len(errs) > 0 {
		err := errs[0]
		g.detailErrs[pid] = errs[1:]
		return nil, err
	}
	if detail, ok := g.details[pid]; ok {
		return detail, nil
	}
	return nil, fmt.Errorf("%w: pid %s", supplier.ErrProductNotFound, pid)
}

func (g *fakeGateway) GetStock(context.Context, string) ([]supplier.StockEntry, error) {
	return nil, nil
}

func (g *fakeGateway) CalculateFreight(context.Context, supplier.FreightRequest) ([]supplier.FreightOption, error) {
	g.freightCalls++
	if g.freightErr != nil {
		return nil, g.freightErr
	}
	return g.freight, nil
}

func (g *fakeGateway) GetReviews(context.Context, string, int, int) ([]supplier.Review, error) {
	return nil, nil
}

func (g *fakeGateway) CreateOrder(context.Context, supplier.OrderRequest) (*supplier.OrderResult, error) {
	return nil, nil
}

func (g *fakeGateway) GetTracking(context.Context, string) (*supplier.Tracking, error) {
	return nil, nil
}

type fakeProductRepo struct {
	byExternal map[string]*catalog.Product
	upsertErr  error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byExternal: make(map[string]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(context.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByExternalID(_ context.Context, externalID string) (*catalog.Product, error) {
	if p, ok := r.byExternal[externalID]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindByStatus(context.Context, catalog.ProductStatus, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Upsert(_ context.Context, product *catalog.Product) (bool, error) {
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	if existing, ok := r.byExternal[product.ExternalID]; ok {
		product.ID = existing.ID
		stored := *product
		r.byExternal[product.ExternalID] = &stored
		return false, nil
	}
	stored := *product
	r.byExternal[product.ExternalID] = &stored
	return true, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	stored := *product
	r.byExternal[product.ExternalID] = &stored
	return nil
}

func (r *fakeProductRepo) DeleteSynced(context.Context) (int64, error) {
	n := int64(len(r.byExternal))
	r.byExternal = make(map[string]*catalog.Product)
	return n, nil
}

func (r *fakeProductRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.byExternal)), nil
}

type fakeVariantRepo struct {
	byExternal map[string]*catalog.Variant
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{byExternal: make(map[string]*catalog.Variant)}
}

func (r *fakeVariantRepo) FindByProductID(context.Context, uuid.UUID) ([]catalog.Variant, error) {
	return nil, nil
}

func (r *fakeVariantRepo) FindByExternalID(_ context.Context, id string) (*catalog.Variant, error) {
	if v, ok := r.byExternal[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVariantRepo) Upsert(_ context.Context, variant *catalog.Variant) error {
	stored := *variant
	r.byExternal[variant.ExternalVariantID] = &stored
	return nil
}

func (r *fakeVariantRepo) DeleteByProductID(context.Context, uuid.UUID) error {
	return nil
}

type fakeCategoryRepo struct {
	categories []catalog.Category
}

func (r *fakeCategoryRepo) FindByID(context.Context, uuid.UUID) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindBySlug(context.Context, string) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindAll(context.Context) ([]catalog.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) Save(context.Context, *catalog.Category) error {
	return nil
}

type fakeSettingsStore struct{}

func (fakeSettingsStore) LoadPricingConfig(context.Context) (*pricing.Config, error) {
	return nil, shared.ErrNotFound
}

func (fakeSettingsStore) SavePricingConfig(context.Context, *pricing.Config) error {
	return nil
}

func (fakeSettingsStore) LoadShippingConfig(context.Context) (*shipping.Config, error) {
	return nil, shared.ErrNotFound
}

func (fakeSettingsStore) SaveShippingConfig(context.Context, *shipping.Config) error {
	return nil
}

type fakeLock struct {
	denied bool
	held   bool
}

func (l *fakeLock) TryLock(context.Context) (bool, error) {
	if l.denied || l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock(context.Context) error {
	l.held = false
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type testRig struct {
	service  *Service
	gateway  *fakeGateway
	products *fakeProductRepo
	variants *fakeVariantRepo
	lock     *fakeLock
}

func newTestRig(t *testing.T, gateway *fakeGateway, opts Options) *testRig {
	t.Helper()
	rig := &testRig{
		gateway:  gateway,
		products: newFakeProductRepo(),
		variants: newFakeVariantRepo(),
		lock:     &fakeLock{},
	}
	rig.service = NewService(
		gateway,
		rig.products,
		rig.variants,
		&fakeCategoryRepo{},
		fakeSettingsStore{},
		fakeSettingsStore{},
		classify.NewKeywordClassifier(),
		rig.lock,
		nil,
		opts,
	)
	rig.service.sleepFn = func(context.Context, time.Duration) error { return nil }
	return rig
}

func singlePage(items ...supplier.Product) []supplier.ProductPage {
	return []supplier.ProductPage{{
		Items:    items,
		PageNum:  1,
		PageSize: len(items),
		Total:    int64(len(items)),
	}}
}

func mugItem() supplier.Product {
	return supplier.Product{
		PID:        "P-1",
		Name:       "Ceramic Mug",
		Price:      "10.00",
		Image:      "https://cdn/mug.jpg",
		SourceFrom: "CN",
	}
}

func mugDetail() *supplier.Product {
	return &supplier.Product{
		PID:          "P-1",
		Name:         "Ceramic Mug",
		Price:        "10.00",
		CategoryName: "Home & Kitchen",
		Images:       []string{"https://cdn/mug.jpg", "https://cdn/mug-2.jpg"},
		SourceFrom:   "CN",
		Variants: []supplier.Variant{
			{VID: "V-1", Name: "Blue-L", Price: decimal.NewFromInt(10), Stock: 5},
		},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestService_Run_SyncsAndPricesItem(t *testing.T) {
	gateway := &fakeGateway{
		pages:   singlePage(mugItem()),
		details: map[string]*supplier.Product{"P-1": mugDetail()},
		freight: []supplier.FreightOption{
			{LogisticName: "Standard", Price: decimal.NewFromInt(3)},
		},
	}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	product := rig.products.byExternal["P-1"]
	require.NotNil(t, product)

	// supplier 10 + freight 3, doubled with charm pricing
	assert.Equal(t, "25.99", product.RetailPrice.StringFixed(2))
	assert.Equal(t, catalog.ProductStatusActive, product.Status)
	assert.Equal(t, catalog.WarehouseCN, product.Warehouse)
	assert.Equal(t, 5, product.StockCount)
	assert.Equal(t, catalog.ImageList{"https://cdn/mug.jpg", "https://cdn/mug-2.jpg"}, product.Images)

	variant := rig.variants.byExternal["V-1"]
	require.NotNil(t, variant)
	assert.Equal(t, product.ID, variant.ProductID)
	require.NotNil(t, variant.Color)
	require.NotNil(t, variant.Size)
	assert.Equal(t, "Blue", *variant.Color)
	assert.Equal(t, "L", *variant.Size)
	assert.Equal(t, 5, variant.Stock)
}

func TestService_Run_SecondRunIsIdempotent(t *testing.T) {
	gateway := &fakeGateway{
		pages:   singlePage(mugItem()),
		details: map[string]*supplier.Product{"P-1": mugDetail()},
		freight: []supplier.FreightOption{{Price: decimal.NewFromInt(3)}},
	}
	rig := newTestRig(t, gateway, Options{})
	ctx := context.Background()

	first, err := rig.service.Run(ctx, SyncRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := rig.service.Run(ctx, SyncRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, 1, second.Synced)
	assert.Len(t, rig.products.byExternal, 1)
}

func TestService_Run_PartialFailureContinues(t *testing.T) {
	items := make([]supplier.Product, 0, 5)
	details := make(map[string]*supplier.Product, 5)
	for i := 1; i <= 5; i++ {
		pid := fmt.Sprintf("P-%d", i)
		item := supplier.Product{PID: pid, Name: fmt.Sprintf("Item %d", i), Price: "8.00", SourceFrom: "CN"}
		if i == 3 {
			item.Price = "contact seller"
		}
		items = append(items, item)
		detail := item
		details[pid] = &detail
	}
	gateway := &fakeGateway{pages: singlePage(items...), details: details}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "P-3")
	assert.Len(t, rig.products.byExternal, 4)
}

func TestService_Run_RangePriceUsesUpperBound(t *testing.T) {
	item := mugItem()
	item.Price = "6.00 -- 10.00"
	detail := mugDetail()
	detail.Price = item.Price
	gateway := &fakeGateway{
		pages:   singlePage(item),
		details: map[string]*supplier.Product{"P-1": detail},
		freight: []supplier.FreightOption{{Price: decimal.NewFromInt(3)}},
	}
	rig := newTestRig(t, gateway, Options{})

	_, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	product := rig.products.byExternal["P-1"]
	require.NotNil(t, product)
	assert.Equal(t, "10.00", product.SupplierPrice.StringFixed(2))
}

func TestService_Run_BudgetHaltsEarly(t *testing.T) {
	pageOne := supplier.ProductPage{
		Items:    []supplier.Product{mugItem()},
		PageNum:  1,
		PageSize: 1,
		Total:    10,
	}
	gateway := &fakeGateway{
		pages:   []supplier.ProductPage{pageOne},
		details: map[string]*supplier.Product{"P-1": mugDetail()},
	}
	// One list call plus one detail call, then the ceiling
	rig := newTestRig(t, gateway, Options{CallBudget: 2})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.True(t, result.BudgetExhausted)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 2, result.APICalls)
	assert.Equal(t, 1, gateway.listCalls)
}

func TestService_Run_ResyncPurgesFirst(t *testing.T) {
	gateway := &fakeGateway{
		pages:   singlePage(mugItem()),
		details: map[string]*supplier.Product{"P-1": mugDetail()},
	}
	rig := newTestRig(t, gateway, Options{})
	ctx := context.Background()

	_, err := rig.service.Run(ctx, SyncRequest{})
	require.NoError(t, err)

	result, err := rig.service.Run(ctx, SyncRequest{Resync: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Deleted)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
}

func TestService_Run_RefusedWhileLocked(t *testing.T) {
	rig := newTestRig(t, &fakeGateway{}, Options{})
	rig.lock.denied = true

	_, err := rig.service.Run(context.Background(), SyncRequest{})

	assert.ErrorIs(t, err, shared.ErrSyncInProgress)
}

func TestService_Run_AuthFailureIsFatal(t *testing.T) {
	gateway := &fakeGateway{listErr: supplier.ErrAuthFailed}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	assert.ErrorIs(t, err, supplier.ErrAuthFailed)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Synced)
}

func TestService_Run_DetailRateLimitRetriesOnce(t *testing.T) {
	gateway := &fakeGateway{
		pages: singlePage(mugItem()),
		details: map[string]*supplier.Product{
			"P-1": mugDetail(),
		},
		detailErrs: map[string][]error{
			"P-1": {supplier.ErrRateLimited},
		},
	}
	rig := newTestRig(t, gateway, Options{})

	slept := 0
	rig.service.sleepFn = func(context.Context, time.Duration) error {
		slept++
		return nil
	}

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, slept)
	assert.Equal(t, 2, gateway.detailCalls)
	assert.Equal(t, 1, result.Synced)
}

func TestService_Run_MissingDetailFallsBackToThumbnail(t *testing.T) {
	gateway := &fakeGateway{
		pages: singlePage(mugItem()),
		detailErrs: map[string][]error{
			"P-1": {supplier.ErrUnavailable},
		},
	}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.NotEmpty(t, result.Warnings)

	product := rig.products.byExternal["P-1"]
	require.NotNil(t, product)
	assert.Equal(t, catalog.ImageList{"https://cdn/mug.jpg"}, product.Images)
}

func TestService_Run_RemovedProductSkipped(t *testing.T) {
	gateway := &fakeGateway{
		pages: singlePage(mugItem()),
		// no detail registered: the fake reports not found
	}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, rig.products.byExternal)
}

func TestService_Run_NonViableProductHidden(t *testing.T) {
	item := mugItem()
	item.Price = "0.01"
	detail := mugDetail()
	detail.Price = item.Price
	gateway := &fakeGateway{
		pages:   singlePage(item),
		details: map[string]*supplier.Product{"P-1": detail},
		// retail lands at 0.99 and the fixed processor fee eats the margin
		freight: []supplier.FreightOption{{Price: decimal.NewFromFloat(0.49)}},
	}
	rig := newTestRig(t, gateway, Options{})

	result, err := rig.service.Run(context.Background(), SyncRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Hidden)

	product := rig.products.byExternal["P-1"]
	require.NotNil(t, product)
	assert.Equal(t, catalog.ProductStatusHidden, product.Status)
	assert.True(t, product.MarginPercent.LessThan(decimal.NewFromInt(20)))
}

func TestService_RecentRuns(t *testing.T) {
	gateway := &fakeGateway{
		pages:   singlePage(mugItem()),
		details: map[string]*supplier.Product{"P-1": mugDetail()},
	}
	rig := newTestRig(t, gateway, Options{})
	ctx := context.Background()

	_, err := rig.service.Run(ctx, SyncRequest{})
	require.NoError(t, err)
	_, err = rig.service.Run(ctx, SyncRequest{})
	require.NoError(t, err)

	runs := rig.service.RecentRuns()
	require.Len(t, runs, 2)
	assert.False(t, runs[0].StartedAt.Before(runs[1].StartedAt))
}
