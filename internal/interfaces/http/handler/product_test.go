package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/interfaces/http/dto"
)

type fakeProductRepo struct {
	products []catalog.Product
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	for i := range f.products {
		if f.products[i].ExternalID == externalID {
			return &f.products[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Upsert(ctx context.Context, product *catalog.Product) (bool, error) {
	return false, nil
}

func (f *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	return nil
}

func (f *fakeProductRepo) DeleteSynced(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.products)), nil
}

type fakeVariantRepo struct {
	variants map[uuid.UUID][]catalog.Variant
}

func (f *fakeVariantRepo) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	return f.variants[productID], nil
}

func (f *fakeVariantRepo) FindByExternalID(ctx context.Context, externalVariantID string) (*catalog.Variant, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeVariantRepo) Upsert(ctx context.Context, variant *catalog.Variant) error {
	return nil
}

func (f *fakeVariantRepo) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func newCatalogFixture(t *testing.T) (*fakeProductRepo, *fakeVariantRepo, uuid.UUID) {
	t.Helper()

	product, err := catalog.NewProduct("P-1", "Ceramic Mug")
	require.NoError(t, err)
	product.ID = uuid.New()
	product.RetailPrice = decimal.RequireFromString("25.99")
	product.Status = catalog.ProductStatusActive

	hidden, err := catalog.NewProduct("P-2", "Thin Margin Lamp")
	require.NoError(t, err)
	hidden.ID = uuid.New()
	hidden.Status = catalog.ProductStatusHidden

	variant, err := catalog.NewVariant(product.ID, "V-1", "Blue-L")
	require.NoError(t, err)
	variant.ID = uuid.New()

	products := &fakeProductRepo{products: []catalog.Product{*product, *hidden}}
	variants := &fakeVariantRepo{variants: map[uuid.UUID][]catalog.Variant{
		product.ID: {*variant},
	}}
	return products, variants, product.ID
}

func newProductTestRouter(products catalog.ProductRepository, variants catalog.VariantRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewProductHandler(products, variants).RegisterRoutes(api)
	return engine
}

func TestProductHandler_List(t *testing.T) {
	products, variants, _ := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestProductHandler_List_StatusFilter(t *testing.T) {
	products, variants, _ := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?status=hidden", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)

	entry, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hidden", entry["status"])
}

func TestProductHandler_List_InvalidStatusRejected(t *testing.T) {
	products, variants, _ := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?status=archived", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Get(t *testing.T) {
	products, variants, productID := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "P-1", data["external_id"])
	assert.Equal(t, "25.99", data["retail_price"])

	vlist, ok := data["variants"].([]interface{})
	require.True(t, ok)
	require.Len(t, vlist, 1)
	variant, ok := vlist[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "V-1", variant["external_variant_id"])
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	products, variants, _ := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	products, variants, _ := newCatalogFixture(t)
	engine := newProductTestRouter(products, variants)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
