package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/interfaces/http/dto"
)

// ProductHandler exposes read access to the synced catalog
type ProductHandler struct {
	BaseHandler
	products catalog.ProductRepository
	variants catalog.VariantRepository
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products catalog.ProductRepository, variants catalog.VariantRepository) *ProductHandler {
	return &ProductHandler{products: products, variants: variants}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
	}
}

// ListProductsRequest extends the common list parameters with a status
// filter
type ListProductsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active pending hidden"`
}

// List returns a page of catalog products
func (h *ProductHandler) List(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	var (
		products []catalog.Product
		err      error
	)
	if req.Status != "" {
		products, err = h.products.FindByStatus(c.Request.Context(), catalog.ProductStatus(req.Status), filter)
	} else {
		products, err = h.products.FindAll(c.Request.Context(), filter)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	total, err := h.products.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(products), total, req.Page, req.PageSize)
}

// Get returns a single product with its variants
func (h *ProductHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	id := uuid.MustParse(req.ID)

	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	variants, err := h.variants.FindByProductID(c.Request.Context(), product.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProductDetailResponse{
		ProductResponse: toProductResponse(product),
		Variants:        toVariantResponses(variants),
	})
}
