package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
)

// PricingHandler exposes pricing previews and pricing policy settings
type PricingHandler struct {
	BaseHandler
	store pricing.ConfigStore
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(store pricing.ConfigStore) *PricingHandler {
	return &PricingHandler{store: store}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pricing/preview", h.Preview)

	settings := rg.Group("/settings")
	{
		settings.GET("/pricing", h.GetConfig)
		settings.PUT("/pricing", h.UpdateConfig)
	}
}

// PreviewRequest asks what retail price a supplier cost would produce
// under the stored pricing policy
type PreviewRequest struct {
	SupplierPrice decimal.Decimal  `json:"supplier_price" binding:"required"`
	ShippingCost  decimal.Decimal  `json:"shipping_cost"`
	Markup        *decimal.Decimal `json:"markup"`
}

// Preview computes a pricing result without persisting anything
func (h *PricingHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.loadConfig(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	markup := cfg.MarkupMultiplier
	if req.Markup != nil {
		markup = *req.Markup
	}

	calc := pricing.NewCalculator(*cfg)
	result := calc.Compute(req.SupplierPrice, req.ShippingCost, markup)
	h.Success(c, result)
}

// GetConfig returns the stored pricing policy, falling back to the
// defaults when none has been saved yet
func (h *PricingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.loadConfig(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateConfig replaces the stored pricing policy
func (h *PricingHandler) UpdateConfig(c *gin.Context) {
	var cfg pricing.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.store.SavePricingConfig(c.Request.Context(), &cfg); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

func (h *PricingHandler) loadConfig(c *gin.Context) (*pricing.Config, error) {
	cfg, err := h.store.LoadPricingConfig(c.Request.Context())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			defaults := pricing.DefaultConfig()
			return &defaults, nil
		}
		return nil, err
	}
	return cfg, nil
}
