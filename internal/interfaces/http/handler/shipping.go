package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shipping"
)

// ShippingHandler exposes shipping quotes and shipping policy settings
type ShippingHandler struct {
	BaseHandler
	resolver *shipping.Resolver
	store    shipping.ConfigStore
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(resolver *shipping.Resolver, store shipping.ConfigStore) *ShippingHandler {
	return &ShippingHandler{resolver: resolver, store: store}
}

// RegisterRoutes registers shipping routes
func (h *ShippingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/shipping/quote", h.Quote)

	settings := rg.Group("/settings")
	{
		settings.GET("/shipping", h.GetConfig)
		settings.PUT("/shipping", h.UpdateConfig)
	}
}

// QuoteItemRequest is one cart line in a quote request
type QuoteItemRequest struct {
	Name              string          `json:"name"`
	ExternalVariantID string          `json:"external_variant_id"`
	Quantity          int             `json:"quantity" binding:"required,min=1"`
	Price             decimal.Decimal `json:"price"`
	WeightGrams       int             `json:"weight_grams" binding:"omitempty,min=0"`
	IsDigital         bool            `json:"is_digital"`
}

// QuoteRequest is the shipping quote request body
type QuoteRequest struct {
	Items    []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// Quote resolves the shipping charge for a cart against the stored
// shipping policy
func (h *ShippingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.loadConfig(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]shipping.CartItem, 0, len(req.Items))
	subtotal := req.Subtotal
	for _, item := range req.Items {
		items = append(items, shipping.CartItem{
			Name:              item.Name,
			ExternalVariantID: item.ExternalVariantID,
			Quantity:          item.Quantity,
			Price:             item.Price,
			WeightGrams:       item.WeightGrams,
			IsDigital:         item.IsDigital,
		})
		if req.Subtotal.IsZero() {
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	quote := h.resolver.Resolve(c.Request.Context(), items, subtotal, cfg)
	h.Success(c, quote)
}

// GetConfig returns the stored shipping policy, falling back to the
// defaults when none has been saved yet
func (h *ShippingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.loadConfig(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateConfig replaces the stored shipping policy
func (h *ShippingHandler) UpdateConfig(c *gin.Context) {
	var cfg shipping.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.store.SaveShippingConfig(c.Request.Context(), &cfg); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

func (h *ShippingHandler) loadConfig(c *gin.Context) (*shipping.Config, error) {
	cfg, err := h.store.LoadShippingConfig(c.Request.Context())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			defaults := shipping.DefaultConfig()
			return &defaults, nil
		}
		return nil, err
	}
	return cfg, nil
}
