package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dropship/backend/internal/domain/catalog"
)

// CategoryHandler exposes read access to catalog categories
type CategoryHandler struct {
	BaseHandler
	categories catalog.CategoryRepository
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories catalog.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
}

// List returns all categories in display order
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCategoryResponses(categories))
}
