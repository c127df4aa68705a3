package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appsync "github.com/dropship/backend/internal/application/sync"
)

// SyncService is the slice of the sync application service the HTTP
// surface needs
type SyncService interface {
	Run(ctx context.Context, req appsync.SyncRequest) (*appsync.SyncRunResult, error)
	RecentRuns() []appsync.SyncRunResult
}

// SyncHandler exposes catalog sync runs over HTTP
type SyncHandler struct {
	BaseHandler
	service SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/runs", h.TriggerRun)
		sync.GET("/runs", h.ListRuns)
	}
}

// TriggerRunRequest is the sync trigger request body. All fields are
// optional; an empty body starts a default incremental run.
type TriggerRunRequest struct {
	Resync     bool   `json:"resync"`
	Warehouse  string `json:"warehouse" binding:"omitempty,oneof=all US CN CA"`
	CategoryID string `json:"category_id"`
	Page       int    `json:"page" binding:"omitempty,min=1"`
	PageSize   int    `json:"page_size" binding:"omitempty,min=1,max=200"`
}

// TriggerRun starts a catalog sync run and blocks until it completes.
// Runs are serialized; a concurrent trigger gets 409.
func (h *SyncHandler) TriggerRun(c *gin.Context) {
	var req TriggerRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	result, err := h.service.Run(c.Request.Context(), appsync.SyncRequest{
		Resync:     req.Resync,
		Warehouse:  req.Warehouse,
		CategoryID: req.CategoryID,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		// A run can fail mid-page; the partial tallies still go back
		// to the operator
		if result != nil {
			h.HandleErrorWithData(c, err, result)
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListRuns returns recent sync run summaries, newest first
func (h *SyncHandler) ListRuns(c *gin.Context) {
	runs := h.service.RecentRuns()
	if runs == nil {
		runs = []appsync.SyncRunResult{}
	}
	h.Success(c, runs)
}
