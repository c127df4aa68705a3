package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropship/backend/internal/domain/shared"
	domainsupplier "github.com/dropship/backend/internal/domain/supplier"
	"github.com/dropship/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain and supplier errors to HTTP responses.
// Unknown error types surface as 500 without leaking detail.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := mapError(err)
	h.Error(c, status, code, message)
}

// HandleErrorWithData is HandleError for operations that fail after
// doing partial work; the payload rides in the data field next to the
// error so the caller still sees what was done
func (h *BaseHandler) HandleErrorWithData(c *gin.Context, err error, data any) {
	if err == nil {
		return
	}
	status, code, message := mapError(err)
	resp := dto.NewErrorResponseWithRequestID(code, message, getRequestID(c))
	resp.Data = data
	c.JSON(status, resp)
}

func mapError(err error) (status int, code, message string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		return dto.GetHTTPStatus(code), code, domainErr.Message
	}

	switch {
	case errors.Is(err, domainsupplier.ErrAuthFailed),
		errors.Is(err, domainsupplier.ErrAuthCooldown),
		errors.Is(err, domainsupplier.ErrNotConfigured):
		return http.StatusBadGateway, dto.ErrCodeUpstreamAuth, err.Error()
	case errors.Is(err, domainsupplier.ErrRateLimited):
		return http.StatusTooManyRequests, dto.ErrCodeRateLimited, err.Error()
	case errors.Is(err, domainsupplier.ErrUnavailable),
		errors.Is(err, domainsupplier.ErrInvalidResponse):
		return http.StatusBadGateway, dto.ErrCodeUpstream, err.Error()
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"
	}
}
