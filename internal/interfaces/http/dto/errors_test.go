package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeSyncInProgress, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeUpstreamAuth, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetHTTPStatus(tt.code), "code %s", tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domain string
		wire   string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"SYNC_IN_PROGRESS", ErrCodeSyncInProgress},
		{"INVALID_EXTERNAL_ID", ErrCodeInvalidInput},
		{"INVALID_EXTERNAL_VARIANT_ID", ErrCodeInvalidInput},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_CUSTOM", "SOMETHING_CUSTOM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wire, NormalizeErrorCode(tt.domain), "code %s", tt.domain)
	}
}

func TestResponseSerialization(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		data, err := json.Marshal(NewSuccessResponse(map[string]string{"key": "value"}))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"success":true`)
		assert.NotContains(t, string(data), `"error"`)
	})

	t.Run("error omits data", func(t *testing.T) {
		data, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-1"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"success":false`)
		assert.Contains(t, string(data), `"request_id":"req-1"`)
		assert.NotContains(t, string(data), `"data"`)
	})

	t.Run("meta computes total pages", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 45, 2, 20)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})
}

func TestListRequestNormalize(t *testing.T) {
	var req ListRequest
	req.Normalize()

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.Equal(t, "desc", req.OrderDir)
}
