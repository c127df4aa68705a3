package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newGinTestRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	logger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(logger))
	return router, recorded
}

func findEntry(recorded *observer.ObservedLogs, msg string) *observer.LoggedEntry {
	for _, entry := range recorded.All() {
		if entry.Message == msg {
			e := entry
			return &e
		}
	}
	return nil
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel)
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?page=2", nil)
	router.ServeHTTP(w, req)

	entry := findEntry(recorded, "HTTP Request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/products", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "page=2", fields["query"])
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.WarnLevel)
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entry := findEntry(recorded, "HTTP Request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.ErrorLevel)
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entry := findEntry(recorded, "HTTP Request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGinMiddleware_StoresRequestScopedLogger(t *testing.T) {
	router, _ := newGinTestRouter(zapcore.InfoLevel)

	var handlerLogger *zap.Logger
	router.GET("/scoped", func(c *gin.Context) {
		handlerLogger = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scoped", nil))

	require.NotNil(t, handlerLogger)
}

func TestGetGinLogger_MissingReturnsNop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	logger := GetGinLogger(c)
	require.NotNil(t, logger)
	logger.Info("ignored")
}

func TestRecovery_HandlesPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entry := findEntry(recorded, "Panic recovered")
	require.NotNil(t, entry)
	assert.Equal(t, "/panic", entry.ContextMap()["path"])
}
