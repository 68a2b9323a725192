//go:build unit

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := NewLogger(config.NewTestConfig().Log)

	engine := gin.New()
	engine.Use(logger.LoggingMiddleware(), CustomRecovery(), ErrorHandler())
	engine.GET("/probe", handlers...)
	return engine
}

func serve(engine *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	testCases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent", incoming: "", keep: false},
		{name: "caller id is echoed", incoming: "req-0123456789", keep: true},
		{name: "unsafe caller id is replaced", incoming: "bad id\nwith newline", keep: false},
		{name: "too short caller id is replaced", incoming: "abc", keep: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.incoming != "" {
				h.Set(RequestIDHeader, tc.incoming)
			}

			w := serve(engine, h)

			got := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, w.Body.String())
			if tc.keep {
				assert.Equal(t, tc.incoming, got)
			} else {
				assert.NotEqual(t, tc.incoming, got)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Run("recorded public error is written once", func(t *testing.T) {
		engine := newTestEngine(func(c *gin.Context) {
			httperr.AbortWithCode(c, http.StatusConflict, errs.New("dup"), "booking_conflict", "Booking conflict", nil)
		})

		w := serve(engine, http.Header{RequestIDHeader: {"req-0123456789"}})

		require.Equal(t, http.StatusConflict, w.Code)
		var resp httperr.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "booking_conflict", resp.Error.Code)
		assert.Equal(t, "req-0123456789", resp.RequestID)
	})

	t.Run("private error without response becomes 500", func(t *testing.T) {
		engine := newTestEngine(func(c *gin.Context) {
			_ = c.Error(errs.New("boom"))
		})

		w := serve(engine, nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp httperr.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "internal_error", resp.Error.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		engine := newTestEngine(func(*gin.Context) {
			panic("unexpected")
		})

		w := serve(engine, nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp httperr.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Internal server error", resp.Error.Message)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestWithValues(t *testing.T) {
	testCases := []struct {
		name       string
		configured []string
		required   []string
		expect     []string
	}{
		{
			name:       "missing values are appended",
			configured: []string{"Content-Type"},
			required:   []string{"Content-Type", IdempotencyKeyHeader},
			expect:     []string{"Content-Type", IdempotencyKeyHeader},
		},
		{
			name:       "match ignores case",
			configured: []string{"idempotency-key", "x-platform-client-id"},
			required:   []string{IdempotencyKeyHeader, PlatformClientIDHeader},
			expect:     []string{"idempotency-key", "x-platform-client-id"},
		},
		{
			name:       "empty configuration",
			configured: nil,
			required:   []string{IdempotentReplayedHeader},
			expect:     []string{IdempotentReplayedHeader},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, withValues(tc.configured, tc.required...))
		})
	}
}

func TestCORSMiddleware_ExposesReplayHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.CORSConfig{
		AllowOrigins: []string{"http://app.example"},
		AllowMethods: []string{http.MethodPost},
	}
	engine := gin.New()
	engine.Use(NewCORSMiddleware(cfg))
	engine.POST("/api/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	preflight := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	preflight.Header.Set("Origin", "http://app.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", IdempotencyKeyHeader)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, preflight)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), strings.ToLower(IdempotencyKeyHeader))

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set("Origin", "http://app.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Expose-Headers")), strings.ToLower(IdempotentReplayedHeader))
}
