//go:build !integration

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success logs at info", status: http.StatusOK, wantLevel: "info"},
		{name: "client error logs at warn", status: http.StatusNotFound, wantLevel: "warn"},
		{name: "server error logs at error", status: http.StatusServiceUnavailable, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.InitWithWriter("info", false, &buf)
			defer logger.Init("info", false)

			router := gin.New()
			router.Use(RequestID(), RequestLogger())
			router.GET("/api/sessions/:session/cart", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc/cart", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			var line map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, "req-1", line["request_id"])
			assert.Equal(t, "abc", line["session_id"])
			assert.Equal(t, "/api/sessions/:session/cart", line["route"])
			assert.Equal(t, float64(tt.status), line["status_code"])
		})
	}
}
