package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "sess-1"

var fixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Data      T      `json:"data"`
	RequestID string `json:"request_id"`
}

func newTestCartStore(store repository.SlotStore) *service.CartStore {
	n := 0
	return service.NewCartStore(store,
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(func() (string, error) {
			n++
			return fmt.Sprintf("order-%d", n), nil
		}),
		service.WithStoreTimeout(time.Second),
	)
}

func setupRouterWithStore(store repository.SlotStore) *gin.Engine {
	handler := NewCartHandler(newTestCartStore(store), nil)
	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	return NewRouter(handler, NewHealthHandler(), cfg)
}

func setupRouter() *gin.Engine {
	return setupRouterWithStore(repository.NewMemoryStore())
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cartPath(suffix string) string {
	return "/api/sessions/" + testSession + suffix
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.NotEmpty(t, env.RequestID)
	return env.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func seed(t *testing.T, router *gin.Engine) {
	t.Helper()
	for _, body := range []string{
		`{"id":"1","name":"Shirt","price":"₹1,200"}`,
		`{"id":"1","name":"Shirt","price":"₹1,200"}`,
		`{"id":"2","name":"Jeans","price":"₹2,500"}`,
	} {
		w := doRequest(router, http.MethodPost, cartPath("/cart/items"), body, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

