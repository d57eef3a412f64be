package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the request header carrying the client key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a replayed response.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyTTL is how long responses stay replayable.
	DefaultIdempotencyTTL = 5 * time.Minute
	// DefaultIdempotencyCapacity bounds the number of stored responses.
	DefaultIdempotencyCapacity = 10000
	maxIdempotencyBody         = 1 << 20
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	TTL      time.Duration
	Capacity int
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:      DefaultIdempotencyTTL,
		Capacity: DefaultIdempotencyCapacity,
	}
}

// IdempotencyStore replays the stored 2xx response when a POST, PUT or
// PATCH repeats an Idempotency-Key with the same path and body. A retried
// checkout therefore returns the original order instead of failing on the
// now empty cart. Requests sharing a key run one at a time.
type IdempotencyStore struct {
	cache    *idempotencyCache
	inflight keyedMutex
	maxBody  int64
}

// NewIdempotencyStore starts the response cache. Call Stop on shutdown.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{
		cache:   newIdempotencyCache(cfg.TTL, cfg.Capacity),
		maxBody: maxIdempotencyBody,
	}
}

// Idempotency returns the replaying middleware. Keyed requests whose body
// exceeds the hashing limit get 413.
func (s *IdempotencyStore) Idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey, err := idempotencyCacheKey(key, c.Request, s.maxBody)
		if errors.Is(err, errBodyTooLarge) {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRequestTooLarge, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewError(dto.ErrCodeTooLarge, message).WithRequestID(GetRequestID(c)))
			return
		}
		if err != nil {
			c.Next()
			return
		}

		unlock := s.inflight.lock(cacheKey)
		defer unlock()

		if cached, ok := s.cache.Get(cacheKey); ok {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		if status := recorder.Status(); status >= 200 && status < 300 {
			s.cache.Set(cacheKey, &cachedResponse{
				StatusCode:  status,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
		}
	}
}

// Stop ends the cache janitor. It is safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.cache.Stop()
}

var errBodyTooLarge = errors.New("request body too large to hash")

// idempotencyCacheKey hashes the client key with the method, path and body.
// The body is restored for the handler. A body over limit bytes is never
// hashed by prefix; it returns errBodyTooLarge.
func idempotencyCacheKey(key string, req *http.Request, limit int64) (string, error) {
	h := sha256.New()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(req.Method))
	h.Write([]byte{0})
	h.Write([]byte(req.URL.Path))
	h.Write([]byte{0})

	if req.Body != nil {
		body, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
		if err != nil {
			return "", err
		}
		if int64(len(body)) > limit {
			return "", errBodyTooLarge
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// bodyRecorder copies the response body while writing it through.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// keyedMutex hands out one lock per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
