package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
}

func TestCacheMiddleware_CachesCatalogRoutes(t *testing.T) {
	calls := 0
	handler := NewCacheMiddleware(newMemoryCache(), nil).Middleware(countingHandler(&calls))

	for i, want := range []string{"MISS", "HIT"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accommodations?category=Beach", nil))
		assert.Equal(t, want, w.Header().Get("X-Cache"), "request %d", i)
		assert.Equal(t, `[]`, w.Body.String())
	}
	assert.Equal(t, 1, calls)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accommodations/A1", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestCacheMiddleware_SkipsMutableRoutes(t *testing.T) {
	calls := 0
	handler := NewCacheMiddleware(newMemoryCache(), nil).Middleware(countingHandler(&calls))

	for range 2 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favorites?userId=u1", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/accommodations", nil))
	assert.Empty(t, w.Header().Get("X-Cache"))

	assert.Equal(t, 3, calls)
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	t.Run("allowed origin is echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.Header.Set("Origin", "https://app.example.com")
		CORSMiddleware([]string{"https://app.example.com"})(next).ServeHTTP(w, r)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		CORSMiddleware([]string{"https://app.example.com"})(next).ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty list allows any origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/users", nil)
		r.Header.Set("Origin", "https://anything.example.com")
		CORSMiddleware(nil)(next).ServeHTTP(w, r)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLoggingMiddleware_PassesThroughStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) })
	w := httptest.NewRecorder()
	LoggingMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
