package restapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaikar-syr/departby/internal/clock"
	"github.com/awaikar-syr/departby/internal/metrics"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seenID string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seenID)
		assert.Equal(t, seenID, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagates a well-formed client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "trace-123.abc:span")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "trace-123.abc:span", seenID)
	})

	t.Run("replaces a malformed client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "bad id with spaces")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, "bad id with spaces", seenID)
		assert.NotEmpty(t, seenID)
	})

	t.Run("replaces an oversized client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 129))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, strings.Repeat("a", 129), seenID)
	})
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}

func TestCacheControlMiddleware(t *testing.T) {
	t.Run("zero duration disables caching", func(t *testing.T) {
		handler := CacheControlMiddleware(0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("positive duration sets max-age", func(t *testing.T) {
		handler := CacheControlMiddleware(300, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	})

	t.Run("error responses are never cached", func(t *testing.T) {
		handler := CacheControlMiddleware(300, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	})
}

func TestMetricsHandlerRecordsRequests(t *testing.T) {
	m := metrics.New()

	mux := http.NewServeMux()
	mux.Handle("GET /api/test", MetricsHandler(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "GET /api/test", "418"))
	assert.Equal(t, 1.0, count)
}

func TestMetricsHandlerNilMetricsPassesThrough(t *testing.T) {
	handler := MetricsHandler(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitMiddlewarePerKey(t *testing.T) {
	mock := clock.NewMockClock(testNow)
	rl := NewRateLimitMiddleware(1, nil, mock)
	defer rl.Stop()

	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(key string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?key="+key, nil))
		return rec.Code
	}

	// Each key has its own bucket.
	assert.Equal(t, http.StatusOK, serve("key-a"))
	assert.Equal(t, http.StatusTooManyRequests, serve("key-a"))
	assert.Equal(t, http.StatusOK, serve("key-b"))
}

func TestRateLimitMiddlewareUnlimitedWhenDisabled(t *testing.T) {
	mock := clock.NewMockClock(testNow)
	rl := NewRateLimitMiddleware(0, nil, mock)
	defer rl.Stop()

	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?key=any", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
