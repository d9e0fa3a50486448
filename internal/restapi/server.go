// Package restapi exposes the departby HTTP API: ranked predictions,
// the route-map projection, the live countdown, and settings.
package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awaikar-syr/departby/internal/app"
)

// RestAPI carries the application dependencies into the HTTP handlers.
type RestAPI struct {
	*app.Application

	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates the API layer over an Application.
func NewRestAPI(application *app.Application) *RestAPI {
	api := &RestAPI{Application: application}
	if application.Config.RateLimit > 0 {
		api.rateLimiter = NewRateLimitMiddleware(application.Config.RateLimit, application.Config.ApiKeys, application.Clock)
	}
	return api
}

// SetRoutes registers all endpoints on mux, wrapped in the middleware
// chain: request id, request logging, metrics, rate limiting, gzip.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	chain := func(h http.Handler) http.Handler {
		h = gzhttp.GzipHandler(h)
		if api.rateLimiter != nil {
			h = api.rateLimiter.Handler()(h)
		}
		h = MetricsHandler(api.Metrics)(h)
		h = NewRequestLoggingMiddleware(api.Logger)(h)
		return RequestIDMiddleware(h)
	}

	mux.Handle("GET /api/departby/predictions.json",
		chain(CacheControlMiddleware(0, http.HandlerFunc(api.predictionsHandler))))
	mux.Handle("GET /api/departby/route-map.json",
		chain(CacheControlMiddleware(0, http.HandlerFunc(api.routeMapHandler))))
	mux.Handle("GET /api/departby/countdown.json",
		chain(CacheControlMiddleware(0, http.HandlerFunc(api.countdownHandler))))
	mux.Handle("GET /api/departby/settings.json",
		chain(http.HandlerFunc(api.getSettingsHandler)))
	mux.Handle("PUT /api/departby/settings.json",
		chain(http.HandlerFunc(api.updateSettingsHandler)))
	mux.Handle("GET /api/departby/current-time.json",
		chain(CacheControlMiddleware(0, http.HandlerFunc(api.currentTimeHandler))))
	mux.Handle("GET /api/departby/health.json",
		chain(http.HandlerFunc(api.healthHandler)))

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Shutdown stops API-owned background goroutines.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
