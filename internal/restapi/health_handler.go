package restapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/awaikar-syr/departby/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Detail        string `json:"detail,omitempty"`
	LastFetchUnix int64  `json:"lastFetchUnix,omitempty"`
}

// healthHandler verifies settings-store connectivity and reports feed
// freshness. A stale or failing feed is degraded, not down: handlers keep
// serving last-known-good data.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Settings == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "settings store not initialized",
		})
		return
	}

	if err := api.Settings.DB().PingContext(r.Context()); err != nil {
		logging.LogError(api.Logger, "settings DB ping failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "database connection failed",
		})
		return
	}

	resp := HealthResponse{Status: "ok"}
	if snapshot, lastErr := api.FeedManager.Snapshot(); snapshot != nil {
		resp.LastFetchUnix = snapshot.FetchedAt.Unix()
		if age := api.Clock.Now().Sub(snapshot.FetchedAt); age > 5*time.Minute {
			resp.Status = "degraded"
			resp.Detail = "feed data is stale"
		}
	} else if lastErr != nil {
		resp.Status = "degraded"
		resp.Detail = "no feed data yet"
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
