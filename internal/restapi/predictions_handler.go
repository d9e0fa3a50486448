package restapi

import (
	"net/http"

	"github.com/awaikar-syr/departby/internal/models"
)

// predictionsHandler serves the ranked prediction list from the latest
// feed snapshot. A failed poll keeps serving the last-known-good
// snapshot; only when no snapshot exists at all does a feed error surface
// as "predictions unavailable".
func (api *RestAPI) predictionsHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	snapshot, lastErr := api.FeedManager.Snapshot()
	if snapshot == nil {
		if lastErr != nil {
			api.sendError(w, r, http.StatusServiceUnavailable, "predictions unavailable")
			return
		}
		api.sendResponse(w, r, models.NewOKResponse(models.PredictionsData{Predictions: []models.Prediction{}}, api.Clock))
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.PredictionsData{Predictions: snapshot.Predictions}, api.Clock))
}

// requireAPIKey enforces the key check when keys are configured. Returns
// true when the request was rejected.
func (api *RestAPI) requireAPIKey(w http.ResponseWriter, r *http.Request) bool {
	if len(api.Config.ApiKeys) == 0 {
		return false
	}
	if api.RequestHasInvalidAPIKey(r) {
		api.sendUnauthorized(w, r)
		return true
	}
	return false
}
