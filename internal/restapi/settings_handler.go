package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/awaikar-syr/departby/internal/logging"
	"github.com/awaikar-syr/departby/internal/models"
	"github.com/awaikar-syr/departby/internal/settings"
)

func (api *RestAPI) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	cfg, err := api.Settings.Get(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(cfg, api.Clock))
}

// updateSettingsHandler applies a partial settings update. Out-of-bounds
// values are rejected with a field-level message before anything is
// written; prior settings stay in effect. An accepted update kicks off an
// immediate re-poll so the snapshot reflects the new station without
// waiting out the poll interval.
func (api *RestAPI) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := api.Settings.Update(r.Context(), req)
	if err != nil {
		var verr *settings.ValidationError
		if errors.As(err, &verr) {
			api.sendError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("%s: %s", verr.Field, verr.Message))
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	if api.FeedManager != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := api.FeedManager.Refresh(ctx); err != nil {
				logging.LogError(api.Logger, "refresh after settings update failed", err)
			}
		}()
	}

	api.sendResponse(w, r, models.NewOKResponse(updated, api.Clock))
}
