package restapi

import (
	"net/http"

	"github.com/awaikar-syr/departby/internal/models"
	"github.com/awaikar-syr/departby/internal/pipeline"
	"github.com/awaikar-syr/departby/internal/topology"
)

// RouteMapData is the route-map endpoint payload: the rider-centered
// window with the tracked train's position, plus the prediction the view
// was built from (absent when no train qualified).
type RouteMapData struct {
	View       topology.View      `json:"view"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
}

// routeMapHandler projects the hero prediction's vehicle onto the rider's
// topology window. An optional ?branch= query narrows the candidates to
// one branch, which is how the southbound dual-map display asks for each
// fork separately.
func (api *RestAPI) routeMapHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	snapshot, _ := api.FeedManager.Snapshot()

	cfg, err := api.Settings.Get(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	branchFilter := r.URL.Query().Get("branch")

	var candidates []models.Prediction
	if snapshot != nil {
		for _, p := range snapshot.Predictions {
			if branchFilter != "" && (p.Branch == nil || *p.Branch != branchFilter) {
				continue
			}
			candidates = append(candidates, p)
		}
	}

	params := topology.PositionParams{
		StationID:   cfg.StationID,
		DirectionID: cfg.DirectionID,
	}
	if branchFilter != "" {
		b := branchFilter
		params.Branch = &b
	}

	var tracked *models.Prediction
	if hero, ok := pipeline.SelectHero(candidates); ok {
		tracked = &hero
		if params.Branch == nil {
			params.Branch = hero.Branch
		}
		params.VehicleStopSequence = hero.StopSequence
		params.VehicleStatus = hero.VehicleStatus
		params.MinutesUntilDeparture = hero.MinutesUntilDeparture
	}

	data := RouteMapData{
		View:       topology.MapPosition(params),
		Prediction: tracked,
	}
	api.sendResponse(w, r, models.NewOKResponse(data, api.Clock))
}
