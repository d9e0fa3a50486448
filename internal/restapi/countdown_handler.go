package restapi

import (
	"net/http"
	"time"

	"github.com/awaikar-syr/departby/internal/countdown"
	"github.com/awaikar-syr/departby/internal/models"
)

// CountdownData is the countdown endpoint payload.
type CountdownData struct {
	Target    *string           `json:"target"`
	Countdown countdown.State   `json:"countdown"`
	Urgency   countdown.Urgency `json:"urgency"`
}

// countdownHandler serves the live countdown for the hero prediction's
// depart-by instant. The engine re-evaluates once per second; urgency is
// derived from its output here, on the consumer side.
func (api *RestAPI) countdownHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	state := api.Countdown.State()

	var target *string
	if t := api.Countdown.Target(); t != nil {
		s := t.Format(time.RFC3339)
		target = &s
	}

	data := CountdownData{
		Target:    target,
		Countdown: state,
		Urgency:   countdown.Classify(state),
	}
	api.sendResponse(w, r, models.NewOKResponse(data, api.Clock))
}
