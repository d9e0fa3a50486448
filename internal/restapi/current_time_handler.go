package restapi

import (
	"net/http"

	"github.com/awaikar-syr/departby/internal/models"
)

// currentTimeHandler writes a JSON response with information about the
// current time.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	if api.requireAPIKey(w, r) {
		return
	}

	timeData := models.NewCurrentTimeData(api.Clock.Now())
	api.sendResponse(w, r, models.NewOKResponse(timeData, api.Clock))
}
