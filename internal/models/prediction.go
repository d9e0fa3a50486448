package models

// Vehicle current-status values as reported by the MBTA v3 API.
const (
	VehicleIncomingAt  = "INCOMING_AT"
	VehicleStoppedAt   = "STOPPED_AT"
	VehicleInTransitTo = "IN_TRANSIT_TO"
)

// Prediction is one ranked train candidate as served to clients. Nullable
// upstream fields stay pointers; DepartByTime and MinutesUntilDeparture are
// derived once at poll time and are not re-computed per request.
type Prediction struct {
	ID                    string  `json:"id"`
	ArrivalTime           *string `json:"arrivalTime"`
	DepartureTime         *string `json:"departureTime"`
	DirectionID           int     `json:"directionId"`
	Status                *string `json:"status"`
	VehicleID             *string `json:"vehicleId"`
	StopSequence          *int    `json:"stopSequence"`
	VehicleStatus         *string `json:"vehicleStatus"`
	Branch                *string `json:"branch"`
	DepartByTime          *string `json:"departByTime"`
	MinutesUntilDeparture *int    `json:"minutesUntilDeparture"`
}

// PredictionsData is the predictions endpoint payload.
type PredictionsData struct {
	Predictions []Prediction `json:"predictions"`
}
