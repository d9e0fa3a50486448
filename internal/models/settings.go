package models

// Settings is the rider's stored configuration. Validation tags are
// enforced by the settings store before any write is applied.
type Settings struct {
	WalkTimeMinutes int    `json:"walkTimeMinutes" validate:"gte=1,lte=60"`
	StationID       string `json:"stationId" validate:"required"`
	RouteID         string `json:"routeId" validate:"required"`
	DirectionID     int    `json:"directionId" validate:"gte=0,lte=1"`
}

// DefaultSettings matches the out-of-the-box configuration: JFK/UMass,
// Red Line, southbound, six-minute walk.
func DefaultSettings() Settings {
	return Settings{
		WalkTimeMinutes: 6,
		StationID:       "place-jfk",
		RouteID:         "Red",
		DirectionID:     0,
	}
}

// UpdateSettingsRequest is a partial settings update. Nil fields keep
// their current values.
type UpdateSettingsRequest struct {
	WalkTimeMinutes *int    `json:"walkTimeMinutes,omitempty"`
	StationID       *string `json:"stationId,omitempty"`
	RouteID         *string `json:"routeId,omitempty"`
	DirectionID     *int    `json:"directionId,omitempty"`
}

// Apply returns a copy of s with the non-nil fields of u applied.
func (u UpdateSettingsRequest) Apply(s Settings) Settings {
	if u.WalkTimeMinutes != nil {
		s.WalkTimeMinutes = *u.WalkTimeMinutes
	}
	if u.StationID != nil {
		s.StationID = *u.StationID
	}
	if u.RouteID != nil {
		s.RouteID = *u.RouteID
	}
	if u.DirectionID != nil {
		s.DirectionID = *u.DirectionID
	}
	return s
}
