// Package mbta is a minimal client for the MBTA v3 JSON:API predictions
// feed. It decodes only the resources and attributes this service uses.
package mbta

import "encoding/json"

// PredictionsResponse is the raw feed response: primary prediction
// records in Data plus cross-referenced records in Included.
type PredictionsResponse struct {
	Data     []PredictionResource `json:"data"`
	Included []IncludedResource   `json:"included"`
}

// PredictionResource is one prediction record as delivered upstream.
type PredictionResource struct {
	ID            string                  `json:"id"`
	Attributes    PredictionAttributes    `json:"attributes"`
	Relationships PredictionRelationships `json:"relationships"`
}

type PredictionAttributes struct {
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
	DirectionID   int     `json:"direction_id"`
	Status        *string `json:"status"`
	StopSequence  *int    `json:"stop_sequence"`
}

type PredictionRelationships struct {
	Vehicle *Relationship `json:"vehicle"`
	Trip    *Relationship `json:"trip"`
	Stop    *Relationship `json:"stop"`
}

// Relationship wraps a JSON:API resource linkage. Data is nil when the
// relationship is present but empty.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// RelatedID returns the linked resource id, or nil when the relationship
// or its linkage is absent.
func (r *Relationship) RelatedID() *string {
	if r == nil || r.Data == nil || r.Data.ID == "" {
		return nil
	}
	id := r.Data.ID
	return &id
}

// IncludedResource is one entry of the response's side list. Attributes
// stay raw until the record kind is known.
type IncludedResource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// VehicleAttributes carries the live position fields of a vehicle record.
type VehicleAttributes struct {
	CurrentStopSequence *int    `json:"current_stop_sequence"`
	CurrentStatus       *string `json:"current_status"`
}

// TripAttributes carries the rider-facing destination of a trip record.
type TripAttributes struct {
	Headsign *string `json:"headsign"`
}

// StopAttributes carries the display name of a stop record.
type StopAttributes struct {
	Name *string `json:"name"`
}
