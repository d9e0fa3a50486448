// Package pipeline transforms a raw MBTA predictions response into the
// ranked, walk-adjusted candidate list served to riders.
package pipeline

import (
	"encoding/json"

	"github.com/awaikar-syr/departby/internal/mbta"
)

// RelatedRecords indexes the feed's included side list by id for the three
// record kinds predictions reference. It is built fresh for each poll,
// owned by that normalization pass, and discarded with it; nothing retains
// it once normalization completes.
type RelatedRecords struct {
	vehicles map[string]mbta.VehicleAttributes
	trips    map[string]mbta.TripAttributes
	stops    map[string]mbta.StopAttributes
}

// BuildRelatedRecords decodes the included list into typed lookup tables.
// Records that fail to decode are skipped; a missing record later reads as
// "field unknown", never as an error.
func BuildRelatedRecords(included []mbta.IncludedResource) *RelatedRecords {
	r := &RelatedRecords{
		vehicles: make(map[string]mbta.VehicleAttributes),
		trips:    make(map[string]mbta.TripAttributes),
		stops:    make(map[string]mbta.StopAttributes),
	}
	for _, item := range included {
		switch item.Type {
		case "vehicle":
			var attrs mbta.VehicleAttributes
			if err := json.Unmarshal(item.Attributes, &attrs); err == nil {
				r.vehicles[item.ID] = attrs
			}
		case "trip":
			var attrs mbta.TripAttributes
			if err := json.Unmarshal(item.Attributes, &attrs); err == nil {
				r.trips[item.ID] = attrs
			}
		case "stop":
			var attrs mbta.StopAttributes
			if err := json.Unmarshal(item.Attributes, &attrs); err == nil {
				r.stops[item.ID] = attrs
			}
		}
	}
	return r
}

// Vehicle looks up a vehicle record by id.
func (r *RelatedRecords) Vehicle(id string) (mbta.VehicleAttributes, bool) {
	v, ok := r.vehicles[id]
	return v, ok
}

// Trip looks up a trip record by id.
func (r *RelatedRecords) Trip(id string) (mbta.TripAttributes, bool) {
	t, ok := r.trips[id]
	return t, ok
}

// Stop looks up a stop record by id.
func (r *RelatedRecords) Stop(id string) (mbta.StopAttributes, bool) {
	s, ok := r.stops[id]
	return s, ok
}
