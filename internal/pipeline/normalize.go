package pipeline

import (
	"time"

	"github.com/awaikar-syr/departby/internal/mbta"
)

// Normalized is one train candidate with its vehicle and trip attributes
// resolved inline. After normalization it carries no reference back to the
// feed response or the related-records table.
type Normalized struct {
	ID                  string
	ArrivalTime         *time.Time
	DepartureTime       *time.Time
	DirectionID         int
	Status              *string
	VehicleID           *string
	VehicleStopSequence *int
	VehicleStatus       *string
	Branch              *string
	StopSequence        *int
}

// TargetTime is the instant used for deadline arithmetic: departure time
// when present, arrival time otherwise. Nil only for records the caller
// should have dropped.
func (n *Normalized) TargetTime() *time.Time {
	if n.DepartureTime != nil {
		return n.DepartureTime
	}
	return n.ArrivalTime
}

// Normalize resolves one raw prediction against the related-records table.
// It returns false when the record has neither an arrival nor a departure
// time; such records are dropped, not treated as errors. Reference misses
// degrade the affected fields to nil.
func Normalize(rec mbta.PredictionResource, related *RelatedRecords) (Normalized, bool) {
	arrival := parseFeedTime(rec.Attributes.ArrivalTime)
	departure := parseFeedTime(rec.Attributes.DepartureTime)
	if arrival == nil && departure == nil {
		return Normalized{}, false
	}

	n := Normalized{
		ID:            rec.ID,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		DirectionID:   rec.Attributes.DirectionID,
		Status:        rec.Attributes.Status,
		StopSequence:  rec.Attributes.StopSequence,
	}

	if vehicleID := rec.Relationships.Vehicle.RelatedID(); vehicleID != nil {
		n.VehicleID = vehicleID
		if vehicle, ok := related.Vehicle(*vehicleID); ok {
			n.VehicleStopSequence = vehicle.CurrentStopSequence
			n.VehicleStatus = vehicle.CurrentStatus
		}
	}

	if tripID := rec.Relationships.Trip.RelatedID(); tripID != nil {
		if trip, ok := related.Trip(*tripID); ok {
			n.Branch = ResolveBranch(trip.Headsign)
		}
	}

	return n, true
}

// parseFeedTime parses an ISO-8601 feed timestamp, mapping absent or
// malformed values to nil.
func parseFeedTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
