package pipeline

import (
	"math"
	"time"

	"github.com/awaikar-syr/departby/internal/models"
)

// Finalize computes the walk-adjusted deadline for a normalized candidate
// and emits the client-facing record. departBy is plain instant
// arithmetic (target minus walk minutes, no calendar rounding);
// minutesUntilDeparture is the whole-minute difference floored toward
// negative infinity, so a deadline 90 seconds gone reads as -2, not -1.
func Finalize(n Normalized, walkTimeMinutes int, now time.Time) models.Prediction {
	target := n.TargetTime()
	departBy := target.Add(-time.Duration(walkTimeMinutes) * time.Minute)
	minutes := int(math.Floor(departBy.Sub(now).Minutes()))

	departByStr := departBy.Format(time.RFC3339)
	return models.Prediction{
		ID:                    n.ID,
		ArrivalTime:           formatFeedTime(n.ArrivalTime),
		DepartureTime:         formatFeedTime(n.DepartureTime),
		DirectionID:           n.DirectionID,
		Status:                n.Status,
		VehicleID:             n.VehicleID,
		StopSequence:          n.VehicleStopSequence,
		VehicleStatus:         n.VehicleStatus,
		Branch:                n.Branch,
		DepartByTime:          &departByStr,
		MinutesUntilDeparture: &minutes,
	}
}

func formatFeedTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
