package pipeline

import (
	"time"

	"github.com/awaikar-syr/departby/internal/mbta"
	"github.com/awaikar-syr/departby/internal/models"
)

// Run executes the full transformation over one feed response: build the
// related-records table, normalize each prediction (dropping records with
// no usable time), compute walk-adjusted deadlines against now, then
// filter, sort, and cap. Pure function of its inputs: the same response
// and the same now yield the same output.
func Run(feed *mbta.PredictionsResponse, walkTimeMinutes int, now time.Time) []models.Prediction {
	related := BuildRelatedRecords(feed.Included)

	candidates := make([]models.Prediction, 0, len(feed.Data))
	for _, rec := range feed.Data {
		n, ok := Normalize(rec, related)
		if !ok {
			continue
		}
		candidates = append(candidates, Finalize(n, walkTimeMinutes, now))
	}

	return FilterSortCap(candidates)
}
