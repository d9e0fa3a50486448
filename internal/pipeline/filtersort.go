package pipeline

import (
	"sort"

	"github.com/awaikar-syr/departby/internal/models"
)

const (
	// graceCutoffMinutes excludes trains missed by more than one minute.
	graceCutoffMinutes = -1
	// maxResults bounds the ranked list.
	maxResults = 5
	// heroCutoffMinutes gates which already-ranked candidate is promoted
	// to primary. Looser than graceCutoffMinutes on purpose: it selects
	// among rendered candidates, it does not exclude them.
	heroCutoffMinutes = -5
)

// FilterSortCap drops candidates missed beyond the grace window, stable
// sorts ascending by minutes until departure, and truncates to the result
// cap. Stability preserves the upstream's departure-time order for ties.
func FilterSortCap(preds []models.Prediction) []models.Prediction {
	kept := make([]models.Prediction, 0, len(preds))
	for _, p := range preds {
		if p.MinutesUntilDeparture == nil {
			continue
		}
		if *p.MinutesUntilDeparture < graceCutoffMinutes {
			continue
		}
		kept = append(kept, p)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return *kept[i].MinutesUntilDeparture < *kept[j].MinutesUntilDeparture
	})

	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}

// SelectHero picks the next actionable prediction: the first whose minutes
// until departure exceeds the hero cutoff, falling back to the first entry
// when every candidate is past it. ok is false only for an empty list.
func SelectHero(preds []models.Prediction) (hero models.Prediction, ok bool) {
	if len(preds) == 0 {
		return models.Prediction{}, false
	}
	for _, p := range preds {
		minutes := graceCutoffMinutes
		if p.MinutesUntilDeparture != nil {
			minutes = *p.MinutesUntilDeparture
		}
		if minutes > heroCutoffMinutes {
			return p, true
		}
	}
	return preds[0], true
}
