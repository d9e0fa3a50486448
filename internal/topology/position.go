package topology

import "github.com/awaikar-syr/departby/internal/models"

const (
	// windowRadius keeps the rider's station centered: this many stops
	// are shown on each side.
	windowRadius = 5
	// passedStopThresholdMinutes gates passed-stop marking. Stops behind
	// the vehicle are only dimmed once departure is imminent; further out
	// the true position is shown without history. Display heuristic from
	// the product, kept literally.
	passedStopThresholdMinutes = 3.5
)

// PositionParams are the inputs for projecting one vehicle onto the
// rider's topology window. Nil fields mean the upstream did not report
// that attribute; they degrade the view, never fail it.
type PositionParams struct {
	Branch                *string
	StationID             string
	DirectionID           int
	VehicleStopSequence   *int
	VehicleStatus         *string
	MinutesUntilDeparture *int
}

// View is the windowed, rider-centered route projection. All indices are
// positions within Stops (display order), which reads in the rider's
// direction of travel.
type View struct {
	Branch      string `json:"branch"`
	DirectionID int    `json:"directionId"`
	Stops       []Stop `json:"stops"`
	// StationIndex is the rider's station within Stops. May fall outside
	// [0, len) when the station does not belong to this branch topology;
	// that degenerate view is the caller's responsibility to avoid.
	StationIndex int `json:"stationIndex"`
	// VehicleIndex is the vehicle within Stops, -1 when the vehicle is
	// off-window or unreported. Off-window is valid and expected for
	// distant trains.
	VehicleIndex int  `json:"vehicleIndex"`
	InTransit    bool `json:"inTransit"`
	// TransitFrom and TransitTo bound the gap the vehicle currently sits
	// in, valid only when InTransit is true; -1 otherwise.
	TransitFrom int `json:"transitFrom"`
	TransitTo   int `json:"transitTo"`
	// FractionalIndex is the vehicle's position in the full branch
	// topology, offset by 0.5 in the travel direction when in transit;
	// -1 when the vehicle's stop sequence is unknown.
	FractionalIndex float64 `json:"fractionalIndex"`
	// Passed marks stops between the vehicle and the rider's station.
	Passed []bool `json:"passed"`
}

// MapPosition projects a vehicle's reported stop-sequence and status onto
// the rider-centered display window for the given branch and direction.
func MapPosition(p PositionParams) View {
	full := ForBranch(p.Branch)
	stationIdx := indexByID(full, p.StationID)

	vehicleIdx := -1
	if p.VehicleStopSequence != nil {
		vehicleIdx = indexBySequence(full, *p.VehicleStopSequence)
	}

	inTransit := p.VehicleStatus != nil && *p.VehicleStatus == models.VehicleInTransitTo

	fractional := float64(vehicleIdx)
	if inTransit && vehicleIdx >= 0 {
		if p.DirectionID == 0 {
			fractional = float64(vehicleIdx) + 0.5
		} else {
			fractional = float64(vehicleIdx) - 0.5
		}
	}

	// Bounded window around the rider's station, clamped to the topology.
	start := stationIdx - windowRadius
	if start < 0 {
		start = 0
	}
	end := stationIdx + windowRadius + 1
	if end > len(full) {
		end = len(full)
	}
	if end < start {
		end = start
	}
	window := full[start:end]

	// Northbound reads toward Alewife, so the window is reversed.
	display := make([]Stop, len(window))
	copy(display, window)
	if p.DirectionID == 1 {
		for i, j := 0, len(display)-1; i < j; i, j = i+1, j-1 {
			display[i], display[j] = display[j], display[i]
		}
	}

	// Re-resolve the rider's station within the window.
	windowStationIdx := indexByID(window, p.StationID)
	displayStationIdx := windowStationIdx
	if p.DirectionID == 1 {
		displayStationIdx = len(window) - 1 - windowStationIdx
	}

	// Re-resolve the vehicle within the display window; a stop outside
	// the window yields "vehicle not shown".
	displayVehicleIdx := -1
	if vehicleIdx >= 0 && p.VehicleStopSequence != nil {
		displayVehicleIdx = indexBySequence(display, *p.VehicleStopSequence)
	}

	transitBetween := inTransit && displayVehicleIdx >= 0
	transitFrom, transitTo := -1, -1
	if transitBetween {
		transitFrom = displayVehicleIdx
		if p.DirectionID == 0 {
			transitTo = displayVehicleIdx + 1
		} else {
			transitTo = displayVehicleIdx - 1
		}
	}

	branchName := "Braintree"
	if p.Branch != nil {
		branchName = *p.Branch
	}

	return View{
		Branch:          branchName,
		DirectionID:     p.DirectionID,
		Stops:           display,
		StationIndex:    displayStationIdx,
		VehicleIndex:    displayVehicleIdx,
		InTransit:       transitBetween,
		TransitFrom:     transitFrom,
		TransitTo:       transitTo,
		FractionalIndex: fractional,
		Passed:          markPassed(len(display), displayVehicleIdx, displayStationIdx, p.DirectionID, p.MinutesUntilDeparture),
	}
}

// markPassed flags stops strictly between the vehicle and the rider's
// station, direction aware, and only once the train departs in under the
// passed-stop threshold. Outside that window no stop is marked regardless
// of true vehicle position.
func markPassed(n, vehicleIdx, stationIdx, directionID int, minutesUntil *int) []bool {
	passed := make([]bool, n)
	if minutesUntil == nil || float64(*minutesUntil) >= passedStopThresholdMinutes {
		return passed
	}
	if vehicleIdx < 0 {
		return passed
	}
	for i := range passed {
		if directionID == 0 {
			passed[i] = i > vehicleIdx && i < stationIdx
		} else {
			passed[i] = i < vehicleIdx && i > stationIdx
		}
	}
	return passed
}
