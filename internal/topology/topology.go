// Package topology models the Red Line as a linear route with a shared
// trunk and two southern branch tails, and projects live vehicle
// positions onto a rider-centered window of it.
package topology

// Stop is one station on a branch topology. Sequence is the branch-local
// stop-sequence ordinal used by the upstream feed; sequences are sparse
// integers, not array positions.
type Stop struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Sequence  int    `json:"sequence"`
}

// Trunk shared by both branches, Alewife through JFK/UMass.
var redLineTrunk = []Stop{
	{ID: "place-alfcl", Name: "Alewife", ShortName: "Alewife", Sequence: 10},
	{ID: "place-davis", Name: "Davis", ShortName: "Davis", Sequence: 20},
	{ID: "place-portr", Name: "Porter", ShortName: "Porter", Sequence: 30},
	{ID: "place-hrsq", Name: "Harvard", ShortName: "Harvard", Sequence: 40},
	{ID: "place-cntsq", Name: "Central", ShortName: "Central", Sequence: 50},
	{ID: "place-knncl", Name: "Kendall/MIT", ShortName: "Kendall", Sequence: 60},
	{ID: "place-chmnl", Name: "Charles/MGH", ShortName: "Charles", Sequence: 70},
	{ID: "place-pktrm", Name: "Park Street", ShortName: "Park", Sequence: 80},
	{ID: "place-dwnxg", Name: "Downtown Crossing", ShortName: "Downtown", Sequence: 90},
	{ID: "place-sstat", Name: "South Station", ShortName: "South Sta", Sequence: 100},
	{ID: "place-brdwy", Name: "Broadway", ShortName: "Broadway", Sequence: 110},
	{ID: "place-andrw", Name: "Andrew", ShortName: "Andrew", Sequence: 120},
	{ID: "place-jfk", Name: "JFK/UMass", ShortName: "JFK/UMass", Sequence: 130},
}

// Ashmont tail, after JFK/UMass.
var ashmontBranch = []Stop{
	{ID: "place-shmnl", Name: "Savin Hill", ShortName: "Savin Hill", Sequence: 140},
	{ID: "place-fldcr", Name: "Fields Corner", ShortName: "Fields Cnr", Sequence: 150},
	{ID: "place-smmnl", Name: "Shawmut", ShortName: "Shawmut", Sequence: 160},
	{ID: "place-asmnl", Name: "Ashmont", ShortName: "Ashmont", Sequence: 170},
}

// Braintree tail, after JFK/UMass.
var braintreeBranch = []Stop{
	{ID: "place-nqncy", Name: "North Quincy", ShortName: "N Quincy", Sequence: 140},
	{ID: "place-wlsta", Name: "Wollaston", ShortName: "Wollaston", Sequence: 150},
	{ID: "place-qnctr", Name: "Quincy Center", ShortName: "Q Center", Sequence: 160},
	{ID: "place-qamnl", Name: "Quincy Adams", ShortName: "Q Adams", Sequence: 170},
	{ID: "place-brntn", Name: "Braintree", ShortName: "Braintree", Sequence: 180},
}

// ForBranch returns the ordered topology for a branch: the shared trunk
// concatenated with the branch tail. Unspecified or unrecognized branches
// (including Alewife, which names the northern terminus rather than a
// fork) default to the Braintree tail. The returned slice is a fresh copy.
func ForBranch(branch *string) []Stop {
	tail := braintreeBranch
	if branch != nil && *branch == "Ashmont" {
		tail = ashmontBranch
	}
	stops := make([]Stop, 0, len(redLineTrunk)+len(tail))
	stops = append(stops, redLineTrunk...)
	stops = append(stops, tail...)
	return stops
}

// indexByID locates a stop by id, -1 when absent.
func indexByID(stops []Stop, id string) int {
	for i, s := range stops {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// indexBySequence locates a stop by its feed stop-sequence value, -1 when
// absent. Matching is by Sequence, never by array position.
func indexBySequence(stops []Stop, sequence int) int {
	for i, s := range stops {
		if s.Sequence == sequence {
			return i
		}
	}
	return -1
}
