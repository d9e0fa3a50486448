package pipeline

import "strings"

// Branch identifiers resolved from trip headsigns.
const (
	BranchAshmont   = "Ashmont"
	BranchBraintree = "Braintree"
	BranchAlewife   = "Alewife"
)

// ResolveBranch derives a branch from a trip's rider-facing headsign by
// case-sensitive substring match, checked in Ashmont, Braintree, Alewife
// order; first match wins. This is a deliberately crude heuristic: a
// headsign containing one destination's name inside another's would
// misclassify. Kept as-is for behavioral compatibility.
func ResolveBranch(headsign *string) *string {
	if headsign == nil {
		return nil
	}
	for _, branch := range []string{BranchAshmont, BranchBraintree, BranchAlewife} {
		if strings.Contains(*headsign, branch) {
			b := branch
			return &b
		}
	}
	return nil
}
