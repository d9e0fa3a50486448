package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestForBranch(t *testing.T) {
	tests := []struct {
		name         string
		branch       *string
		expectedLen  int
		expectedLast string
	}{
		{"ashmont", strPtr("Ashmont"), 17, "place-asmnl"},
		{"braintree", strPtr("Braintree"), 18, "place-brntn"},
		{"alewife defaults to braintree tail", strPtr("Alewife"), 18, "place-brntn"},
		{"nil defaults to braintree tail", nil, 18, "place-brntn"},
		{"unknown defaults to braintree tail", strPtr("Mattapan"), 18, "place-brntn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops := ForBranch(tt.branch)
			require.Len(t, stops, tt.expectedLen)
			assert.Equal(t, "place-alfcl", stops[0].ID)
			assert.Equal(t, tt.expectedLast, stops[len(stops)-1].ID)
		})
	}
}

func TestForBranchSharedTrunk(t *testing.T) {
	ashmont := ForBranch(strPtr("Ashmont"))
	braintree := ForBranch(strPtr("Braintree"))
	assert.Equal(t, ashmont[:13], braintree[:13])
	assert.Equal(t, 130, ashmont[12].Sequence)
	assert.Equal(t, "place-jfk", ashmont[12].ID)
}

func TestForBranchReturnsCopy(t *testing.T) {
	first := ForBranch(nil)
	first[0].Name = "mutated"
	second := ForBranch(nil)
	assert.Equal(t, "Alewife", second[0].Name)
}

func TestIndexLookups(t *testing.T) {
	stops := ForBranch(nil)

	assert.Equal(t, 12, indexByID(stops, "place-jfk"))
	assert.Equal(t, -1, indexByID(stops, "place-nowhere"))

	assert.Equal(t, 9, indexBySequence(stops, 100))
	assert.Equal(t, -1, indexBySequence(stops, 95))
}

func TestBranchSequencesSparseNotPositional(t *testing.T) {
	stops := ForBranch(strPtr("Ashmont"))
	// Sequence 140 is Savin Hill at array position 13.
	idx := indexBySequence(stops, 140)
	require.Equal(t, 13, idx)
	assert.Equal(t, "place-shmnl", stops[idx].ID)
}
