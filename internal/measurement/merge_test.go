package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan-io/medscan/constants"
)

func rec(name string, value float64, status constants.MeasurementStatus, r Range) Record {
	return Record{Name: name, Value: value, Unit: "u", OptimalRange: r, Status: status}
}

func TestMergeSeverityWins(t *testing.T) {
	optimal := rec("CRP", 3.0, constants.StatusOptimal, Range{Min: 0, Max: 5})
	concerning := rec("CRP", 40.0, constants.StatusConcerning, Range{Min: 0, Max: 5})

	// The Concerning record wins regardless of document order.
	for name, lists := range map[string][][]Record{
		"concerning first": {{concerning}, {optimal}},
		"concerning last":  {{optimal}, {concerning}},
	} {
		t.Run(name, func(t *testing.T) {
			merged := Merge(lists)
			require.Len(t, merged, 1)
			assert.Equal(t, constants.StatusConcerning, merged[0].Status)
			assert.InDelta(t, 40.0, merged[0].Value, 1e-9)
		})
	}
}

func TestMergeTieBreakByMidpointDistance(t *testing.T) {
	r := Range{Min: 0, Max: 10} // midpoint 5
	near := rec("TSH", 6.0, constants.StatusOptimal, r)
	far := rec("TSH", 9.0, constants.StatusOptimal, r)

	merged := Merge([][]Record{{near}, {far}})
	require.Len(t, merged, 1)
	assert.InDelta(t, 9.0, merged[0].Value, 1e-9)

	merged = Merge([][]Record{{far}, {near}})
	require.Len(t, merged, 1)
	assert.InDelta(t, 9.0, merged[0].Value, 1e-9)
}

func TestMergeEqualDistanceKeepsFirst(t *testing.T) {
	r := Range{Min: 0, Max: 10}
	a := rec("Glucose", 3.0, constants.StatusOptimal, r) // distance 2
	b := rec("Glucose", 7.0, constants.StatusOptimal, r) // distance 2

	merged := Merge([][]Record{{a}, {b}})
	require.Len(t, merged, 1)
	assert.InDelta(t, 3.0, merged[0].Value, 1e-9)
}

func TestMergePreservesInsertionOrder(t *testing.T) {
	r := Range{Min: 0, Max: 10}
	merged := Merge([][]Record{
		{rec("CRP", 1, constants.StatusOptimal, r), rec("TSH", 2, constants.StatusOptimal, r)},
		{rec("Glucose", 3, constants.StatusOptimal, r), rec("CRP", 9, constants.StatusConcerning, r)},
	})
	require.Len(t, merged, 3)
	assert.Equal(t, "CRP", merged[0].Name)
	assert.Equal(t, "TSH", merged[1].Name)
	assert.Equal(t, "Glucose", merged[2].Name)
	// The replacement stays in CRP's original slot.
	assert.Equal(t, constants.StatusConcerning, merged[0].Status)
}

func TestMergeNameMatchIsExact(t *testing.T) {
	r := Range{Min: 0, Max: 10}
	merged := Merge([][]Record{
		{rec("Vitamin D", 5, constants.StatusOptimal, r)},
		{rec("vitamin d", 5, constants.StatusOptimal, r)},
	})
	assert.Len(t, merged, 2)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
	assert.Empty(t, Merge([][]Record{{}, {}}))
	assert.NotNil(t, Merge(nil))
}
