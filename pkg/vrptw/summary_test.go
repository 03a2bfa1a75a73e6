package vrptw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary(t *testing.T) {
	prob, err := NewProblem(testLocations(), testParams())
	require.NoError(t, err)

	dist1, dur1, ok := prob.evalRoute([]int{1, 5})
	require.True(t, ok)
	dist2, dur2, ok := prob.evalRoute([]int{2, 4, 6})
	require.True(t, ok)

	sol := &Solution{
		Routes: []Route{
			{Visits: []int{1, 5}, Distance: dist1, Duration: dur1},
			{Visits: []int{2, 4, 6}, Distance: dist2, Duration: dur2},
		},
		Unassigned: []int{3},
		Cost:       dist1 + dist2,
		Feasible:   false,
	}

	summary := NewSummary(prob, sol)

	assert.False(t, summary.Feasible)
	assert.Equal(t, 2, summary.NumRoutes)
	assert.Equal(t, 5, summary.CustomersServed())
	assert.Equal(t, []int{3}, summary.Unassigned)
	assert.InDelta(t, dist1+dist2, summary.TotalDistance, 0.01)
	assert.Equal(t, dur1+dur2, summary.TotalDuration)

	// routes are wrapped depot -> stops -> depot by name
	assert.Equal(t, []string{"Depot", "A", "E", "Depot"}, summary.Routes[0].Locations)
	assert.Equal(t, []string{"Depot", "B", "D", "F", "Depot"}, summary.Routes[1].Locations)

	// summary must serialize with the documented field names
	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	for _, key := range []string{"feasible", "cost", "routes", "num_routes",
		"total_distance", "total_duration", "locations", "unassigned"} {
		assert.Contains(t, string(raw), `"`+key+`"`)
	}
}
