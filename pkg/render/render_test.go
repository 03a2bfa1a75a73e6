package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() *vrptw.Summary {
	return &vrptw.Summary{
		Feasible: true,
		Cost:     5.5,
		Routes: []vrptw.RouteSummary{
			{
				Visits:    []int{1, 2},
				Locations: []string{"Depot", "A", "B", "Depot"},
				Distance:  5.5,
				Duration:  72,
			},
		},
		NumRoutes:     1,
		TotalDistance: 5.5,
		TotalDuration: 72,
		Locations: []loader.Location{
			{Name: "Depot", Address: "depot st", Lat: 43.15, Lon: -77.60},
			{Name: "A", Address: "a st", Lat: 43.16, Lon: -77.61, Demand: 1},
			{Name: "B", Address: "b st", Lat: 43.17, Lon: -77.59, Demand: 1},
		},
	}
}

func TestNewSolutionGeoJSON(t *testing.T) {
	fc := NewSolutionGeoJSON(testSummary())

	assert.Equal(t, "FeatureCollection", fc.Type)
	// depot point + 2 customer points + 1 route line
	require.Len(t, fc.Features, 4)

	depot := fc.Features[0]
	assert.Equal(t, "Point", depot.Geometry.Type)
	assert.Equal(t, "depot", depot.Properties["kind"])
	// GeoJSON position order is lon, lat
	assert.Equal(t, []float64{-77.60, 43.15}, depot.Geometry.Coordinates)

	line := fc.Features[len(fc.Features)-1]
	assert.Equal(t, "LineString", line.Geometry.Type)
	assert.Equal(t, "route", line.Properties["kind"])
	coords, ok := line.Geometry.Coordinates.([][]float64)
	require.True(t, ok)
	// depot, A, B, depot
	require.Len(t, coords, 4)
	assert.Equal(t, coords[0], coords[len(coords)-1])
	assert.NotEmpty(t, line.Properties["polyline"])

	_, err := json.Marshal(fc)
	require.NoError(t, err)
}

func TestEncodeRoutePolyline(t *testing.T) {
	summary := testSummary()
	encoded := EncodeRoutePolyline(summary, summary.Routes[0])
	assert.NotEmpty(t, encoded)

	// same path encodes to the same string
	again := EncodeRoutePolyline(summary, summary.Routes[0])
	assert.Equal(t, encoded, again)
}

func TestWriteMapHTML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMapHTML(&buf, testSummary())
	require.NoError(t, err)

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "leaflet")
	assert.Contains(t, html, "DEPOT")
	// location payload embedded for the client script
	assert.Contains(t, html, "43.16")
	assert.Contains(t, html, `"num_routes":1`)
}

func TestRouteColorCycles(t *testing.T) {
	assert.Equal(t, RouteColor(0), RouteColor(len(routeColors)))
	assert.NotEqual(t, RouteColor(0), RouteColor(1))
}
