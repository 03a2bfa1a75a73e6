package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// Rochester, NY city center to the airport, roughly 4.4 miles great circle
	dist := CalculateHaversineDistance(43.1566, -77.6088, 43.1189, -77.6724)
	assert.InDelta(t, 4.2, dist, 0.5)

	// identical points
	assert.Equal(t, 0.0, CalculateHaversineDistance(43.1566, -77.6088, 43.1566, -77.6088))

	// symmetric
	a := CalculateHaversineDistance(40.7128, -74.0060, 34.0522, -118.2437)
	b := CalculateHaversineDistance(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, a, b, 1e-9)

	// NYC to LA is about 2440 miles
	assert.InDelta(t, 2440, a, 20)
}

func TestMilesToMinutes(t *testing.T) {
	assert.Equal(t, 60, MilesToMinutes(30, 30))
	assert.Equal(t, 10, MilesToMinutes(5, 30))
	// truncates, never rounds up
	assert.Equal(t, 1, MilesToMinutes(0.9, 30))
	assert.Equal(t, 0, MilesToMinutes(10, 0))
}

func TestMapCenter(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(43.0, -77.0),
		NewCoordinate(44.0, -78.0),
	}
	center := MapCenter(coords)
	assert.InDelta(t, 43.5, center.Lat, 1e-6)
	assert.InDelta(t, -77.5, center.Lon, 1e-6)

	assert.Equal(t, Coordinate{}, MapCenter(nil))
}
