package geo

import (
	"github.com/golang/geo/s2"
)

// BoundingRect returns the smallest lat/lng rectangle containing every coordinate.
func BoundingRect(coords []Coordinate) s2.Rect {
	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	return rect
}

// MapCenter returns the center of the bounding rectangle of coords,
// used as the initial viewport center of the solution map.
func MapCenter(coords []Coordinate) Coordinate {
	if len(coords) == 0 {
		return Coordinate{}
	}
	center := BoundingRect(coords).Center()
	return NewCoordinate(center.Lat.Degrees(), center.Lng.Degrees())
}
