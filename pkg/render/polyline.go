package render

import (
	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"github.com/twpayne/go-polyline"
)

// EncodeRoutePolyline encodes the depot -> stops -> depot path of one route
// as a Google encoded polyline.
func EncodeRoutePolyline(summary *vrptw.Summary, route vrptw.RouteSummary) string {
	depot := summary.Locations[pkg.DepotIndex]

	coords := make([][]float64, 0, len(route.Visits)+2)
	coords = append(coords, []float64{depot.Lat, depot.Lon})
	for _, v := range route.Visits {
		loc := summary.Locations[v]
		coords = append(coords, []float64{loc.Lat, loc.Lon})
	}
	coords = append(coords, []float64{depot.Lat, depot.Lon})

	return string(polyline.EncodeCoords(coords))
}
