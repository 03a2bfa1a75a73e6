package render

import (
	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// route color palette, reused round-robin when routes outnumber it
var routeColors = []string{
	"red", "blue", "green", "purple", "orange", "darkred",
	"cadetblue", "darkblue", "darkgreen", "darkpurple", "pink",
	"lightblue", "lightgreen", "gray", "black",
}

func RouteColor(routeIdx int) string {
	return routeColors[routeIdx%len(routeColors)]
}

func newPoint(lon, lat float64, props map[string]interface{}) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{lon, lat},
		},
		Properties: props,
	}
}

// NewSolutionGeoJSON renders a solved instance as a FeatureCollection:
// one Point per location (depot flagged), one LineString per route.
// GeoJSON positions are [lon, lat].
func NewSolutionGeoJSON(summary *vrptw.Summary) *FeatureCollection {
	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(summary.Locations)+len(summary.Routes)),
	}

	depot := summary.Locations[pkg.DepotIndex]
	fc.Features = append(fc.Features, newPoint(depot.Lon, depot.Lat, map[string]interface{}{
		"kind":    "depot",
		"name":    depot.Name,
		"address": depot.Address,
	}))

	for routeIdx, route := range summary.Routes {
		coords := make([][]float64, 0, len(route.Visits)+2)
		coords = append(coords, []float64{depot.Lon, depot.Lat})

		for stopIdx, v := range route.Visits {
			loc := summary.Locations[v]
			coords = append(coords, []float64{loc.Lon, loc.Lat})
			fc.Features = append(fc.Features, newPoint(loc.Lon, loc.Lat, map[string]interface{}{
				"kind":    "customer",
				"name":    loc.Name,
				"address": loc.Address,
				"route":   routeIdx + 1,
				"stop":    stopIdx + 1,
				"color":   RouteColor(routeIdx),
			}))
		}
		coords = append(coords, []float64{depot.Lon, depot.Lat})

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: map[string]interface{}{
				"kind":     "route",
				"route":    routeIdx + 1,
				"distance": route.Distance,
				"duration": route.Duration,
				"color":    RouteColor(routeIdx),
				"polyline": EncodeRoutePolyline(summary, route),
			},
		})
	}

	return fc
}
