package render

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/geo"
	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

type mapRoute struct {
	Color    string      `json:"color"`
	Coords   [][]float64 `json:"coords"` // [lat, lon]
	Stops    []mapStop   `json:"stops"`
	Distance float64     `json:"distance"`
	Duration int         `json:"duration"`
}

type mapStop struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Stop    int     `json:"stop"`
}

type mapModel struct {
	Center        geo.Coordinate  `json:"center"`
	Depot         loader.Location `json:"depot"`
	Routes        []mapRoute      `json:"routes"`
	NumRoutes     int             `json:"num_routes"`
	TotalDistance float64         `json:"total_distance"`
	TotalDuration int             `json:"total_duration"`
	Customers     int             `json:"customers"`
}

// WriteMapHTML writes a self-contained Leaflet page showing the depot,
// the customer stops and every route as a colored polyline with a
// summary legend.
func WriteMapHTML(w io.Writer, summary *vrptw.Summary) error {
	model := mapModel{
		Center:        geo.MapCenter(loader.Coordinates(summary.Locations)),
		Depot:         summary.Locations[pkg.DepotIndex],
		NumRoutes:     summary.NumRoutes,
		TotalDistance: summary.TotalDistance,
		TotalDuration: summary.TotalDuration,
		Customers:     summary.CustomersServed(),
	}

	depot := summary.Locations[pkg.DepotIndex]
	for routeIdx, route := range summary.Routes {
		mr := mapRoute{
			Color:    RouteColor(routeIdx),
			Distance: route.Distance,
			Duration: route.Duration,
		}
		mr.Coords = append(mr.Coords, []float64{depot.Lat, depot.Lon})
		for stopIdx, v := range route.Visits {
			loc := summary.Locations[v]
			mr.Coords = append(mr.Coords, []float64{loc.Lat, loc.Lon})
			mr.Stops = append(mr.Stops, mapStop{
				Lat:     loc.Lat,
				Lon:     loc.Lon,
				Name:    loc.Name,
				Address: loc.Address,
				Stop:    stopIdx + 1,
			})
		}
		mr.Coords = append(mr.Coords, []float64{depot.Lat, depot.Lon})
		model.Routes = append(model.Routes, mr)
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return err
	}

	return mapTemplate.Execute(w, map[string]interface{}{
		"Data": template.JS(raw),
	})
}

var mapTemplate = template.Must(template.New("solution_map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>Route Solution</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .legend {
    position: absolute; bottom: 30px; right: 10px; z-index: 1000;
    background: white; padding: 10px 14px; border: 2px solid grey;
    border-radius: 5px; font: 13px/1.5 sans-serif; max-height: 60%;
    overflow-y: auto;
  }
  .legend h4 { margin: 0 0 6px; border-bottom: 2px solid #333; }
  .legend .dot { font-size: 16px; }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend" id="legend"></div>
<script>
const data = {{.Data}};

const map = L.map('map').setView([data.center.lat, data.center.lon], 11);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

L.marker([data.depot.latitude, data.depot.longitude])
  .bindPopup('<b>DEPOT</b><br>' + data.depot.name + '<br>' + data.depot.address)
  .bindTooltip('Depot (Start/End)')
  .addTo(map);

(data.routes || []).forEach(function (route, i) {
  L.polyline(route.coords, { color: route.color, weight: 3, opacity: 0.8 })
    .bindPopup('<b>Route ' + (i + 1) + '</b><br>' +
      'Stops: ' + route.stops.length + '<br>' +
      'Distance: ' + route.distance.toFixed(1) + ' mi<br>' +
      'Duration: ' + route.duration + ' min')
    .addTo(map);

  route.stops.forEach(function (stop) {
    L.circleMarker([stop.lat, stop.lon], {
      radius: 6, color: route.color, fillColor: route.color, fillOpacity: 0.7
    })
      .bindPopup('<b>Route ' + (i + 1) + ', Stop ' + stop.stop + '</b><br>' +
        stop.name + '<br>' + stop.address)
      .bindTooltip('R' + (i + 1) + '-' + stop.stop + ': ' + stop.name)
      .addTo(map);
  });
});

const legend = document.getElementById('legend');
let html = '<h4>Solution</h4>' +
  '<b>Routes:</b> ' + data.num_routes + '<br>' +
  '<b>Total Distance:</b> ' + data.total_distance.toFixed(1) + ' mi<br>' +
  '<b>Total Duration:</b> ' + data.total_duration + ' min<br>' +
  '<b>Customers:</b> ' + data.customers + '<hr>';
(data.routes || []).forEach(function (route, i) {
  html += '<span class="dot" style="color:' + route.color + '">&#9679;</span> ' +
    '<b>Route ' + (i + 1) + ':</b> ' + route.stops.length + ' stops, ' +
    route.distance.toFixed(1) + ' mi<br>';
});
legend.innerHTML = html;
</script>
</body>
</html>
`))
