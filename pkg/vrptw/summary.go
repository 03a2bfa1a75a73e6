package vrptw

import (
	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/util"
)

// RouteSummary is the serializable form of one vehicle tour. Locations
// lists names depot -> stops -> depot.
type RouteSummary struct {
	Visits    []int    `json:"visits"`
	Locations []string `json:"locations"`
	Distance  float64  `json:"distance"`
	Duration  int      `json:"duration"`
}

// Summary is the plain solution dictionary shape: route list, per-route
// distance/duration, totals and a feasibility flag.
type Summary struct {
	Feasible      bool              `json:"feasible"`
	Cost          float64           `json:"cost"`
	Routes        []RouteSummary    `json:"routes"`
	NumRoutes     int               `json:"num_routes"`
	TotalDistance float64           `json:"total_distance"`
	TotalDuration int               `json:"total_duration"`
	Locations     []loader.Location `json:"locations"`
	Unassigned    []int             `json:"unassigned,omitempty"`
}

func NewSummary(prob *Problem, sol *Solution) *Summary {
	summary := &Summary{
		Feasible:   sol.Feasible,
		Cost:       util.RoundFloat(sol.Cost, 2),
		Routes:     make([]RouteSummary, 0, len(sol.Routes)),
		Locations:  prob.Locations,
		Unassigned: sol.Unassigned,
	}

	depotName := prob.Locations[pkg.DepotIndex].Name
	for _, route := range sol.Routes {
		names := make([]string, 0, len(route.Visits)+2)
		names = append(names, depotName)
		for _, v := range route.Visits {
			names = append(names, prob.Locations[v].Name)
		}
		names = append(names, depotName)

		summary.Routes = append(summary.Routes, RouteSummary{
			Visits:    route.Visits,
			Locations: names,
			Distance:  util.RoundFloat(route.Distance, 2),
			Duration:  route.Duration,
		})
		summary.TotalDistance += route.Distance
		summary.TotalDuration += route.Duration
	}

	summary.NumRoutes = len(summary.Routes)
	summary.TotalDistance = util.RoundFloat(summary.TotalDistance, 2)
	return summary
}

// CustomersServed counts assigned stops across all routes.
func (s *Summary) CustomersServed() int {
	served := 0
	for _, r := range s.Routes {
		served += len(r.Visits)
	}
	return served
}
