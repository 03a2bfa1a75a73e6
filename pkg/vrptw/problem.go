package vrptw

import (
	"time"

	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/matrix"
	"github.com/fleetroute/fleetroute/pkg/util"
)

// Params are the fleet and scheduling knobs of one planning request.
// Times are minutes from midnight, distances miles, speeds mph.
type Params struct {
	NumVehicles      int
	VehicleCapacity  int
	ServiceTime      int
	WindowStart      int
	WindowEnd        int
	MaxRouteDuration int // 0 means the full window length
	AvgSpeedMph      float64
	MaxRuntime       time.Duration
}

func DefaultParams() Params {
	return Params{
		NumVehicles:     pkg.DefaultNumVehicles,
		VehicleCapacity: pkg.DefaultVehicleCapacity,
		ServiceTime:     pkg.DefaultServiceTime,
		WindowStart:     pkg.DefaultWindowStart,
		WindowEnd:       pkg.DefaultWindowEnd,
		AvgSpeedMph:     pkg.DefaultAvgSpeedMph,
		MaxRuntime:      pkg.DefaultMaxRuntimeSecond * time.Second,
	}
}

func (p Params) Validate() error {
	if p.NumVehicles < 1 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "num_vehicles must be >= 1")
	}
	if p.VehicleCapacity < 1 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "vehicle_capacity must be >= 1")
	}
	if p.ServiceTime < 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "service_time must be >= 0")
	}
	if p.WindowEnd <= p.WindowStart {
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"time window end (%d) must be after start (%d)", p.WindowEnd, p.WindowStart)
	}
	if p.MaxRouteDuration < 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "max_route_duration must be >= 0")
	}
	if p.AvgSpeedMph <= 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "avg_speed_mph must be > 0")
	}
	if p.MaxRuntime <= 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "max_runtime must be > 0")
	}
	return nil
}

// routeDurationLimit applies the default of the window length.
func (p Params) routeDurationLimit() int {
	if p.MaxRouteDuration == 0 {
		return p.WindowEnd - p.WindowStart
	}
	return p.MaxRouteDuration
}

// Problem is an assembled VRPTW instance: the ordered locations
// (depot first), the demand vector and the distance/duration matrices.
type Problem struct {
	Locations []loader.Location
	Matrices  *matrix.Matrices
	Demands   []int
	Params    Params
}

func NewProblem(locations []loader.Location, params Params) (*Problem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(locations) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"need at least 1 depot and 1 customer, got %d locations", len(locations))
	}

	demands := make([]int, len(locations))
	for i, loc := range locations {
		demands[i] = loc.Demand
	}
	demands[pkg.DepotIndex] = 0

	matrices := matrix.Build(loader.Coordinates(locations), params.AvgSpeedMph)

	return &Problem{
		Locations: locations,
		Matrices:  matrices,
		Demands:   demands,
		Params:    params,
	}, nil
}

func (p *Problem) NumCustomers() int {
	return len(p.Locations) - 1
}

func (p *Problem) distance(i, j int) float64 {
	return p.Matrices.Distance(i, j)
}

func (p *Problem) travelTime(i, j int) int {
	return p.Matrices.Duration(i, j)
}
