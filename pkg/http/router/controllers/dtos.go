package controllers

import (
	"time"

	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

type locationRequest struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Demand    *int    `json:"demand" validate:"omitempty,min=0"`
}

func (l locationRequest) toLocation() loader.Location {
	demand := 1
	if l.Demand != nil {
		demand = *l.Demand
	}
	return loader.Location{
		Name:    l.Name,
		Address: l.Address,
		Lat:     l.Latitude,
		Lon:     l.Longitude,
		Demand:  demand,
	}
}

type solveParamsRequest struct {
	NumVehicles      int     `json:"num_vehicles" validate:"omitempty,min=1,max=1000"`
	VehicleCapacity  int     `json:"vehicle_capacity" validate:"omitempty,min=1,max=10000"`
	ServiceTime      int     `json:"service_time" validate:"omitempty,min=0,max=1440"`
	TimeWindowStart  *int    `json:"time_window_start" validate:"omitempty,min=0,max=10080"`
	TimeWindowEnd    int     `json:"time_window_end" validate:"omitempty,min=0,max=10080"`
	MaxRouteDuration int     `json:"max_route_duration" validate:"omitempty,min=0,max=10080"`
	AvgSpeedMph      float64 `json:"avg_speed_mph" validate:"omitempty,gt=0,lte=120"`
	MaxRuntime       int     `json:"max_runtime" validate:"omitempty,min=1,max=300"`
	NumLocations     int     `json:"num_locations" validate:"omitempty,min=0"`
}

// toParams fills solver params, unset fields fall back to the defaults.
func (p solveParamsRequest) toParams() vrptw.Params {
	params := vrptw.DefaultParams()
	if p.NumVehicles > 0 {
		params.NumVehicles = p.NumVehicles
	}
	if p.VehicleCapacity > 0 {
		params.VehicleCapacity = p.VehicleCapacity
	}
	if p.ServiceTime > 0 {
		params.ServiceTime = p.ServiceTime
	}
	if p.TimeWindowStart != nil {
		params.WindowStart = *p.TimeWindowStart
	}
	if p.TimeWindowEnd > 0 {
		params.WindowEnd = p.TimeWindowEnd
	}
	if p.MaxRouteDuration > 0 {
		params.MaxRouteDuration = p.MaxRouteDuration
	}
	if p.AvgSpeedMph > 0 {
		params.AvgSpeedMph = p.AvgSpeedMph
	}
	if p.MaxRuntime > 0 {
		params.MaxRuntime = time.Duration(p.MaxRuntime) * time.Second
	}
	return params
}

type solveRequest struct {
	Locations []locationRequest `json:"locations" validate:"required,min=2,dive"`
	solveParamsRequest
}

type solveResponse struct {
	ID       string         `json:"id"`
	Solution *vrptw.Summary `json:"solution"`
}

func NewSolveResponse(id string, summary *vrptw.Summary) solveResponse {
	return solveResponse{
		ID:       id,
		Solution: summary,
	}
}

type matrixRequest struct {
	Locations   []locationRequest `json:"locations" validate:"required,min=2,dive"`
	AvgSpeedMph float64           `json:"avg_speed_mph" validate:"omitempty,gt=0,lte=120"`
}

type matrixResponse struct {
	NumLocations int         `json:"num_locations"`
	AvgSpeedMph  float64     `json:"avg_speed_mph"`
	Distances    [][]float64 `json:"distances"`
	Durations    [][]int     `json:"durations"`
}

func NewMatrixResponse(numLocations int, avgSpeedMph float64,
	distances [][]float64, durations [][]int) matrixResponse {
	return matrixResponse{
		NumLocations: numLocations,
		AvgSpeedMph:  avgSpeedMph,
		Distances:    distances,
		Durations:    durations,
	}
}
