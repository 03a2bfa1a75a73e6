package controllers

import (
	"context"
	"io"

	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/render"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

type PlannerService interface {
	Plan(ctx context.Context, locations []loader.Location, params vrptw.Params) (string, *vrptw.Summary, error)
	Solution(id string) (*vrptw.Summary, error)
	SolutionGeoJSON(id string) (*render.FeatureCollection, error)
	WriteSolutionMap(id string, w io.Writer) error
	DistanceMatrix(locations []loader.Location, avgSpeedMph float64) ([][]float64, [][]int, error)
}
