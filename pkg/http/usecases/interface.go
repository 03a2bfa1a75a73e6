package usecases

import (
	"context"

	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

type Solver interface {
	Solve(ctx context.Context, prob *vrptw.Problem) (*vrptw.Solution, error)
}
