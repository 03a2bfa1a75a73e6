package usecases

import (
	"context"
	"io"
	"time"

	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/matrix"
	"github.com/fleetroute/fleetroute/pkg/metrics"
	"github.com/fleetroute/fleetroute/pkg/render"
	"github.com/fleetroute/fleetroute/pkg/util"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"go.uber.org/zap"
)

type PlannerService struct {
	log     *zap.Logger
	solver  Solver
	store   *SolutionStore
	metrics *metrics.Metrics
}

func NewPlannerService(log *zap.Logger, solver Solver, store *SolutionStore,
	m *metrics.Metrics) *PlannerService {
	return &PlannerService{
		log:     log,
		solver:  solver,
		store:   store,
		metrics: m,
	}
}

// Plan assembles the VRPTW instance, runs the solver under its wall-clock
// budget and stores the summarized result. Returns the solution id with the
// summary.
func (ps *PlannerService) Plan(ctx context.Context, locations []loader.Location,
	params vrptw.Params) (string, *vrptw.Summary, error) {

	prob, err := vrptw.NewProblem(locations, params)
	if err != nil {
		ps.metrics.SolveRequests.WithLabelValues("invalid").Inc()
		return "", nil, err
	}

	ps.log.Info("solving vrptw instance",
		zap.Int("locations", len(locations)),
		zap.Int("vehicles", params.NumVehicles),
		zap.Duration("budget", params.MaxRuntime))

	started := time.Now()
	sol, err := ps.solver.Solve(ctx, prob)
	ps.metrics.SolveDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		ps.metrics.SolveRequests.WithLabelValues("error").Inc()
		return "", nil, util.WrapErrorf(err, util.ErrInternalServerError, "solver failed")
	}

	summary := vrptw.NewSummary(prob, sol)
	ps.metrics.SolutionCost.Observe(summary.Cost)
	if summary.Feasible {
		ps.metrics.SolveRequests.WithLabelValues("feasible").Inc()
	} else {
		ps.metrics.SolveRequests.WithLabelValues("infeasible").Inc()
	}

	id := ps.store.Put(summary)
	return id, summary, nil
}

func (ps *PlannerService) Solution(id string) (*vrptw.Summary, error) {
	summary, ok := ps.store.Get(id)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no solution with id %s", id)
	}
	return summary, nil
}

func (ps *PlannerService) SolutionGeoJSON(id string) (*render.FeatureCollection, error) {
	summary, err := ps.Solution(id)
	if err != nil {
		return nil, err
	}
	return render.NewSolutionGeoJSON(summary), nil
}

func (ps *PlannerService) WriteSolutionMap(id string, w io.Writer) error {
	summary, err := ps.Solution(id)
	if err != nil {
		return err
	}
	return render.WriteMapHTML(w, summary)
}

// DistanceMatrix exposes the pairwise distance (miles) and duration
// (minutes) matrices for a location set without solving.
func (ps *PlannerService) DistanceMatrix(locations []loader.Location,
	avgSpeedMph float64) ([][]float64, [][]int, error) {

	if avgSpeedMph <= 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "avg_speed_mph must be > 0")
	}
	m := matrix.Build(loader.Coordinates(locations), avgSpeedMph)
	return m.DistanceRows(), m.DurationRows(), nil
}
