package vrptw

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/util"
	"go.uber.org/zap"
)

// Route is one vehicle tour. Visits holds customer indices in service
// order, the depot at both ends is implicit.
type Route struct {
	Visits   []int
	Distance float64
	Duration int
}

// Solution is the best assignment found within the time budget. A solution
// with unassigned customers is returned anyway, flagged infeasible.
type Solution struct {
	Routes     []Route
	Unassigned []int
	Cost       float64
	Feasible   bool
	Iterations int
}

// Solver is an anytime VRPTW heuristic: cheapest feasible insertion
// construction followed by relocate/swap/2-opt improvement, restarted with
// shuffled insertion orders until the wall-clock budget expires.
// Safe for concurrent Solve calls, every call gets its own rng.
type Solver struct {
	log *zap.Logger

	mu   sync.Mutex
	seed int64
}

func NewSolver(log *zap.Logger, seed int64) *Solver {
	return &Solver{
		log:  log,
		seed: seed,
	}
}

func (s *Solver) nextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed++
	return s.seed
}

func (s *Solver) Solve(ctx context.Context, prob *Problem) (*Solution, error) {
	if prob == nil {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "nil problem")
	}

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, prob.Params.MaxRuntime)
	defer cancel()

	// seed order: farthest customers from the depot first, so the expensive
	// stops anchor routes before the cheap ones fill them
	order := make([]int, 0, prob.NumCustomers())
	for c := 1; c < len(prob.Locations); c++ {
		order = append(order, c)
	}
	sort.Slice(order, func(i, j int) bool {
		return prob.distance(pkg.DepotIndex, order[i]) > prob.distance(pkg.DepotIndex, order[j])
	})

	rng := rand.New(rand.NewSource(s.nextSeed()))

	best := s.buildCandidate(ctx, prob, order)
	iterations := 1

	for !util.StopConcurrentOperation(ctx) {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		cand := s.buildCandidate(ctx, prob, order)
		iterations++
		if cand.betterThan(best) {
			best = cand
		}
	}

	sol := best.toSolution(prob)
	sol.Iterations = iterations

	s.log.Info("vrptw solve finished",
		zap.Int("iterations", iterations),
		zap.Int("routes", len(sol.Routes)),
		zap.Int("unassigned", len(sol.Unassigned)),
		zap.Float64("cost", sol.Cost),
		zap.Bool("feasible", sol.Feasible),
		zap.Duration("elapsed", time.Since(started)))

	return sol, nil
}

// state is a working solution during search.
type state struct {
	routes     [][]int
	dist       []float64
	unassigned []int
}

func (st *state) total() float64 {
	sum := 0.0
	for _, d := range st.dist {
		sum += d
	}
	return sum
}

func (st *state) betterThan(other *state) bool {
	if len(st.unassigned) != len(other.unassigned) {
		return len(st.unassigned) < len(other.unassigned)
	}
	return st.total() < other.total()-1e-9
}

func (s *Solver) buildCandidate(ctx context.Context, prob *Problem, order []int) *state {
	st := s.construct(ctx, prob, order)
	s.improve(ctx, prob, st)
	s.insertUnassigned(prob, st)
	return st
}

// construct assigns customers in the given order to the cheapest feasible
// insertion point across all vehicles.
func (s *Solver) construct(ctx context.Context, prob *Problem, order []int) *state {
	st := &state{
		routes: make([][]int, prob.Params.NumVehicles),
		dist:   make([]float64, prob.Params.NumVehicles),
	}
	for i := range st.routes {
		st.routes[i] = make([]int, 0)
	}

	for idx, c := range order {
		if util.StopConcurrentOperation(ctx) {
			st.unassigned = append(st.unassigned, order[idx:]...)
			break
		}
		if !s.insertCheapest(prob, st, c) {
			st.unassigned = append(st.unassigned, c)
		}
	}
	return st
}

func (s *Solver) insertCheapest(prob *Problem, st *state, customer int) bool {
	bestRoute, bestPos := -1, -1
	bestDist := 0.0
	bestInc := math.Inf(1)

	for r := range st.routes {
		for pos := 0; pos <= len(st.routes[r]); pos++ {
			cand := insertAt(st.routes[r], pos, customer)
			dist, _, ok := prob.evalRoute(cand)
			if !ok {
				continue
			}
			inc := dist - st.dist[r]
			if inc < bestInc {
				bestInc = inc
				bestRoute, bestPos = r, pos
				bestDist = dist
			}
		}
	}

	if bestRoute < 0 {
		return false
	}
	st.routes[bestRoute] = insertAt(st.routes[bestRoute], bestPos, customer)
	st.dist[bestRoute] = bestDist
	return true
}

// insertUnassigned retries customers left over from construction, improvement
// may have freed capacity or time.
func (s *Solver) insertUnassigned(prob *Problem, st *state) {
	remaining := make([]int, 0, len(st.unassigned))
	for _, c := range st.unassigned {
		if !s.insertCheapest(prob, st, c) {
			remaining = append(remaining, c)
		}
	}
	st.unassigned = remaining
}

// improve runs first-improvement relocate, swap and 2-opt passes until a
// full sweep yields no gain or the budget expires.
func (s *Solver) improve(ctx context.Context, prob *Problem, st *state) {
	for {
		if util.StopConcurrentOperation(ctx) {
			return
		}
		improved := s.relocatePass(ctx, prob, st)
		improved = s.swapPass(ctx, prob, st) || improved
		improved = s.twoOptPass(ctx, prob, st) || improved
		if !improved {
			return
		}
	}
}

func (s *Solver) relocatePass(ctx context.Context, prob *Problem, st *state) bool {
	improved := false
	for a := range st.routes {
		for i := 0; i < len(st.routes[a]); i++ {
			if util.StopConcurrentOperation(ctx) {
				return improved
			}
			customer := st.routes[a][i]
			removed := removeAt(st.routes[a], i)
			removedDist, _, ok := prob.evalRoute(removed)
			if !ok {
				continue
			}

			for b := range st.routes {
				if b == a {
					continue
				}
				done := false
				for pos := 0; pos <= len(st.routes[b]); pos++ {
					cand := insertAt(st.routes[b], pos, customer)
					candDist, _, okIns := prob.evalRoute(cand)
					if !okIns {
						continue
					}
					delta := (removedDist + candDist) - (st.dist[a] + st.dist[b])
					if delta < -1e-9 {
						st.routes[a] = removed
						st.dist[a] = removedDist
						st.routes[b] = cand
						st.dist[b] = candDist
						improved = true
						done = true
						break
					}
				}
				if done {
					break
				}
			}
			if i >= len(st.routes[a]) {
				break
			}
		}
	}
	return improved
}

func (s *Solver) swapPass(ctx context.Context, prob *Problem, st *state) bool {
	improved := false
	for a := range st.routes {
		for b := a + 1; b < len(st.routes); b++ {
			for i := 0; i < len(st.routes[a]); i++ {
				for j := 0; j < len(st.routes[b]); j++ {
					if util.StopConcurrentOperation(ctx) {
						return improved
					}
					routeA := append([]int(nil), st.routes[a]...)
					routeB := append([]int(nil), st.routes[b]...)
					routeA[i], routeB[j] = routeB[j], routeA[i]

					distA, _, okA := prob.evalRoute(routeA)
					if !okA {
						continue
					}
					distB, _, okB := prob.evalRoute(routeB)
					if !okB {
						continue
					}
					delta := (distA + distB) - (st.dist[a] + st.dist[b])
					if delta < -1e-9 {
						st.routes[a], st.dist[a] = routeA, distA
						st.routes[b], st.dist[b] = routeB, distB
						improved = true
					}
				}
			}
		}
	}
	return improved
}

func (s *Solver) twoOptPass(ctx context.Context, prob *Problem, st *state) bool {
	improved := false
	for r := range st.routes {
		route := st.routes[r]
		for i := 0; i < len(route)-1; i++ {
			for j := i + 1; j < len(route); j++ {
				if util.StopConcurrentOperation(ctx) {
					return improved
				}
				cand := append([]int(nil), route...)
				reverseSegment(cand, i, j)
				dist, _, ok := prob.evalRoute(cand)
				if !ok {
					continue
				}
				if dist < st.dist[r]-1e-9 {
					st.routes[r] = cand
					st.dist[r] = dist
					route = cand
					improved = true
				}
			}
		}
	}
	return improved
}

func (st *state) toSolution(prob *Problem) *Solution {
	sol := &Solution{
		Unassigned: append([]int(nil), st.unassigned...),
		Feasible:   len(st.unassigned) == 0,
	}
	sort.Ints(sol.Unassigned)

	for _, visits := range st.routes {
		if len(visits) == 0 {
			continue
		}
		dist, dur, _ := prob.evalRoute(visits)
		sol.Routes = append(sol.Routes, Route{
			Visits:   append([]int(nil), visits...),
			Distance: dist,
			Duration: dur,
		})
		sol.Cost += dist
	}
	return sol
}

// evalRoute simulates one vehicle leaving the depot at window start and
// serving visits in order. Arrival before the window opens waits, arrival
// after it closes is infeasible, as is exceeding capacity, the route
// duration limit, or returning to the depot after the window closes.
// Returns total distance (miles), total travel+service duration (minutes)
// and feasibility.
func (p *Problem) evalRoute(visits []int) (float64, int, bool) {
	params := p.Params
	limit := params.routeDurationLimit()

	load := 0
	dist := 0.0
	duration := 0
	clock := params.WindowStart
	prev := pkg.DepotIndex

	for _, v := range visits {
		load += p.Demands[v]
		if load > params.VehicleCapacity {
			return 0, 0, false
		}
		arrive := clock + p.travelTime(prev, v)
		if arrive < params.WindowStart {
			arrive = params.WindowStart
		}
		if arrive > params.WindowEnd {
			return 0, 0, false
		}
		dist += p.distance(prev, v)
		duration += p.travelTime(prev, v) + params.ServiceTime
		clock = arrive + params.ServiceTime
		prev = v
	}

	back := clock + p.travelTime(prev, pkg.DepotIndex)
	dist += p.distance(prev, pkg.DepotIndex)
	duration += p.travelTime(prev, pkg.DepotIndex)

	if back > params.WindowEnd {
		return 0, 0, false
	}
	if back-params.WindowStart > limit {
		return 0, 0, false
	}
	return dist, duration, true
}

func insertAt(route []int, pos, customer int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, customer)
	out = append(out, route[pos:]...)
	return out
}

func removeAt(route []int, pos int) []int {
	out := make([]int, 0, len(route)-1)
	out = append(out, route[:pos]...)
	out = append(out, route[pos+1:]...)
	return out
}

func reverseSegment(route []int, i, j int) {
	for i < j {
		route[i], route[j] = route[j], route[i]
		i++
		j--
	}
}
