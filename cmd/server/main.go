package main

import (
	"context"
	"flag"
	"time"

	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/http"
	"github.com/fleetroute/fleetroute/pkg/http/usecases"
	"github.com/fleetroute/fleetroute/pkg/logger"
	"github.com/fleetroute/fleetroute/pkg/metrics"
	"github.com/fleetroute/fleetroute/pkg/util"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "enable per-client rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not loaded, using defaults", zap.Error(err))
	}

	m := metrics.New()
	solver := vrptw.NewSolver(logger, time.Now().UnixNano())
	store := usecases.NewSolutionStore(pkg.MaxStoredSolutions)
	plannerService := usecases.NewPlannerService(logger, solver, store, m)

	api := http.NewServer(logger)
	ctx, cleanup := NewContext()

	api.Use(ctx, logger, *useRateLimit, plannerService, m)

	signal := http.GracefulShutdown()

	logger.Info("FleetRoute Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb
}
