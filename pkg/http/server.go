package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetroute/fleetroute/pkg/http/router"
	"github.com/fleetroute/fleetroute/pkg/http/router/controllers"
	http_server "github.com/fleetroute/fleetroute/pkg/http/server"
	"github.com/fleetroute/fleetroute/pkg/metrics"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	plannerService controllers.PlannerService,
	m *metrics.Metrics,

) (*Server, error) {
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_TIMEOUT", "1000s")

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := router.NewAPI(log, m)

	g := errgroup.Group{}

	g.Go(func() error {
		return server.Run(
			ctx, config, log,
			useRateLimit, plannerService,
		)
	})

	return s, nil
}

func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
