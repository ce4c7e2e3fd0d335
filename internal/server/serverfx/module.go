package serverfx

import (
	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/history"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"github.com/0x5457/textsim/internal/server"
	"go.uber.org/fx"
)

// Params represents dependencies for the HTTP server
type Params struct {
	fx.In

	Config  *configfx.Config
	Compare *compare.Service
	History *history.Service
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// NewServer builds the HTTP server. It is started by RegisterLifecycle, so
// commands that never request it do not bind a port.
func NewServer(params Params) *server.Server {
	handler := server.NewHandler(params.Compare, params.History, params.Logger)
	router := server.NewRouter(handler, params.Metrics, params.Logger, server.RouterOptions{
		ServeMetrics: params.Config.MetricsAddr == "",
		RateLimit:    params.Config.RateLimit,
		RateBurst:    params.Config.RateBurst,
	})
	return server.New(params.Config.ListenAddr, router, params.Logger)
}

// RegisterLifecycle ties the server to the application lifecycle
func RegisterLifecycle(lc fx.Lifecycle, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Stop,
	})
}

// Module provides the HTTP server
var Module = fx.Module("server",
	fx.Provide(NewServer),
)
