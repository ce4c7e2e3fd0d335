package comparefx

import (
	"context"

	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"github.com/0x5457/textsim/internal/registry"
	"github.com/0x5457/textsim/internal/worker"
	"go.uber.org/fx"
)

// NewPool starts the inference workers and stops them on shutdown
func NewPool(lc fx.Lifecycle, cfg *configfx.Config, log *logger.Logger) *worker.Pool {
	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)
	log.Info("inference pool started", nil, map[string]interface{}{
		"workers": pool.Size(),
		"queue":   cfg.QueueSize,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool
}

// Params represents dependencies for the compare service
type Params struct {
	fx.In

	Registry *registry.Registry
	Pool     *worker.Pool
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

// NewService creates the compare service
func NewService(params Params) *compare.Service {
	return compare.NewService(params.Registry, params.Pool, params.Logger, params.Metrics)
}

// Module provides the inference pool and the compare service
var Module = fx.Module("compare",
	fx.Provide(
		NewPool,
		NewService,
	),
)
