package metricsfx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"go.uber.org/fx"
)

// Params represents dependencies for metrics
type Params struct {
	fx.In

	Config *configfx.Config
}

// NewMetrics creates the metrics registry for the service
func NewMetrics(params Params) *metrics.Metrics {
	return metrics.New(params.Config.ServiceName)
}

// RegisterLifecycle runs a dedicated metrics server when metricsAddr is set.
func RegisterLifecycle(lc fx.Lifecycle, cfg *configfx.Config, m *metrics.Metrics, log *logger.Logger) {
	if cfg.MetricsAddr == "" {
		return
	}
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("metrics server listening", nil, map[string]interface{}{"addr": srv.Addr})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server stopped", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Module provides metrics
var Module = fx.Module("metrics",
	fx.Provide(NewMetrics),
	fx.Invoke(RegisterLifecycle),
)
