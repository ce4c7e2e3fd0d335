package loggerfx

import (
	"context"

	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/logger"
	"go.uber.org/fx"
)

// Params represents dependencies for the logger
type Params struct {
	fx.In

	Config *configfx.Config
}

// NewLogger creates the application logger from configuration
func NewLogger(params Params) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       params.Config.LogLevel,
		ServiceName: params.Config.ServiceName,
	})
}

// RegisterLifecycle flushes buffered entries on shutdown
func RegisterLifecycle(lc fx.Lifecycle, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// syncing stderr fails on some terminals; nothing to recover there
			_ = log.Zap.Sync()
			return nil
		},
	})
}

// Module provides the logger
var Module = fx.Module("logger",
	fx.Provide(NewLogger),
	fx.Invoke(RegisterLifecycle),
)
