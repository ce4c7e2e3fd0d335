package tracingfx

import (
	"context"

	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/tracing"
	"go.uber.org/fx"
)

// Params represents dependencies for tracing
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *configfx.Config
}

// NewTracer installs the tracer provider and flushes it on shutdown
func NewTracer(params Params) (*tracing.Tracer, error) {
	tracer, err := tracing.New(context.Background(), tracing.Config{
		ServiceName:  params.Config.ServiceName,
		EnableExport: params.Config.OTLPEnabled,
	})
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: tracer.Shutdown,
	})
	return tracer, nil
}

// Module provides tracing. The provider is installed even when no component
// asks for it.
var Module = fx.Module("tracing",
	fx.Provide(NewTracer),
	fx.Invoke(func(*tracing.Tracer) {}),
)
