package appfx

import (
	"github.com/0x5457/textsim/cmd/cmdsfx"
	"github.com/0x5457/textsim/internal/compare/comparefx"
	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/embeddings/embeddingsfx"
	"github.com/0x5457/textsim/internal/history/historyfx"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/logger/loggerfx"
	"github.com/0x5457/textsim/internal/mcp/mcpfx"
	"github.com/0x5457/textsim/internal/metrics/metricsfx"
	"github.com/0x5457/textsim/internal/registry/registryfx"
	"github.com/0x5457/textsim/internal/server/serverfx"
	"github.com/0x5457/textsim/internal/storage/storagefx"
	"github.com/0x5457/textsim/internal/tracing/tracingfx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module combines all application modules
var Module = fx.Options(
	configfx.Module,
	loggerfx.Module,
	metricsfx.Module,
	tracingfx.Module,
	embeddingsfx.Module,
	registryfx.Module,
	comparefx.Module,
	storagefx.Module,
	historyfx.Module,
	serverfx.Module,
	mcpfx.Module,
	cmdsfx.Module,
	fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Zap.Named("fx")}
	}),
)

// Options are the command line overrides. Empty values keep the configured
// setting.
type Options struct {
	ConfigFile string
	ListenAddr string
	Backend    string
	DBPath     string
}

func (o Options) supply() fx.Option {
	return fx.Supply(
		fx.Annotate(o.ConfigFile, fx.ResultTags(`name:"configFile"`)),
		fx.Annotate(o.ListenAddr, fx.ResultTags(`name:"listenAddr"`)),
		fx.Annotate(o.Backend, fx.ResultTags(`name:"backend"`)),
		fx.Annotate(o.DBPath, fx.ResultTags(`name:"dbPath"`)),
	)
}

// NewAppWithConfig creates an Fx app with the given configuration values
func NewAppWithConfig(opts Options, extra ...fx.Option) *fx.App {
	return fx.New(
		Module,
		opts.supply(),
		fx.Options(extra...),
	)
}

// NewServerApp creates an Fx app that serves HTTP until stopped
func NewServerApp(opts Options) *fx.App {
	return NewAppWithConfig(opts, fx.Invoke(serverfx.RegisterLifecycle))
}

// NewApp creates an Fx app with default configuration
func NewApp() *fx.App {
	return fx.New(Module)
}
