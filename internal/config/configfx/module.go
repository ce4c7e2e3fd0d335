package configfx

import (
	"go.uber.org/fx"
)

// Params represents the parameters needed to create configuration
type Params struct {
	fx.In

	ConfigFile string `name:"configFile" optional:"true"`
	ListenAddr string `name:"listenAddr" optional:"true"`
	Backend    string `name:"backend"    optional:"true"`
	DBPath     string `name:"dbPath"     optional:"true"`
}

// NewConfig loads the configuration and applies command line overrides
func NewConfig(params Params) (*Config, error) {
	config, err := Load(params.ConfigFile)
	if err != nil {
		return nil, err
	}

	if params.ListenAddr != "" {
		config.ListenAddr = params.ListenAddr
	}
	if params.Backend != "" {
		config.Backend = params.Backend
	}
	if params.DBPath != "" {
		config.DBPath = params.DBPath
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Module provides configuration for the application
var Module = fx.Module("config",
	fx.Provide(NewConfig),
)
