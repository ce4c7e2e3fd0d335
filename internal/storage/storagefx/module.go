package storagefx

import (
	"context"

	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/storage"
	"github.com/0x5457/textsim/internal/storage/memory"
	"github.com/0x5457/textsim/internal/storage/sqlite"
	"go.uber.org/fx"
)

// Params represents dependencies for storage components
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *configfx.Config
	Logger    *logger.Logger
}

// NewComparisonStore opens the history database, or keeps history in memory
// when no database path is configured
func NewComparisonStore(params Params) (storage.ComparisonStore, error) {
	var store storage.ComparisonStore
	if params.Config.DBPath == "" {
		params.Logger.Info("comparison history kept in memory", nil)
		store = memory.NewComparisonStore()
	} else {
		db, err := sqlite.New(params.Config.DBPath)
		if err != nil {
			return nil, err
		}
		params.Logger.Info("comparison history opened", nil, map[string]interface{}{
			"path": params.Config.DBPath,
		})
		store = db
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// Module provides storage components
var Module = fx.Module("storage",
	fx.Provide(NewComparisonStore),
)
