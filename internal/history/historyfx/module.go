package historyfx

import (
	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/history"
	"github.com/0x5457/textsim/internal/storage"
	"go.uber.org/fx"
)

// Params represents dependencies for the history service
type Params struct {
	fx.In

	Compare *compare.Service
	Store   storage.ComparisonStore
}

// NewService creates the comparison history service
func NewService(params Params) *history.Service {
	return history.NewService(params.Compare, params.Store)
}

// Module provides the comparison history service
var Module = fx.Module("history",
	fx.Provide(NewService),
)
