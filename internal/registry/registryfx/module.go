package registryfx

import (
	"github.com/0x5457/textsim/internal/device"
	"github.com/0x5457/textsim/internal/embeddings"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/registry"
	"go.uber.org/fx"
)

// Params represents dependencies for the model registry
type Params struct {
	fx.In

	Device   device.Device
	Sentence embeddings.Embedder `name:"sentenceEmbedder"`
	Bert     embeddings.Embedder `name:"bertEmbedder"`
	Logger   *logger.Logger
}

// NewRegistry builds the registry once at startup
func NewRegistry(params Params) (*registry.Registry, error) {
	reg, err := registry.New(params.Device, map[string]embeddings.Embedder{
		models.ModelSentenceTransformers: params.Sentence,
		models.ModelBertSmall:            params.Bert,
	})
	if err != nil {
		return nil, err
	}
	params.Logger.Info("model registry ready", nil, map[string]interface{}{
		"device": params.Device.String(),
		"models": reg.Names(),
	})
	return reg, nil
}

// Module provides the device and the model registry
var Module = fx.Module("registry",
	fx.Provide(
		device.Detect,
		NewRegistry,
	),
)
