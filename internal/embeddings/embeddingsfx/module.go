package embeddingsfx

import (
	"fmt"

	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/device"
	"github.com/0x5457/textsim/internal/embeddings"
	"github.com/0x5457/textsim/internal/tokenizer"
	"go.uber.org/fx"
)

// Params represents dependencies for embeddings components
type Params struct {
	fx.In

	Config *configfx.Config
	Device device.Device
}

// NewTokenizer loads the BERT vocabulary. The local backend falls back to a
// character level vocabulary when no vocab file is configured.
func NewTokenizer(params Params) (*tokenizer.WordPiece, error) {
	path := params.Config.BertVocabPath
	if path == "" {
		if params.Config.Backend != configfx.BackendLocal {
			return nil, fmt.Errorf("bert vocab path must be specified")
		}
		return tokenizer.New(tokenizer.BasicVocab())
	}
	vocab, err := tokenizer.LoadVocab(path)
	if err != nil {
		return nil, err
	}
	return tokenizer.New(vocab)
}

// NewSentenceEmbedder creates the embedder behind "sentence-transformers"
func NewSentenceEmbedder(params Params) embeddings.Embedder {
	cfg := params.Config
	var encoder embeddings.SentenceEncoder
	if cfg.Backend == configfx.BackendLocal {
		encoder = embeddings.NewLocalSentenceEncoder(cfg.SentenceDimension)
	} else {
		encoder = embeddings.NewApiSentenceEncoder(embeddings.ApiOptions{
			URL:     cfg.SentenceURL,
			Model:   cfg.SentenceModel,
			Device:  params.Device.String(),
			Token:   cfg.InferenceToken,
			Timeout: cfg.HTTPTimeout,
		})
	}
	return embeddings.NewSentence(encoder, cfg.SentenceModel, cfg.SentenceDimension)
}

// BertParams adds the tokenizer to the common dependencies
type BertParams struct {
	fx.In

	Config    *configfx.Config
	Device    device.Device
	Tokenizer *tokenizer.WordPiece
}

// NewBertEmbedder creates the mean pooling embedder behind "bert-small"
func NewBertEmbedder(params BertParams) embeddings.Embedder {
	cfg := params.Config
	var model embeddings.TokenModel
	if cfg.Backend == configfx.BackendLocal {
		model = embeddings.NewLocalTokenModel(cfg.BertHiddenSize)
	} else {
		model = embeddings.NewApiTokenModel(embeddings.ApiOptions{
			URL:     cfg.TokenModelURL,
			Model:   cfg.BertModel,
			Device:  params.Device.String(),
			Token:   cfg.InferenceToken,
			Timeout: cfg.HTTPTimeout,
		})
	}
	return embeddings.NewMeanPooling(
		params.Tokenizer,
		model,
		cfg.BertModel,
		cfg.BertHiddenSize,
		cfg.MaxSequenceLength,
	)
}

// Module provides embeddings components
var Module = fx.Module("embeddings",
	fx.Provide(
		NewTokenizer,
		fx.Annotate(NewSentenceEmbedder, fx.ResultTags(`name:"sentenceEmbedder"`)),
		fx.Annotate(NewBertEmbedder, fx.ResultTags(`name:"bertEmbedder"`)),
	),
)
