package embeddings

import (
	"context"

	"github.com/0x5457/textsim/internal/tokenizer"
)

// Embedder turns texts into fixed-dimension vectors, one per text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Dimension() int
}

type EncodeOptions struct {
	BatchSize int
	Normalize bool
}

// SentenceEncoder is a ready sentence-embedding model.
type SentenceEncoder interface {
	Encode(ctx context.Context, sentences []string, opts EncodeOptions) ([][]float32, error)
}

// TokenModel runs a transformer in inference mode and returns its last
// hidden state, one [tokens][hidden] matrix per sequence of the batch.
type TokenModel interface {
	Forward(ctx context.Context, batch tokenizer.Batch) ([][][]float32, error)
}

type Tokenizer interface {
	EncodeBatch(texts []string, maxLength int) tokenizer.Batch
}
