package embeddings

import (
	"context"
	"fmt"
)

// SentenceBatchSize is the batch size used for a text pair.
const SentenceBatchSize = 2

// SentenceEmbedder encodes all texts in one batched call and returns unit
// vectors.
type SentenceEmbedder struct {
	encoder SentenceEncoder
	name    string
	dim     int
}

func NewSentence(encoder SentenceEncoder, name string, dim int) *SentenceEmbedder {
	return &SentenceEmbedder{encoder: encoder, name: name, dim: dim}
}

func (e *SentenceEmbedder) ModelName() string { return e.name }

func (e *SentenceEmbedder) Dimension() int { return e.dim }

func (e *SentenceEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.encoder.Encode(ctx, texts, EncodeOptions{
		BatchSize: SentenceBatchSize,
		Normalize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode with %s: %w", e.name, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d texts", e.name, len(vecs), len(texts))
	}
	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		if e.dim > 0 && len(v) != e.dim {
			return nil, fmt.Errorf("%s returned dimension %d, expected %d", e.name, len(v), e.dim)
		}
		out[i] = Normalize(v)
	}
	return out, nil
}
