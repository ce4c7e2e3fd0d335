package embeddings

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MeanPoolingEmbedder embeds each text on its own: tokenize, run the token
// model, then average the last hidden state under the attention mask.
type MeanPoolingEmbedder struct {
	tokenizer Tokenizer
	model     TokenModel
	name      string
	dim       int
	maxLength int
}

func NewMeanPooling(
	tok Tokenizer,
	model TokenModel,
	name string,
	dim, maxLength int,
) *MeanPoolingEmbedder {
	return &MeanPoolingEmbedder{
		tokenizer: tok,
		model:     model,
		name:      name,
		dim:       dim,
		maxLength: maxLength,
	}
}

func (e *MeanPoolingEmbedder) ModelName() string { return e.name }

func (e *MeanPoolingEmbedder) Dimension() int { return e.dim }

func (e *MeanPoolingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := e.embedOne(gctx, text)
			if err != nil {
				return err
			}
			out[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *MeanPoolingEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	batch := e.tokenizer.EncodeBatch([]string{text}, e.maxLength)
	hidden, err := e.model.Forward(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("forward %s: %w", e.name, err)
	}
	if len(hidden) != batch.Len() {
		return nil, fmt.Errorf("%s returned %d hidden states for %d sequences", e.name, len(hidden), batch.Len())
	}
	vec, err := MeanPool(hidden[0], batch.AttentionMask[0])
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", e.name, err)
	}
	if e.dim > 0 && len(vec) != e.dim {
		return nil, fmt.Errorf("%s returned hidden size %d, expected %d", e.name, len(vec), e.dim)
	}
	return vec, nil
}
