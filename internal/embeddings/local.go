package embeddings

import (
	"context"
	"crypto/sha1"
	"strconv"
	"strings"

	"github.com/0x5457/textsim/internal/tokenizer"
)

// LocalSentenceEncoder is a deterministic offline encoder: a text is the sum
// of per-word hash vectors, so texts sharing words point the same way.
type LocalSentenceEncoder struct {
	dim int
}

func NewLocalSentenceEncoder(dim int) *LocalSentenceEncoder {
	return &LocalSentenceEncoder{dim: dim}
}

func (e *LocalSentenceEncoder) Encode(
	ctx context.Context,
	sentences []string,
	opts EncodeOptions,
) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vecs := make([][]float32, len(sentences))
	for i, s := range sentences {
		vec := make([]float32, e.dim)
		for _, word := range strings.Fields(strings.ToLower(s)) {
			for j, x := range hashToVector(word, e.dim) {
				vec[j] += x
			}
		}
		if opts.Normalize {
			vec = Normalize(vec)
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// LocalTokenModel maps every token id, padding included, to a fixed hash
// vector of width hidden.
type LocalTokenModel struct {
	hidden int
}

func NewLocalTokenModel(hidden int) *LocalTokenModel {
	return &LocalTokenModel{hidden: hidden}
}

func (m *LocalTokenModel) Forward(ctx context.Context, batch tokenizer.Batch) ([][][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][][]float32, batch.Len())
	for i, ids := range batch.InputIDs {
		states := make([][]float32, len(ids))
		for j, id := range ids {
			states[j] = hashToVector("token:"+strconv.FormatInt(id, 10), m.hidden)
		}
		out[i] = states
	}
	return out, nil
}

func hashToVector(s string, dim int) []float32 {
	vec := make([]float32, dim)
	var h [sha1.Size]byte
	for i := 0; i < dim; i++ {
		// a fresh digest per 20 components keeps wide vectors from repeating
		if i%sha1.Size == 0 {
			h = sha1.Sum([]byte(s + "#" + strconv.Itoa(i/sha1.Size)))
		}
		vec[i] = float32(int8(h[i%sha1.Size])) / 127.0
	}
	return vec
}
