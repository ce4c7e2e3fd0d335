package models

import "time"

// Registry keys of the supported embedding strategies.
const (
	ModelSentenceTransformers = "sentence-transformers"
	ModelBertSmall            = "bert-small"

	DefaultModel = ModelSentenceTransformers
)

type EmbeddingRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
	Model string `json:"model"`
}

type SimilarityResult struct {
	Similarity float64 `json:"similarity"`
}

// Comparison is one recorded similarity computation. Embeddings are never kept.
type Comparison struct {
	ID         string    `json:"id"`
	Text1      string    `json:"text1"`
	Text2      string    `json:"text2"`
	Similarity float64   `json:"similarity"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ComparisonPage struct {
	Comparisons []Comparison `json:"comparisons"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	TotalPages  int          `json:"totalPages"`
}
