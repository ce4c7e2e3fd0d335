// Package history computes comparisons on behalf of clients and keeps a
// browsable record of them.
package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/storage"
	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

var ErrTextsRequired = errors.New("both texts are required")

// Computer scores a text pair.
type Computer interface {
	Compute(ctx context.Context, req models.EmbeddingRequest) (models.SimilarityResult, error)
}

type Service struct {
	computer Computer
	store    storage.ComparisonStore
	now      func() time.Time
}

func NewService(computer Computer, store storage.ComparisonStore) *Service {
	return &Service{
		computer: computer,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Record scores the pair and stores the outcome. An empty model selects the
// default model.
func (s *Service) Record(ctx context.Context, req models.EmbeddingRequest) (models.Comparison, error) {
	if req.Text1 == "" || req.Text2 == "" {
		return models.Comparison{}, ErrTextsRequired
	}
	if req.Model == "" {
		req.Model = models.DefaultModel
	}

	res, err := s.computer.Compute(ctx, req)
	if err != nil {
		return models.Comparison{}, err
	}

	c := models.Comparison{
		ID:         uuid.NewString(),
		Text1:      req.Text1,
		Text2:      req.Text2,
		Similarity: res.Similarity,
		Model:      req.Model,
		CreatedAt:  s.now(),
	}
	if err := s.store.Save(ctx, c); err != nil {
		return models.Comparison{}, fmt.Errorf("save comparison: %w", err)
	}
	return c, nil
}

// List returns a page of comparisons, newest first. Out of range page and
// limit values fall back to the defaults.
func (s *Service) List(ctx context.Context, page, limit int) (models.ComparisonPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	// pages beyond any possible offset are past the end
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	items, total, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return models.ComparisonPage{}, fmt.Errorf("list comparisons: %w", err)
	}
	return models.ComparisonPage{
		Comparisons: items,
		Total:       total,
		Page:        page,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
