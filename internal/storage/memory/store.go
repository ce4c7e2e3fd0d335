package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/storage"
)

type ComparisonStore struct {
	mu   sync.RWMutex
	data []models.Comparison // ordered by insertion
}

func NewComparisonStore() *ComparisonStore {
	return &ComparisonStore{}
}

func (s *ComparisonStore) Save(_ context.Context, c models.Comparison) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, c)
	return nil
}

func (s *ComparisonStore) List(_ context.Context, offset, limit int) ([]models.Comparison, int, error) {
	s.mu.RLock()
	all := make([]models.Comparison, 0, len(s.data))
	for i := len(s.data) - 1; i >= 0; i-- {
		all = append(all, s.data[i])
	}
	s.mu.RUnlock()

	// newest first; equal timestamps keep the later insert first
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset < 0 || offset >= total || limit <= 0 {
		return []models.Comparison{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (s *ComparisonStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.data {
		if c.ID == id {
			s.data = append(s.data[:i], s.data[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *ComparisonStore) Close() error { return nil }
