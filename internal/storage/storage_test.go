package storage_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/storage"
	"github.com/0x5457/textsim/internal/storage/memory"
	"github.com/0x5457/textsim/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]storage.ComparisonStore {
	t.Helper()
	sq, err := sqlite.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]storage.ComparisonStore{
		"memory": memory.NewComparisonStore(),
		"sqlite": sq,
	}
}

func comparison(i int, at time.Time) models.Comparison {
	return models.Comparison{
		ID:         fmt.Sprintf("id-%d", i),
		Text1:      fmt.Sprintf("left %d", i),
		Text2:      fmt.Sprintf("right %d", i),
		Similarity: float64(i) / 10,
		Model:      models.ModelSentenceTransformers,
		CreatedAt:  at,
	}
}

func TestComparisonStore(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 7; i++ {
				require.NoError(t, store.Save(ctx, comparison(i, base.Add(time.Duration(i)*time.Minute))))
			}

			page, total, err := store.List(ctx, 0, 5)
			require.NoError(t, err)
			assert.Equal(t, 7, total)
			require.Len(t, page, 5)
			assert.Equal(t, "id-6", page[0].ID)
			assert.Equal(t, "id-2", page[4].ID)
			assert.Equal(t, "left 6", page[0].Text1)
			assert.InDelta(t, 0.6, page[0].Similarity, 1e-9)
			assert.True(t, page[0].CreatedAt.Equal(base.Add(6*time.Minute)))

			page, _, err = store.List(ctx, 5, 5)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "id-0", page[1].ID)

			page, _, err = store.List(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, page)

			page, total, err = store.List(ctx, -6, 5)
			require.NoError(t, err)
			assert.Equal(t, 7, total)
			assert.Empty(t, page)

			require.NoError(t, store.Delete(ctx, "id-6"))
			assert.ErrorIs(t, store.Delete(ctx, "id-6"), storage.ErrNotFound)

			page, total, err = store.List(ctx, 0, 1)
			require.NoError(t, err)
			assert.Equal(t, 6, total)
			assert.Equal(t, "id-5", page[0].ID)
		})
	}
}

func TestComparisonStoreSameTimestamp(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, comparison(1, at)))
			require.NoError(t, store.Save(ctx, comparison(2, at)))

			page, _, err := store.List(ctx, 0, 2)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "id-2", page[0].ID)
		})
	}
}

func TestSqliteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, comparison(1, time.Now())))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	_, total, err := second.List(ctx, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
