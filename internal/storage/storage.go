package storage

import (
	"context"
	"errors"

	"github.com/0x5457/textsim/internal/models"
)

var ErrNotFound = errors.New("comparison not found")

// ComparisonStore keeps the history of computed comparisons.
type ComparisonStore interface {
	Save(ctx context.Context, c models.Comparison) error
	// List returns one page, newest first, and the total number of records.
	List(ctx context.Context, offset, limit int) ([]models.Comparison, int, error)
	// Delete removes a record. It returns ErrNotFound if id is unknown.
	Delete(ctx context.Context, id string) error
	Close() error
}
