package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/storage"
	_ "modernc.org/sqlite"
)

type ComparisonStore struct {
	db *sql.DB
}

func New(path string) (*ComparisonStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ComparisonStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS comparisons (
		id TEXT PRIMARY KEY,
		text1 TEXT NOT NULL,
		text2 TEXT NOT NULL,
		similarity REAL NOT NULL,
		model TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);`)
	return err
}

func (s *ComparisonStore) Save(ctx context.Context, c models.Comparison) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comparisons(id,text1,text2,similarity,model,created_at) VALUES(?,?,?,?,?,?)`,
		c.ID,
		c.Text1,
		c.Text2,
		c.Similarity,
		c.Model,
		c.CreatedAt.UnixNano(),
	)
	return err
}

func (s *ComparisonStore) List(ctx context.Context, offset, limit int) ([]models.Comparison, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comparisons`).Scan(&total); err != nil {
		return nil, 0, err
	}
	out := []models.Comparison{}
	if limit <= 0 || offset < 0 || offset >= total {
		return out, total, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,text1,text2,similarity,model,created_at FROM comparisons
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c models.Comparison
		var created int64
		if err := rows.Scan(&c.ID, &c.Text1, &c.Text2, &c.Similarity, &c.Model, &created); err != nil {
			return nil, 0, err
		}
		c.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (s *ComparisonStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ComparisonStore) Close() error {
	return s.db.Close()
}
