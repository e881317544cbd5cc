package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rooklite/rook/internal/domain/history"
)

// BlobRepository stores history blobs in a key/value table.
type BlobRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ history.BlobStore = (*BlobRepository)(nil)

func NewBlobRepository(db *sql.DB) *BlobRepository {
	return &BlobRepository{db: db, now: time.Now}
}

func (r *BlobRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS rook_blobs (
  blob_key   TEXT        PRIMARY KEY,
  value      BYTEA       NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *BlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("blob key is empty")
	}
	const q = `SELECT value FROM rook_blobs WHERE blob_key=$1;`
	var data []byte
	err := r.db.QueryRowContext(ctx, q, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save inserts or replaces the blob under key
func (r *BlobRepository) Save(ctx context.Context, key string, data []byte) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("blob key is empty")
	}
	const q = `
INSERT INTO rook_blobs (blob_key, value, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (blob_key) DO UPDATE SET
  value=EXCLUDED.value,
  updated_at=EXCLUDED.updated_at;
`
	_, err := r.db.ExecContext(ctx, q, key, data, r.now().UTC())
	return err
}

func (r *BlobRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
