package mysql

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

// EnsureSchema creates the blob table when missing.
func (r *BlobRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS rook_blobs (
  blob_key   VARCHAR(191) NOT NULL PRIMARY KEY,
  value      LONGBLOB     NOT NULL,
  updated_at DATETIME(3)  NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *BlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("blob key is empty")
	}
	const q = `SELECT value FROM rook_blobs WHERE blob_key=?;`
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

func (r *BlobRepository) Save(ctx context.Context, key string, data []byte) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("blob key is empty")
	}
	const q = `
INSERT INTO rook_blobs (blob_key, value, updated_at)
VALUES (?,?,?)
ON DUPLICATE KEY UPDATE
  value=VALUES(value), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q, key, data, r.now().UTC())
	return err
}

func (r *BlobRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
