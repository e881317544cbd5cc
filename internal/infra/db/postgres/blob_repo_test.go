package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/domain/history"
)

func newRepo(t *testing.T) (*BlobRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewBlobRepository(db)
	repo.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return repo, mock
}

func TestBlobRepositorySaveUpserts(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (blob_key) DO UPDATE SET")).
		WithArgs("rook_lite_history", []byte(`[]`), time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), "rook_lite_history", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobRepositoryLoad(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM rook_blobs WHERE blob_key=$1")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"1"}]`)))

	data, err := repo.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobRepositoryLoadMissing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("SELECT value").WithArgs("k").WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background(), "k")
	assert.ErrorIs(t, err, history.ErrBlobNotFound)
}

func TestBlobRepositoryEmptyKey(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.Load(context.Background(), " ")
	assert.Error(t, err)
	assert.Error(t, repo.Save(context.Background(), "", nil))
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS rook_blobs").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
