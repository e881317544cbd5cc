package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	appanalysis "github.com/rooklite/rook/internal/application/analysis"
	apphistory "github.com/rooklite/rook/internal/application/history"
	"github.com/rooklite/rook/internal/application/media"
	"github.com/rooklite/rook/internal/application/session"
	"github.com/rooklite/rook/internal/config"
	"github.com/rooklite/rook/internal/domain/history"
	"github.com/rooklite/rook/internal/infra/ai/provider"
	"github.com/rooklite/rook/internal/infra/db/mysql"
	"github.com/rooklite/rook/internal/infra/db/postgres"
	"github.com/rooklite/rook/internal/infra/storage"
	"github.com/rooklite/rook/internal/middleware"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	analysis *appanalysis.Service
	history  *apphistory.Service
	encoder  *media.Encoder
	checkers map[string]middleware.HealthChecker
	closers  []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	gen, err := provider.New(cfg.AI)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:      cfg,
		logger:   logger,
		encoder:  media.NewEncoder(cfg.Media.Concurrency),
		checkers: map[string]middleware.HealthChecker{},
	}

	blobs, err := a.openBlobs(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.history = apphistory.NewService(blobs, cfg.History.Key, cfg.History.Limit, logger)
	a.analysis = appanalysis.NewService(gen, cfg.AI.Search, logger)
	logger.Debug("app ready",
		slog.String("provider", gen.Name()),
		slog.String("history_backend", cfg.History.Backend),
	)
	return a, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (a *app) openBlobs(ctx context.Context) (history.BlobStore, error) {
	cfg := a.cfg
	switch cfg.History.Backend {
	case "memory":
		return storage.NewMemory(), nil

	case "file":
		return storage.NewFile(cfg.History.Dir)

	case "mysql":
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		repo := mysql.NewBlobRepository(db)
		return a.sqlBlobs(ctx, db, repo)

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		repo := postgres.NewBlobRepository(db)
		return a.sqlBlobs(ctx, db, repo)

	case "minio":
		store, err := storage.NewMinio(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.Prefix,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("minio init: %w", err)
		}
		a.checkers["minio"] = middleware.CheckFunc(store.Ping)
		return store, nil
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
}

type sqlRepo interface {
	history.BlobStore
	pinger
	EnsureSchema(ctx context.Context) error
}

func (a *app) sqlBlobs(ctx context.Context, db *sql.DB, repo sqlRepo) (history.BlobStore, error) {
	a.closers = append(a.closers, db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	a.checkers["database"] = middleware.CheckFunc(repo.Ping)
	return repo, nil
}

func (a *app) sessions() (*session.Manager, error) {
	return session.NewManager(a.cfg.Sessions.Capacity, a.analysis, a.history, a.encoder, a.logger)
}

func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
