package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rooklite/rook/internal/application"
	"github.com/rooklite/rook/internal/domain/analysis"
	domain "github.com/rooklite/rook/internal/domain/history"
)

const (
	DefaultKey   = "rook_lite_history"
	DefaultLimit = 20
)

// Service keeps the newest-first list of saved analyses in one JSON blob.
// The blob is re-read on every call so processes sharing a backend see each
// other's writes. A missing or corrupt blob reads as an empty list; a backend
// failure is returned and nothing is written. Every mutation is written
// through before it is visible.
type Service struct {
	Blobs  domain.BlobStore
	Key    string
	Limit  int
	Clock  application.Clock
	Logger *slog.Logger

	mu     sync.Mutex
	lastID int64
}

var _ domain.Store = (*Service)(nil)

func NewService(blobs domain.BlobStore, key string, limit int, logger *slog.Logger) *Service {
	if key == "" {
		key = DefaultKey
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Blobs: blobs, Key: key, Limit: limit, Clock: application.SystemClock{}, Logger: logger}
}

func (s *Service) List(ctx context.Context) ([]domain.SavedAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.SavedAnalysis{}
	}
	return entries, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.SavedAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return domain.SavedAnalysis{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.SavedAnalysis{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

// Record stamps a new entry, puts it first and drops whatever falls beyond
// Limit.
func (s *Service) Record(ctx context.Context, result analysis.Result, inputs analysis.Input) (domain.SavedAnalysis, error) {
	if result == nil {
		return domain.SavedAnalysis{}, errors.New("history: nil result")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return domain.SavedAnalysis{}, err
	}

	ts := s.now()
	id := ts
	if id <= s.lastID {
		id = s.lastID + 1
	}
	entry := domain.SavedAnalysis{
		ID:        strconv.FormatInt(id, 10),
		Timestamp: ts,
		Mode:      result.AnalysisMode(),
		Title:     result.Title(),
		Summary:   result.Summary(),
		Inputs:    inputs.Clone(),
		Result:    result,
	}

	next := make([]domain.SavedAnalysis, 0, min(len(entries)+1, s.Limit))
	next = append(next, entry)
	next = append(next, entries...)
	if len(next) > s.Limit {
		next = next[:s.Limit]
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.SavedAnalysis{}, err
	}
	s.lastID = id
	return entry, nil
}

// Remove drops id. Unknown ids are a no-op and do not touch the blob.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	next := make([]domain.SavedAnalysis, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(entries) {
		return nil
	}
	return s.persist(ctx, next)
}

// load must be called with mu held. Only ErrBlobNotFound and a blob that
// does not decode count as empty; any other Load error means the stored list
// is unknown and must not be overwritten.
func (s *Service) load(ctx context.Context) ([]domain.SavedAnalysis, error) {
	data, err := s.Blobs.Load(ctx, s.Key)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load history: %w", err)
	}
	var entries []domain.SavedAnalysis
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger().Warn("history blob is corrupt, starting empty", slog.String("key", s.Key), slog.Any("err", err))
		return nil, nil
	}
	if len(entries) > s.Limit {
		entries = entries[:s.Limit]
	}
	for _, e := range entries {
		if id, err := strconv.ParseInt(e.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return entries, nil
}

func (s *Service) persist(ctx context.Context, entries []domain.SavedAnalysis) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.Blobs.Save(ctx, s.Key, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) now() int64 {
	if s.Clock == nil {
		return application.SystemClock{}.Now().UnixMilli()
	}
	return s.Clock.Now().UnixMilli()
}
