package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rooklite/rook/internal/application/media"
	"github.com/rooklite/rook/internal/domain/history"
)

const DefaultCapacity = 256

// Manager owns the live sessions. When full, the least recently used session
// is dropped; its watchers simply stop receiving updates.
type Manager struct {
	Analyzer Analyzer
	History  history.Store
	Encoder  *media.Encoder
	Logger   *slog.Logger

	sessions *lru.Cache[string, *Session]
}

func NewManager(capacity int, analyzer Analyzer, store history.Store, encoder *media.Encoder, logger *slog.Logger) (*Manager, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Manager{Analyzer: analyzer, History: store, Encoder: encoder, Logger: logger, sessions: cache}, nil
}

func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.Analyzer, m.History, m.Encoder, m.Logger)
	m.sessions.Add(s.ID(), s)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

func (m *Manager) Len() int { return m.sessions.Len() }
