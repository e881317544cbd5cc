package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rooklite/rook/internal/application/media"
	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/domain/history"
	"github.com/rooklite/rook/internal/infra/ai/prompt"
)

var (
	ErrBusy     = errors.New("an analysis is already in flight")
	ErrNotFound = errors.New("session not found")
)

// Status is where the session is in its request cycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Analyzer is the subset of the analysis client a session drives.
type Analyzer interface {
	Analyze(ctx context.Context, mode analysis.Mode, in analysis.Input) (analysis.Result, error)
	Transcribe(ctx context.Context, encodedAudio string) (string, error)
}

// State is a point-in-time copy of a session. Version increases on every
// change so watchers can drop stale frames.
type State struct {
	ID           string          `json:"id"`
	Version      uint64          `json:"version"`
	Mode         analysis.Mode   `json:"mode"`
	Inputs       analysis.Input  `json:"inputs"`
	Status       Status          `json:"status"`
	Transcribing bool            `json:"transcribing"`
	Error        string          `json:"error,omitempty"`
	Result       analysis.Result `json:"result,omitempty"`
	HistoryID    string          `json:"historyId,omitempty"`
}

// Loading reports whether an analysis call is in flight.
func (s State) Loading() bool { return s.Status == StatusLoading }

// Session is one user's working state. All mutations are serialized; the
// analysis call itself runs outside the lock so edits and watchers are never
// blocked by the service.
type Session struct {
	analyzer Analyzer
	history  history.Store
	encoder  *media.Encoder
	logger   *slog.Logger

	mu          sync.Mutex
	state       State
	generation  uint64 // bumped whenever the inputs are replaced wholesale
	nextWatcher int
	watchers    map[int]chan State
}

func New(id string, analyzer Analyzer, store history.Store, encoder *media.Encoder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if encoder == nil {
		encoder = media.NewEncoder(0)
	}
	return &Session{
		analyzer: analyzer,
		history:  store,
		encoder:  encoder,
		logger:   logger.With(slog.String("session", id)),
		state:    State{ID: id, Mode: analysis.ModeAudit, Status: StatusIdle},
		watchers: map[int]chan State{},
	}
}

func (s *Session) ID() string { return s.state.ID }

// Snapshot returns a copy that is safe to read while the session changes.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := s.state
	st.Inputs = st.Inputs.Clone()
	return st
}

// update applies fn under the lock and notifies watchers.
func (s *Session) update(fn func(st *State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.state); err != nil {
		return s.snapshotLocked(), err
	}
	s.state.Version++
	snap := s.snapshotLocked()
	s.broadcastLocked(snap)
	return snap, nil
}

// SetMode starts fresh: inputs, media, result and error are all cleared.
func (s *Session) SetMode(mode analysis.Mode) (State, error) {
	if !mode.Valid() {
		return s.Snapshot(), fmt.Errorf("%w: %q", analysis.ErrUnknownMode, mode)
	}
	return s.update(func(st *State) error {
		if st.Loading() {
			return ErrBusy
		}
		s.generation++
		st.Mode = mode
		st.Inputs = analysis.Input{}
		st.Result = nil
		st.Error = ""
		st.HistoryID = ""
		st.Status = StatusIdle
		return nil
	})
}

func (s *Session) SetText(v analysis.Variant, text string) (State, error) {
	return s.update(func(st *State) error {
		if v == analysis.VariantB {
			st.Inputs.SecondaryText = text
		} else {
			st.Inputs.PrimaryText = text
		}
		return nil
	})
}

// AppendMedia adds items to the variant's sequence against the latest state,
// so concurrent completions never overwrite each other.
func (s *Session) AppendMedia(v analysis.Variant, items ...analysis.MediaItem) (State, error) {
	return s.update(func(st *State) error {
		appendTo(st, v, items)
		return nil
	})
}

// AttachFiles encodes files concurrently and appends each one as it finishes.
// Files that fail are reported in the returned error; the rest are kept.
// Items that finish after a mode switch or history load are dropped, since
// the inputs they belonged to are gone.
func (s *Session) AttachFiles(ctx context.Context, v analysis.Variant, files []media.File) (State, error) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	err := s.encoder.EncodeAll(ctx, files, func(item analysis.MediaItem) {
		_, _ = s.update(func(st *State) error {
			if s.generation != gen {
				return errStale
			}
			appendTo(st, v, []analysis.MediaItem{item})
			return nil
		})
	})
	return s.Snapshot(), err
}

var errStale = errors.New("inputs replaced")

func appendTo(st *State, v analysis.Variant, items []analysis.MediaItem) {
	if v == analysis.VariantB {
		st.Inputs.MediaB = append(st.Inputs.MediaB, items...)
	} else {
		st.Inputs.MediaA = append(st.Inputs.MediaA, items...)
	}
}

func (s *Session) RemoveMedia(v analysis.Variant, id string) (State, error) {
	return s.update(func(st *State) error {
		if v == analysis.VariantB {
			st.Inputs.MediaB = media.Remove(st.Inputs.MediaB, id)
		} else {
			st.Inputs.MediaA = media.Remove(st.Inputs.MediaA, id)
		}
		return nil
	})
}

// LoadDemo replaces the text inputs with the mode's sample content.
func (s *Session) LoadDemo() (State, error) {
	return s.update(func(st *State) error {
		demo, err := prompt.Demo(st.Mode)
		if err != nil {
			return err
		}
		st.Inputs.PrimaryText = demo.PrimaryText
		st.Inputs.SecondaryText = demo.SecondaryText
		st.Error = ""
		return nil
	})
}

// LoadHistory overwrites mode, inputs and result in one step. No service
// call is made, so the session never passes through loading.
func (s *Session) LoadHistory(entry history.SavedAnalysis) (State, error) {
	return s.update(func(st *State) error {
		if st.Loading() {
			return ErrBusy
		}
		s.generation++
		st.Mode = entry.Mode
		st.Inputs = entry.Inputs.Clone()
		st.Result = entry.Result
		st.HistoryID = entry.ID
		st.Error = ""
		st.Status = StatusSuccess
		return nil
	})
}

// Submit validates the current inputs, runs the analysis and records the
// result. Invalid input is rejected before any state change or call.
// Service failures land in the error slot and clear any previous result.
func (s *Session) Submit(ctx context.Context) (State, error) {
	var (
		mode analysis.Mode
		in   analysis.Input
	)
	if _, err := s.update(func(st *State) error {
		if st.Loading() {
			return ErrBusy
		}
		if err := st.Inputs.Validate(st.Mode); err != nil {
			return err
		}
		mode, in = st.Mode, st.Inputs.Clone()
		st.Status = StatusLoading
		st.Error = ""
		st.Result = nil
		st.HistoryID = ""
		return nil
	}); err != nil {
		return s.Snapshot(), err
	}

	res, err := s.analyzer.Analyze(ctx, mode, in)
	if err != nil {
		s.logger.Info("analysis failed", slog.String("mode", string(mode)), slog.Any("err", err))
		snap, _ := s.update(func(st *State) error {
			st.Status = StatusError
			st.Error = err.Error()
			st.Result = nil
			return nil
		})
		return snap, err
	}

	var historyID string
	if s.history != nil {
		saved, herr := s.history.Record(ctx, res, in)
		if herr != nil {
			s.logger.Warn("history record failed", slog.Any("err", herr))
		} else {
			historyID = saved.ID
		}
	}
	return s.update(func(st *State) error {
		st.Status = StatusSuccess
		st.Result = res
		st.HistoryID = historyID
		return nil
	})
}

// Transcribe turns recorded audio into text and appends it to the variant's
// input. It has its own flag and runs alongside an analysis. Failures are
// returned to the caller and leave the error slot alone.
func (s *Session) Transcribe(ctx context.Context, v analysis.Variant, encodedAudio string) (State, error) {
	if _, err := s.update(func(st *State) error {
		if st.Transcribing {
			return ErrBusy
		}
		st.Transcribing = true
		return nil
	}); err != nil {
		return s.Snapshot(), err
	}

	text, err := s.analyzer.Transcribe(ctx, encodedAudio)
	snap, _ := s.update(func(st *State) error {
		st.Transcribing = false
		if err != nil || text == "" {
			return nil
		}
		if v == analysis.VariantB {
			st.Inputs.SecondaryText = joinText(st.Inputs.SecondaryText, text)
		} else {
			st.Inputs.PrimaryText = joinText(st.Inputs.PrimaryText, text)
		}
		return nil
	})
	return snap, err
}

func joinText(existing, add string) string {
	if strings.TrimSpace(existing) == "" {
		return add
	}
	return strings.TrimRight(existing, " ") + " " + add
}

// Watch delivers the latest state on every change. Slow readers only see the
// newest frame. Call the returned func to stop.
func (s *Session) Watch() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) broadcastLocked(st State) {
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
