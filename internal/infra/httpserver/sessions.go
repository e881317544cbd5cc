package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rooklite/rook/internal/application/media"
	"github.com/rooklite/rook/internal/application/session"
	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/middleware"
)

func (r *Router) session(req *http.Request) (*session.Session, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return nil, badRequest{err}
	}
	return r.sessions.Get(id)
}

// POST /v1/sessions
func (r *Router) handleSessionCreate(w http.ResponseWriter, req *http.Request) error {
	s := r.sessions.Create()
	return writeJSON(w, http.StatusCreated, s.Snapshot())
}

// GET /v1/sessions/{id}
func (r *Router) handleSessionGet(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, s.Snapshot())
}

// PUT /v1/sessions/{id}/mode
// Body: {"mode": "compare"}
func (r *Router) handleSessionMode(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	mode, err := analysis.ParseMode(body.Mode)
	if err != nil {
		return err
	}
	st, err := s.SetMode(mode)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// PUT /v1/sessions/{id}/text
// Body: {"variant": "a", "text": "..."}
func (r *Router) handleSessionText(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	var body struct {
		Variant string `json:"variant"`
		Text    string `json:"text"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	v, err := analysis.ParseVariant(body.Variant)
	if err != nil {
		return badRequest{err}
	}
	st, err := s.SetText(v, body.Text)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// POST /v1/sessions/{id}/media?variant=a
// Multipart form with one or more "files" parts. Files that encode are kept
// even when others fail.
func (r *Router) handleSessionMediaAdd(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	v, err := analysis.ParseVariant(req.URL.Query().Get("variant"))
	if err != nil {
		return badRequest{err}
	}
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return invalid("invalid multipart body: %v", err)
	}
	defer req.MultipartForm.RemoveAll()

	headers := req.MultipartForm.File["files"]
	if len(headers) == 0 {
		return invalid("no files in form field %q", "files")
	}
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, media.FromMultipart(fh))
	}
	st, err := s.AttachFiles(req.Context(), v, files)
	if err != nil {
		return badRequest{err}
	}
	return writeJSON(w, http.StatusOK, st)
}

// DELETE /v1/sessions/{id}/media/{variant}/{mediaID}
func (r *Router) handleSessionMediaRemove(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	v, err := analysis.ParseVariant(chi.URLParam(req, "variant"))
	if err != nil {
		return badRequest{err}
	}
	mediaID := chi.URLParam(req, "mediaID")
	if err := middleware.ValidateMediaID(mediaID); err != nil {
		return badRequest{err}
	}
	st, err := s.RemoveMedia(v, mediaID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// POST /v1/sessions/{id}/submit
// Blocks until the analysis finishes. The session's error slot carries the
// failure too, so watchers see it without polling.
func (r *Router) handleSessionSubmit(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	// Watchers rely on the analysis finishing even if this client goes away.
	st, err := s.Submit(context.WithoutCancel(req.Context()))
	if err != nil {
		if st.Status == session.StatusError && st.Error == err.Error() {
			r.observe(st.Mode, err)
		}
		return upstream{err}
	}
	r.observe(st.Mode, nil)
	return writeJSON(w, http.StatusOK, st)
}

// POST /v1/sessions/{id}/transcribe
// Body: {"variant": "a", "audio": "data:audio/webm;base64,..."}
func (r *Router) handleSessionTranscribe(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	var body struct {
		Variant string `json:"variant"`
		Audio   string `json:"audio"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	v, err := analysis.ParseVariant(body.Variant)
	if err != nil {
		return badRequest{err}
	}
	if body.Audio == "" {
		return invalid("audio is required")
	}
	st, err := s.Transcribe(req.Context(), v, body.Audio)
	if err != nil {
		return upstream{err}
	}
	return writeJSON(w, http.StatusOK, st)
}

// POST /v1/sessions/{id}/demo
func (r *Router) handleSessionDemo(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	st, err := s.LoadDemo()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// POST /v1/sessions/{id}/history/{historyID}
func (r *Router) handleSessionLoadHistory(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	historyID := chi.URLParam(req, "historyID")
	if err := middleware.ValidateHistoryID(historyID); err != nil {
		return badRequest{err}
	}
	entry, err := r.history.Get(req.Context(), historyID)
	if err != nil {
		return err
	}
	st, err := s.LoadHistory(entry)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// GET /v1/sessions/{id}/watch
// Streams the session state as JSON text frames, the current state first.
func (r *Router) handleSessionWatch(w http.ResponseWriter, req *http.Request) {
	s, err := r.session(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already replied.
		return
	}
	defer conn.Close()

	states, stop := s.Watch()
	defer stop()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	// The client never sends anything; reading surfaces close frames and pongs.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				r.logger.Debug("watch write failed", slog.String("session", st.ID), slog.Any("err", err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
