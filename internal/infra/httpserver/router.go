package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	appanalysis "github.com/rooklite/rook/internal/application/analysis"
	"github.com/rooklite/rook/internal/application/session"
	domai "github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/domain/history"
	"github.com/rooklite/rook/internal/infra/ai/prompt"
	"github.com/rooklite/rook/internal/middleware"
)

// Options carries everything the router serves. Nil Metrics disables
// /metrics; an empty APIKeys map disables auth.
type Options struct {
	Analysis *appanalysis.Service
	History  history.Store
	Sessions *session.Manager
	Metrics  *middleware.Metrics
	Limiter  *middleware.RateLimiter
	Checkers map[string]middleware.HealthChecker
	APIKeys  map[string]string
	Origins  []string
	// MaxBodyBytes caps JSON and multipart bodies. Zero means 64 MiB.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

type Router struct {
	analysis *appanalysis.Service
	history  history.Store
	sessions *session.Manager
	metrics  *middleware.Metrics
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 20
	}
	r := &Router{
		analysis: opts.Analysis,
		history:  opts.History,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 << 10,
			CheckOrigin:     originChecker(origins),
		},
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.Limiter != nil {
		mux.Use(opts.Limiter.Middleware)
	}
	mux.Use(middleware.MaxBodyBytes(maxBody))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Post("/transcriptions", r.wrap(r.handleTranscribe))
		rt.Post("/briefs", r.wrap(r.handleBrief))

		rt.Get("/history", r.wrap(r.handleHistoryList))
		rt.Get("/history/{id}", r.wrap(r.handleHistoryGet))
		rt.Delete("/history/{id}", r.wrap(r.handleHistoryDelete))

		rt.Get("/demo/{mode}", r.wrap(r.handleDemo))

		rt.Post("/sessions", r.wrap(r.handleSessionCreate))
		rt.Route("/sessions/{id}", func(st chi.Router) {
			st.Get("/", r.wrap(r.handleSessionGet))
			st.Put("/mode", r.wrap(r.handleSessionMode))
			st.Put("/text", r.wrap(r.handleSessionText))
			st.Post("/media", r.wrap(r.handleSessionMediaAdd))
			st.Delete("/media/{variant}/{mediaID}", r.wrap(r.handleSessionMediaRemove))
			st.Post("/submit", r.wrap(r.handleSessionSubmit))
			st.Post("/transcribe", r.wrap(r.handleSessionTranscribe))
			st.Post("/demo", r.wrap(r.handleSessionDemo))
			st.Post("/history/{historyID}", r.wrap(r.handleSessionLoadHistory))
			st.Get("/watch", r.handleSessionWatch)
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks caller mistakes that carry no sentinel of their own.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

// upstream marks an error returned by the generative service.
type upstream struct{ err error }

func (e upstream) Error() string { return e.err.Error() }
func (e upstream) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= 500 {
				r.logger.Warn("request failed",
					slog.String("path", req.URL.Path),
					slog.Int("status", status),
					slog.Any("err", err),
				)
			}
			writeError(w, status, err)
		}
	}
}

func statusFor(err error) int {
	var br badRequest
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &br),
		errors.Is(err, analysis.ErrEmptyPrimary),
		errors.Is(err, analysis.ErrEmptySecondary),
		errors.Is(err, analysis.ErrUnknownMode),
		errors.Is(err, analysis.ErrInvalidDataURI):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, domai.ErrInvalidResponse):
		return http.StatusBadGateway
	}
	var up upstream
	if errors.As(err, &up) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return invalid("invalid JSON body: %v", err)
	}
	return nil
}

func (r *Router) observe(mode analysis.Mode, err error) {
	if r.metrics != nil {
		r.metrics.ObserveAnalysis(string(mode), err)
	}
}

// POST /v1/analyses
// Body: {"mode": "audit", "input": {"a": "...", "mediaA": [...]}}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Mode  string         `json:"mode"`
		Input analysis.Input `json:"input"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	mode, err := analysis.ParseMode(body.Mode)
	if err != nil {
		return err
	}
	if err := body.Input.Validate(mode); err != nil {
		return err
	}

	res, err := r.analysis.Analyze(req.Context(), mode, body.Input)
	r.observe(mode, err)
	if err != nil {
		return upstream{err}
	}

	resp := struct {
		HistoryID string          `json:"historyId,omitempty"`
		Result    analysis.Result `json:"result"`
	}{Result: res}
	saved, err := r.history.Record(req.Context(), res, body.Input)
	if err != nil {
		r.logger.Warn("history record failed", slog.Any("err", err))
	} else {
		resp.HistoryID = saved.ID
	}
	return writeJSON(w, http.StatusOK, resp)
}

// POST /v1/transcriptions
// Body: {"audio": "data:audio/webm;base64,..."}
func (r *Router) handleTranscribe(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Audio string `json:"audio"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.Audio == "" {
		return invalid("audio is required")
	}
	text, err := r.analysis.Transcribe(req.Context(), body.Audio)
	if err != nil {
		return upstream{err}
	}
	return writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// POST /v1/briefs
// Body: {"text": "..."}
func (r *Router) handleBrief(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	audio, err := r.analysis.SynthesizeBrief(req.Context(), body.Text)
	if err != nil {
		return upstream{err}
	}
	return writeJSON(w, http.StatusOK, map[string]string{"audio": audio})
}

// GET /v1/history
func (r *Router) handleHistoryList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.history.List(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []history.SavedAnalysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/history/{id}
func (r *Router) handleHistoryGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateHistoryID(id); err != nil {
		return badRequest{err}
	}
	entry, err := r.history.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, entry)
}

// DELETE /v1/history/{id}
func (r *Router) handleHistoryDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateHistoryID(id); err != nil {
		return badRequest{err}
	}
	if err := r.history.Remove(req.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/demo/{mode}
func (r *Router) handleDemo(w http.ResponseWriter, req *http.Request) error {
	mode, err := analysis.ParseMode(chi.URLParam(req, "mode"))
	if err != nil {
		return err
	}
	in, err := prompt.Demo(mode)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, in)
}
