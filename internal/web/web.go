// Package web exposes the HTTP API: schedule views, edit commits and the
// assistant panel flows.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"daydesk/internal/agenda"
	"daydesk/internal/assistant"
	"daydesk/internal/config"
	appLog "daydesk/internal/log"
	"daydesk/internal/schedule"
	"daydesk/internal/store"
)

// viewCacheTTL bounds how long a computed schedule view is reused. The
// layout itself is cheap; the TTL mainly absorbs bursts of identical UI
// polls between snapshot refreshes.
const viewCacheTTL = 30 * time.Second

// Server wires the agenda service and assistant into HTTP handlers.
type Server struct {
	cfg     *config.Config
	agenda  *agenda.Service
	ai      *assistant.Service
	mux     *http.ServeMux

	viewMu    sync.RWMutex
	viewCache map[string]*cachedView
}

type cachedView struct {
	resp      scheduleResponse
	updatedAt time.Time
}

// NewServer constructs the server; ai may be nil when no backend is
// configured.
func NewServer(cfg *config.Config, svc *agenda.Service, ai *assistant.Service) *Server {
	s := &Server{
		cfg:       cfg,
		agenda:    svc,
		ai:        ai,
		mux:       http.NewServeMux(),
		viewCache: make(map[string]*cachedView),
	}
	s.registerRoutes()
	return s
}

// Handler returns the routing handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware protects all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="daydesk", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/items/event", s.handleEventCommit)
	s.mux.HandleFunc("/api/items/task", s.handleTaskCommit)
	s.mux.HandleFunc("/api/assistant/briefing", s.handleBriefing)
	s.mux.HandleFunc("/api/assistant/chat", s.handleChat)
	s.mux.HandleFunc("/api/assistant/translate", s.handleTranslate)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

// writeCommitError maps the error taxonomy onto status codes: stale
// references are 404, unparseable input 400, everything else 500.
func writeCommitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, schedule.ErrParse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	return true
}

func (s *Server) handleEventCommit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var edit agenda.EventEdit
	if err := decodeBody(r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return
	}
	committed, err := s.agenda.CommitEvent(r.Context(), edit)
	if err != nil {
		appLog.Warn("event commit failed", "account", edit.AccountID, "event", edit.EventID, "err", err)
		writeCommitError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, committed)
}

func (s *Server) handleTaskCommit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var edit agenda.TaskEdit
	if err := decodeBody(r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return
	}
	committed, err := s.agenda.CommitTask(r.Context(), edit)
	if err != nil {
		appLog.Warn("task commit failed", "account", edit.AccountID, "task", edit.TaskID, "err", err)
		writeCommitError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, committed)
}

func (s *Server) invalidateViews() {
	s.viewMu.Lock()
	s.viewCache = make(map[string]*cachedView)
	s.viewMu.Unlock()
}
