package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/traverse/pkg/assets"
	"github.com/vango-dev/traverse/pkg/middleware"
	"github.com/vango-dev/traverse/pkg/routepath"
)

// MountFunc is called once per session, before the session loop starts
// and before any frame is processed. Applications create their router
// here, mounted on sess.History() and sess.Root(). The returned
// cleanup runs at session teardown; it may be nil.
type MountFunc func(sess *Session) (cleanup func())

// Server is the history sync bridge: shell serving plus one WebSocket
// session per connected browser.
type Server struct {
	config *Config
	mount  MountFunc
	logger *slog.Logger

	upgrader websocket.Upgrader

	httpServer *http.Server

	mu       sync.Mutex
	sessions map[string]*Session
	nextID   atomic.Uint64
}

// New creates a Server. Unset config fields are filled with defaults.
// mount may be nil for deployments where the client routes entirely on
// its own and the server only mirrors.
func New(config *Config, mount MountFunc) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		config.fillDefaults()
	}

	return &Server{
		config: config,
		mount:  mount,
		logger: config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: make(map[string]*Session),
	}
}

// Handler returns the server's HTTP handler: the WebSocket endpoint,
// the optional metrics endpoint, and shell serving for everything
// else.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get(s.config.WSPath, s.handleWebSocket)
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.Handler())
	}
	r.NotFound(s.handleShell)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("bridge server listening", "address", s.config.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(shutdownCtx)
}

// handleWebSocket upgrades the connection and runs the session until
// it ends.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		middleware.RecordWebSocketError("upgrade")
		return
	}

	id := fmt.Sprintf("%08x", s.nextID.Add(1))
	sess := newSession(id, conn, s.config)

	if s.mount != nil {
		sess.cleanup = s.mount(sess)
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	middleware.RecordSessionStart()
	s.logger.Debug("session started", "session", id)

	sess.run()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	middleware.RecordSessionEnd()
	s.logger.Debug("session ended", "session", id)
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// handleShell serves static assets when they exist and falls back to
// the shell document for every other path, so deep links into the
// client-routed application load the shell.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	if s.config.Source == nil {
		http.NotFound(w, r)
		return
	}

	canon, err := routepath.CanonicalizePath(r.URL.Path)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if canon.Changed {
		target := canon.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	// Try a static asset first; only paths with a file extension can
	// be assets, everything else is an application path.
	name := strings.TrimPrefix(canon.Path, "/")
	if path.Ext(name) != "" {
		if s.serveAsset(w, r, name) {
			return
		}
	}

	s.serveShellDocument(w, r)
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name string) bool {
	// Browsers ask for the source name; the build may have published a
	// fingerprinted file under a different one.
	name = s.config.Resolver.Asset(name)

	rc, err := s.config.Source.Open(r.Context(), name)
	if err != nil {
		if !errors.Is(err, assets.ErrNotFound) {
			s.logger.Error("asset read failed", "asset", name, "error", err)
		}
		return false
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("asset write failed", "asset", name, "error", err)
	}
	return true
}

func (s *Server) serveShellDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.config.Resolver.Asset(s.config.ShellDocument)
	rc, err := s.config.Source.Open(r.Context(), doc)
	if err != nil {
		s.logger.Error("shell document unavailable", "document", doc, "error", err)
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	// The shell is served for many paths; never let caches pin it.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("shell write failed", "error", err)
	}
}
