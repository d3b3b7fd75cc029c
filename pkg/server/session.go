package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/traverse/pkg/history"
	"github.com/vango-dev/traverse/pkg/middleware"
	"github.com/vango-dev/traverse/pkg/protocol"
	"github.com/vango-dev/traverse/pkg/routepath"
	"github.com/vango-dev/traverse/pkg/scope"
)

// Session is one connected browser. All navigation state transitions
// run on the session's event loop; the read loop only decodes frames
// and dispatches them there.
type Session struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	chain  []middleware.Middleware

	hist *Mirror
	root *scope.Node

	dispatch chan func()
	done     chan struct{}
	closing  sync.Once

	writeMu sync.Mutex

	// cleanup is the application's unmount hook, set by the server
	// after the mount callback ran.
	cleanup func()
}

func newSession(id string, conn *websocket.Conn, cfg *Config) *Session {
	s := &Session{
		id:       id,
		conn:     conn,
		logger:   cfg.Logger.With("session", id),
		chain:    cfg.Middleware,
		root:     scope.NewNode(nil),
		dispatch: make(chan func(), cfg.DispatchBuffer),
		done:     make(chan struct{}),
	}
	s.hist = newMirror("/", s.writeFrame, s.logger)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns the session's history mirror. Applications mount
// their router on it.
func (s *Session) History() history.History {
	return s.hist
}

// Root returns the session's scope root. Routers mount their contexts
// under it; it is disposed when the session ends.
func (s *Session) Root() *scope.Node {
	return s.root
}

// Dispatch queues fn on the session's event loop. Safe to call from
// any goroutine; after the session closed it is a no-op.
func (s *Session) Dispatch(fn func()) {
	select {
	case s.dispatch <- fn:
	case <-s.done:
	}
}

// Close tears the session down. Idempotent and safe from any
// goroutine.
func (s *Session) Close() {
	s.closing.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// run drives the session until the connection drops or Close is
// called. It owns all state transitions: frames read by readLoop are
// executed here, one at a time.
func (s *Session) run() {
	go s.readLoop()

	for {
		select {
		case fn := <-s.dispatch:
			fn()
		case <-s.done:
			if s.cleanup != nil {
				s.cleanup()
			}
			s.root.Dispose()
			return
		}
	}
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}

		frame, err := protocol.Decode(data)
		if err != nil {
			s.logger.Warn("dropping malformed frame", "error", err)
			middleware.RecordWebSocketError("decode")
			continue
		}

		s.Dispatch(func() { s.handleFrame(frame) })
	}
}

// handleFrame processes one client frame on the event loop.
func (s *Session) handleFrame(f protocol.Frame) {
	switch f.Type {
	case protocol.FrameHello, protocol.FrameNavigate, protocol.FramePopState:
	default:
		// Server-to-client frame types are a protocol violation from
		// the client side.
		s.logger.Warn("unexpected client frame", "type", f.Type)
		middleware.RecordWebSocketError("protocol")
		return
	}

	canon, err := routepath.CanonicalizePath(f.Path)
	if err != nil {
		s.logger.Warn("rejecting path", "path", f.Path, "error", err)
		middleware.RecordWebSocketError("path")
		return
	}
	full := canon.Path
	if canon.Query != "" {
		full += "?" + canon.Query
	}

	ev := &middleware.Event{
		Kind:      string(f.Type),
		Path:      canon.Path,
		SessionID: s.id,
		Ctx:       context.Background(),
	}
	err = middleware.Run(s.chain, ev, func() error {
		switch f.Type {
		case protocol.FrameHello:
			s.hist.seed(full)
		case protocol.FrameNavigate:
			if canon.Changed {
				// The canonical path differs from what the client
				// asked for; replace to avoid a duplicate entry.
				s.hist.Replace(full)
			} else {
				s.hist.Push(full)
			}
		case protocol.FramePopState:
			s.hist.syncRemote(full)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("navigation middleware failed", "kind", f.Type, "path", canon.Path, "error", err)
	}
}

// writeFrame serializes and sends one frame. Serialized by writeMu so
// the mirror can emit from the event loop while pings or shutdown
// writes happen elsewhere.
func (s *Session) writeFrame(f protocol.Frame) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
