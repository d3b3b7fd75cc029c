package server

import (
	"log/slog"

	"github.com/vango-dev/traverse/pkg/history"
	"github.com/vango-dev/traverse/pkg/middleware"
	"github.com/vango-dev/traverse/pkg/protocol"
)

// Mirror is the server-side view of one browser's history. It
// implements history.History over an in-process stack: server-side
// mutations move the stack and emit a frame so the browser follows;
// client frames move the stack without echoing.
type Mirror struct {
	mem    *history.Memory
	send   func(protocol.Frame) error
	logger *slog.Logger
}

func newMirror(initial string, send func(protocol.Frame) error, logger *slog.Logger) *Mirror {
	return &Mirror{
		mem:    history.NewMemory(initial),
		send:   send,
		logger: logger,
	}
}

// Location returns the mirrored current location.
func (m *Mirror) Location() history.Location {
	return m.mem.Location()
}

// Listen registers fn to run after every location change, client or
// server originated.
func (m *Mirror) Listen(fn func()) history.Listener {
	return m.mem.Listen(fn)
}

// Push adds an entry and instructs the browser to push it.
func (m *Mirror) Push(path string) {
	m.mem.Push(path)
	m.emit(protocol.Frame{Type: protocol.FramePush, Path: path})
}

// Replace swaps the current entry and instructs the browser to
// replace its own.
func (m *Mirror) Replace(path string) {
	m.mem.Replace(path)
	m.emit(protocol.Frame{Type: protocol.FrameReplace, Path: path})
}

// Back moves the mirror back and instructs the browser to go back. At
// the oldest entry nothing moves and no frame is sent, so the browser
// never receives a traversal it cannot honor.
func (m *Mirror) Back() {
	i := m.mem.Index()
	m.mem.Back()
	if m.mem.Index() == i {
		return
	}
	m.emit(protocol.Frame{Type: protocol.FrameBack})
}

// Forward is the counterpart of Back.
func (m *Mirror) Forward() {
	i := m.mem.Index()
	m.mem.Forward()
	if m.mem.Index() == i {
		return
	}
	m.emit(protocol.Frame{Type: protocol.FrameForward})
}

// seed sets the current location from the client's hello without
// echoing a frame. Listeners are notified.
func (m *Mirror) seed(path string) {
	m.mem.Replace(path)
}

// syncRemote follows a traversal the browser already performed
// (popstate) without echoing a frame. The mirror moves its index to
// the matching stack entry rather than pushing, so back and forward
// keep mirror and browser aligned entry for entry.
func (m *Mirror) syncRemote(path string) {
	m.mem.TraverseTo(path)
}

func (m *Mirror) emit(f protocol.Frame) {
	if err := m.send(f); err != nil {
		m.logger.Warn("failed to send sync frame", "type", f.Type, "error", err)
		middleware.RecordWebSocketError("write")
	}
}
