package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/traverse/pkg/assets"
	"github.com/vango-dev/traverse/pkg/protocol"
	"github.com/vango-dev/traverse/pkg/router"
)

func shellDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>shell</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('app')"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestServer(t *testing.T, mount MountFunc) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Source = assets.NewDirSource(shellDir(t))
	cfg.Logger = discardLogger()
	return New(cfg, mount)
}

func TestShellFallback(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"application path gets shell", "/users/42", http.StatusOK, "<html>shell</html>"},
		{"root gets shell", "/", http.StatusOK, "<html>shell</html>"},
		{"existing asset served", "/app.js", http.StatusOK, "console.log('app')"},
		{"missing asset falls back to shell", "/missing.css", http.StatusOK, "<html>shell</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestShellFingerprintResolution(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"shell.f00d.html": "<html>fingerprinted shell</html>",
		"app.a1b2c3.js":   "console.log('fingerprinted')",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	manifestJSON := `{"index.html": "shell.f00d.html", "app.js": "app.a1b2c3.js"}`
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifestJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := assets.LoadManifest(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Source = assets.NewDirSource(dir)
	cfg.Resolver = assets.NewResolver(m, "")
	cfg.Logger = discardLogger()
	h := New(cfg, nil).Handler()

	// The browser asks for the source names; the resolver maps them to
	// the published files.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "console.log('fingerprinted')" {
		t.Errorf("asset = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "<html>fingerprinted shell</html>" {
		t.Errorf("shell = %d %q", rec.Code, rec.Body.String())
	}
}


func TestShellCanonicalRedirect(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users//42/?tab=posts", nil))
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("code = %d, want %d", rec.Code, http.StatusPermanentRedirect)
	}
	if loc := rec.Header().Get("Location"); loc != "/users/42?tab=posts" {
		t.Errorf("location = %q", loc)
	}
}

func TestShellRejectsBadPaths(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = `/a\b`
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestNoSourceDisablesShell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logger = discardLogger()
	h := New(cfg, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

// bridgeRoute is the application route space for the end-to-end test.
type bridgeRoute struct {
	name string
	id   string
}

func (r bridgeRoute) RenderPath() []string {
	switch r.name {
	case "users":
		return []string{"users"}
	case "user":
		return []string{"users", r.id}
	default:
		return nil
	}
}

func parseBridgeRoute(segments []string) (bridgeRoute, bool) {
	switch {
	case len(segments) == 1 && segments[0] == "":
		return bridgeRoute{name: "home"}, true
	case len(segments) == 1 && segments[0] == "users":
		return bridgeRoute{name: "users"}, true
	case len(segments) == 2 && segments[0] == "users":
		return bridgeRoute{name: "user", id: segments[1]}, true
	}
	return bridgeRoute{}, false
}

func readFrame(t *testing.T, conn *websocket.Conn) protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	f, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	return f
}

func writeFrame(t *testing.T, conn *websocket.Conn, f protocol.Frame) {
	t.Helper()
	data, err := protocol.Encode(f)
	if err != nil {
		t.Fatalf("encoding frame: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("writing frame: %v", err)
	}
}

func TestBridgeEndToEnd(t *testing.T) {
	routers := make(chan *router.Router[bridgeRoute], 1)

	srv := newTestServer(t, func(sess *Session) func() {
		r := router.New(sess.History(), parseBridgeRoute,
			router.WithDefault(bridgeRoute{name: "home"}),
			router.WithLogger[bridgeRoute](discardLogger()))
		r.Mount(sess.Root())
		routers <- r
		return nil
	})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + srv.config.WSPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()

	r := <-routers

	// The browser announces where it is; the mirror follows silently.
	writeFrame(t, conn, protocol.Frame{Type: protocol.FrameHello, Path: "/users/42"})

	// A navigation round-trips as a push instruction.
	writeFrame(t, conn, protocol.Frame{Type: protocol.FrameNavigate, Path: "/users/7"})
	if f := readFrame(t, conn); f.Type != protocol.FramePush || f.Path != "/users/7" {
		t.Fatalf("frame = %+v, want push /users/7", f)
	}

	// The push frame is emitted after the router saw the change, so
	// the state is settled by now.
	if got, ok := r.Active(); !ok || got != (bridgeRoute{name: "user", id: "7"}) {
		t.Errorf("active = %+v, %v", got, ok)
	}

	// Non-canonical navigation comes back as replace with the
	// canonical path.
	writeFrame(t, conn, protocol.Frame{Type: protocol.FrameNavigate, Path: "/users//9/"})
	if f := readFrame(t, conn); f.Type != protocol.FrameReplace || f.Path != "/users/9" {
		t.Fatalf("frame = %+v, want replace /users/9", f)
	}

	// Server-originated navigation reaches the browser as a push.
	r.Go(bridgeRoute{name: "users"})
	if f := readFrame(t, conn); f.Type != protocol.FramePush || f.Path != "/users" {
		t.Fatalf("frame = %+v, want push /users", f)
	}
	if got, _ := r.Active(); got != (bridgeRoute{name: "users"}) {
		t.Errorf("active = %+v", got)
	}
}

func TestSessionCount(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + srv.config.WSPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}

	waitFor(t, func() bool { return srv.SessionCount() == 1 })
	conn.Close()
	waitFor(t, func() bool { return srv.SessionCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
