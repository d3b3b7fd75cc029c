package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/traverse/pkg/assets"
	"github.com/vango-dev/traverse/pkg/middleware"
)

// Config configures the bridge server.
type Config struct {
	// Address is the listen address (default "localhost:4000").
	Address string

	// WSPath is the WebSocket endpoint path (default "/_traverse/ws").
	WSPath string

	// MetricsPath exposes the Prometheus handler when non-empty
	// (default "": disabled).
	MetricsPath string

	// ShellDocument is the document served for application paths
	// (default "index.html").
	ShellDocument string

	// Source provides shell assets. When nil, shell serving is
	// disabled and unmatched paths return 404.
	Source assets.Source

	// Resolver maps requested asset names to the fingerprinted names
	// the build step produced. Defaults to a passthrough resolver for
	// unfingerprinted builds.
	Resolver assets.Resolver

	// Middleware runs around every client navigation event.
	Middleware []middleware.Middleware

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin overrides the upgrader's origin check. When nil the
	// upgrader applies its same-origin default.
	CheckOrigin func(*http.Request) bool

	// DispatchBuffer is the per-session event queue capacity
	// (default 64).
	DispatchBuffer int

	// ReadHeaderTimeout bounds header reads on the HTTP server
	// (default 10s).
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// Logger is the server logger (default slog.Default()).
	Logger *slog.Logger
}

// DefaultConfig returns a Config with all defaults filled in.
func DefaultConfig() *Config {
	c := &Config{}
	c.fillDefaults()
	return c
}

func (c *Config) fillDefaults() {
	if c.Address == "" {
		c.Address = "localhost:4000"
	}
	if c.WSPath == "" {
		c.WSPath = "/_traverse/ws"
	}
	if c.ShellDocument == "" {
		c.ShellDocument = "index.html"
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 4096
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = 4096
	}
	if c.DispatchBuffer == 0 {
		c.DispatchBuffer = 64
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Resolver == nil {
		c.Resolver = assets.NewPassthroughResolver("")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
