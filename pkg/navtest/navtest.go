package navtest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/traverse/pkg/history"
	"github.com/vango-dev/traverse/pkg/router"
	"github.com/vango-dev/traverse/pkg/scope"
	"github.com/vango-dev/traverse/pkg/target"
)

// Builder allows fluent construction of navigation test harnesses.
type Builder[T target.Route] struct {
	parse target.Parser[T]
	path  string
	opts  []router.Option[T]
}

// New creates a harness builder around the application's route parser.
//
// Example:
//
//	h := navtest.New(parseRoute).WithPath("/users/42").Build()
func New[T target.Route](parse target.Parser[T]) *Builder[T] {
	return &Builder[T]{parse: parse, path: "/"}
}

// WithPath sets the initial location. Defaults to "/".
func (b *Builder[T]) WithPath(path string) *Builder[T] {
	b.path = path
	return b
}

// WithDefault sets the fallback target for unmatched locations.
func (b *Builder[T]) WithDefault(def T) *Builder[T] {
	b.opts = append(b.opts, router.WithDefault(def))
	return b
}

// Build creates the harness: an in-memory history, a router mounted on
// a fresh scope root, and a change counter.
func (b *Builder[T]) Build() *Harness[T] {
	mem := history.NewMemory(b.path)
	root := scope.NewNode(nil)

	opts := append(b.opts, router.WithLogger[T](slog.New(slog.NewTextHandler(io.Discard, nil))))
	r := router.New(mem, b.parse, opts...)
	r.Mount(root)

	h := &Harness[T]{mem: mem, root: root, router: r}
	h.cancel = r.Subscribe(func() { h.changes++ })
	return h
}

// Harness drives a router from both directions: typed targets going
// out and raw paths coming in.
type Harness[T target.Route] struct {
	mem    *history.Memory
	root   *scope.Node
	router *router.Router[T]

	changes int
	cancel  func()
}

// Router returns the router under test.
func (h *Harness[T]) Router() *router.Router[T] {
	return h.router
}

// History returns the harness's in-memory history.
func (h *Harness[T]) History() history.History {
	return h.mem
}

// Root returns the scope root the router is mounted under.
func (h *Harness[T]) Root() *scope.Node {
	return h.root
}

// Active returns the router's current target.
func (h *Harness[T]) Active() (T, bool) {
	return h.router.Active()
}

// Changes returns how many times the active target changed since the
// harness was built.
func (h *Harness[T]) Changes() int {
	return h.changes
}

// Go navigates to a typed target, as application code would.
func (h *Harness[T]) Go(t T) {
	h.router.Go(t)
}

// Navigate pushes a raw path, as a browser-originated navigation would.
func (h *Harness[T]) Navigate(path string) {
	h.mem.Push(path)
}

// Back moves the history back one entry.
func (h *Harness[T]) Back() {
	h.mem.Back()
}

// Forward moves the history forward one entry.
func (h *Harness[T]) Forward() {
	h.mem.Forward()
}

// Close disposes the harness's scope root, releasing the router.
func (h *Harness[T]) Close() {
	h.cancel()
	h.root.Dispose()
}

// ExpectActive asserts that the router's active target equals want.
//
// Example:
//
//	navtest.ExpectActive(t, h, viewUser("42"))
func ExpectActive[T target.Route](t *testing.T, h *Harness[T], want T) {
	t.Helper()
	got, ok := h.Active()
	if !ok {
		t.Errorf("expected active target %+v, got none", want)
		return
	}
	if got != want {
		t.Errorf("active target = %+v, want %+v", got, want)
	}
}

// ExpectNoActive asserts that no target is active.
func ExpectNoActive[T target.Route](t *testing.T, h *Harness[T]) {
	t.Helper()
	if got, ok := h.Active(); ok {
		t.Errorf("expected no active target, got %+v", got)
	}
}

// ExpectPath asserts on the current history path.
//
// Example:
//
//	navtest.ExpectPath(t, h, "/users/42")
func ExpectPath[T target.Route](t *testing.T, h *Harness[T], want string) {
	t.Helper()
	if got := h.mem.Location().Path; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

// ExpectChanges asserts how many target changes the harness observed.
func ExpectChanges[T target.Route](t *testing.T, h *Harness[T], want int) {
	t.Helper()
	if h.changes != want {
		t.Errorf("observed %d target changes, want %d", h.changes, want)
	}
}
