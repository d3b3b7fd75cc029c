package router

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/traverse/pkg/history"
	"github.com/vango-dev/traverse/pkg/scope"
	"github.com/vango-dev/traverse/pkg/target"
)

// Router owns a history subscription and the currently active target.
// All state transitions happen inside history callbacks and the
// exported mutators; the mutex keeps them safe when the history source
// notifies from another goroutine (the bridge server's session loop).
type Router[T target.Route] struct {
	history history.History
	parse   target.Parser[T]
	logger  *slog.Logger

	mu         sync.Mutex
	def        T
	hasDefault bool
	active     T
	hasActive  bool
	scope      *NavScope[T]
	ctx        Context[T]
	listener   history.Listener
	mounts     []*scope.Node
	subs       map[int]func()
	nextSub    int
	closed     bool
}

// New creates a Router, parses the current location (falling back to
// the configured default when the path does not match) and subscribes
// to the history source.
func New[T target.Route](h history.History, parse target.Parser[T], opts ...Option[T]) *Router[T] {
	r := &Router[T]{
		history: h,
		parse:   parse,
		logger:  slog.Default(),
		subs:    make(map[int]func()),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.scope = &NavScope[T]{upwards: r.Go}
	r.active, r.hasActive = r.derive(h.Location())
	r.ctx = Context[T]{scope: r.scope, active: r.active, ok: r.hasActive}
	r.listener = h.Listen(r.routeChanged)

	return r
}

// derive parses a location into a target, substituting the default
// when the path does not match. Absence of a match is a valid, silent
// state; nothing is logged above debug level.
func (r *Router[T]) derive(loc history.Location) (T, bool) {
	if t, ok := r.parse(target.Split(loc.Path)); ok {
		return t, true
	}
	return r.def, r.hasDefault
}

// routeChanged re-parses the new location. The update is equality
// gated: when the derived target matches the stored one, nothing
// happens and no subscriber is notified.
func (r *Router[T]) routeChanged() {
	loc := r.history.Location()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	t, ok := r.derive(loc)
	if ok == r.hasActive && (!ok || t == r.active) {
		r.mu.Unlock()
		return
	}
	r.active, r.hasActive = t, ok
	r.syncContextLocked()
	subs := r.subsLocked()
	r.mu.Unlock()

	r.logger.Debug("active target changed", "path", loc.Path, "matched", ok)
	for _, fn := range subs {
		fn()
	}
}

// Go renders the target to a path and pushes it onto the history.
// Navigation is fire-and-forget; the stored target updates through the
// history listener on the resulting change event.
func (r *Router[T]) Go(t T) {
	path := target.Path(t)
	r.logger.Debug("pushing history entry", "path", path)
	r.history.Push(path)
}

// SetDefault installs a new fallback target and republishes the
// contexts. The stored active target is not re-derived; the new
// default applies from the next location change on. Subscribers are
// always notified.
func (r *Router[T]) SetDefault(def T) {
	r.mu.Lock()
	r.def = def
	r.hasDefault = true
	r.syncContextLocked()
	subs := r.subsLocked()
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Active returns the currently active target, if any.
func (r *Router[T]) Active() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.hasActive
}

// Context returns the current router context value.
func (r *Router[T]) Context() Context[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}

// Mount publishes the router's contexts on a new child node of parent
// and returns that node. The NavScope is provided first, then the
// Context, layering the two the way nested providers would. Disposing
// the returned node unmounts; when the last mount goes away the router
// closes its history subscription.
func (r *Router[T]) Mount(parent *scope.Node) *scope.Node {
	node := scope.NewNode(parent)

	r.mu.Lock()
	scope.Provide(node, r.scope)
	scope.Provide(node, r.ctx)
	r.mounts = append(r.mounts, node)
	r.mu.Unlock()

	node.OnCleanup(func() { r.unmount(node) })
	return node
}

// Subscribe registers fn to run after every published state change.
// The returned function cancels the subscription.
func (r *Router[T]) Subscribe(fn func()) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Close releases the history subscription. Idempotent.
func (r *Router[T]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	l := r.listener
	r.mu.Unlock()

	if l != nil {
		l.Close()
	}
}

// syncContextLocked rebuilds the context value and republishes it on
// every mounted node. Callers must hold r.mu.
func (r *Router[T]) syncContextLocked() {
	r.ctx = Context[T]{scope: r.scope, active: r.active, ok: r.hasActive}
	for _, node := range r.mounts {
		scope.Provide(node, r.ctx)
	}
}

func (r *Router[T]) subsLocked() []func() {
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	return fns
}

func (r *Router[T]) unmount(node *scope.Node) {
	r.mu.Lock()
	for i, n := range r.mounts {
		if n == node {
			r.mounts = append(r.mounts[:i], r.mounts[i+1:]...)
			break
		}
	}
	last := len(r.mounts) == 0
	r.mu.Unlock()

	if last {
		r.Close()
	}
}
