package router

import (
	"github.com/vango-dev/traverse/pkg/scope"
	"github.com/vango-dev/traverse/pkg/target"
)

// NavScope carries only the upward navigation callback. It is
// published separately from Context so components that merely navigate
// do not depend on the active target.
type NavScope[T target.Route] struct {
	upwards func(T)
}

// Go requests navigation to the given target.
func (s *NavScope[T]) Go(t T) {
	s.upwards(t)
}

// Context is the router state published to the mounted subtree: the
// active target, if any, plus a navigation handle. It is a value;
// copies share the one NavScope behind them.
type Context[T target.Route] struct {
	scope  *NavScope[T]
	active T
	ok     bool
}

// Go requests navigation to the given target. Navigation is
// fire-and-forget: the active target updates when the resulting
// location change arrives.
func (c Context[T]) Go(t T) {
	c.scope.Go(t)
}

// IsSame reports whether t is exactly the active target. It is always
// false when no target is active.
func (c Context[T]) IsSame(t T) bool {
	return c.ok && c.active == t
}

// IsActive reports whether t should be considered active. For now this
// is identical to IsSame; hierarchical matching, where a parent target
// counts as active while a child target is shown, is not implemented.
func (c Context[T]) IsActive(t T) bool {
	return c.IsSame(t)
}

// Active returns the active target. ok is false when the current
// location did not parse and no default was configured.
func (c Context[T]) Active() (T, bool) {
	return c.active, c.ok
}

// From returns the Context published by the nearest ancestor router of
// node. ok is false when no ancestor router exists.
func From[T target.Route](node *scope.Node) (Context[T], bool) {
	return scope.Lookup[Context[T]](node)
}

// ScopeFrom returns the navigation-only scope published by the nearest
// ancestor router of node.
func ScopeFrom[T target.Route](node *scope.Node) (*NavScope[T], bool) {
	return scope.Lookup[*NavScope[T]](node)
}
