// Package middleware provides observability middleware for navigation
// events: Prometheus metrics and OpenTelemetry tracing, configured
// with functional options and attached to the bridge server's session
// loop.
package middleware

import "context"

// Event describes one navigation handled by a session.
type Event struct {
	// Kind is the frame type that produced the event ("hello",
	// "navigate", "popstate").
	Kind string

	// Path is the canonical path navigated to.
	Path string

	// SessionID identifies the session handling the event.
	SessionID string

	// Ctx carries trace context across the middleware chain. Handlers
	// read it back after the chain ran; tracing middleware replaces it
	// with a span-bearing context.
	Ctx context.Context
}

// Middleware processes a navigation event. Implementations call next
// to continue the chain; returning an error without calling next stops
// it.
type Middleware interface {
	Handle(ev *Event, next func() error) error
}

// Func is a function adapter for Middleware.
type Func func(ev *Event, next func() error) error

// Handle implements Middleware.
func (f Func) Handle(ev *Event, next func() error) error {
	return f(ev, next)
}

// Run executes the chain around final, outermost middleware first.
func Run(chain []Middleware, ev *Event, final func() error) error {
	next := final
	for i := len(chain) - 1; i >= 0; i-- {
		mw, inner := chain[i], next
		next = func() error { return mw.Handle(ev, inner) }
	}
	return next()
}
