package router

import (
	"log/slog"

	"github.com/vango-dev/traverse/pkg/target"
)

// Option configures a Router at construction time.
type Option[T target.Route] func(*Router[T])

// WithDefault sets the fallback target substituted when the current
// location does not parse.
func WithDefault[T target.Route](def T) Option[T] {
	return func(r *Router[T]) {
		r.def = def
		r.hasDefault = true
	}
}

// WithLogger sets the router's logger. Defaults to slog.Default().
func WithLogger[T target.Route](logger *slog.Logger) Option[T] {
	return func(r *Router[T]) {
		r.logger = logger
	}
}
