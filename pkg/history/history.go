// Package history abstracts the location source the router listens to:
// a current location, mutation operations, and a change subscription.
package history

import "strings"

// Location is a point-in-time snapshot of the current URL path. It is
// a plain value; the router never mutates it.
type Location struct {
	// Path is the URL path, beginning with "/".
	Path string

	// Query is the raw query string without the leading "?". Empty
	// when the location has no query.
	Query string
}

// Listener is a scoped subscription to location changes. Closing it
// stops future callbacks. Close is idempotent.
type Listener interface {
	Close()
}

// History is the location source consumed by the router. Push, Replace,
// Back and Forward all notify registered listeners after the location
// changed, so navigation always completes through the listener path.
type History interface {
	// Location returns the current location.
	Location() Location

	// Push adds a new entry to the history and makes it current.
	Push(path string)

	// Replace swaps the current entry in place.
	Replace(path string)

	// Back moves one entry back, if possible.
	Back()

	// Forward moves one entry forward, if possible.
	Forward()

	// Listen registers fn to run after every location change.
	Listen(fn func()) Listener
}

// ParseLocation splits a raw path into a Location, separating the
// query string. An empty path becomes the root location.
func ParseLocation(raw string) Location {
	if raw == "" {
		raw = "/"
	}
	path, query, _ := strings.Cut(raw, "?")
	return Location{Path: path, Query: query}
}
