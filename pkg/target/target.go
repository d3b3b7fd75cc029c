// Package target defines the contract between an application's typed
// route values and the URL paths they map to.
package target

import "strings"

// Target is implemented by application route types. A target knows how
// to render itself as a sequence of URL path segments. Parsing the
// opposite direction is supplied separately via a Parser, so route
// types stay plain values.
type Target interface {
	// RenderPath renders the target as path segments, without
	// separators or escaping. The segments are joined with "/" and
	// prefixed with "/" verbatim when building a URL path.
	RenderPath() []string
}

// Route is the constraint for router type parameters. Route types must
// be comparable so the router can gate updates on target equality.
type Route interface {
	comparable
	Target
}

// Parser parses path segments into a typed target. The second return
// value reports whether the segments matched; an unmatched path is a
// valid, silent state, not an error.
type Parser[T any] func(segments []string) (T, bool)

// Split breaks a URL path into the segments handed to a Parser. The
// empty segment produced by the leading slash is dropped. No other
// normalization happens here: trailing slashes, duplicate slashes and
// encoding are the application contract's business.
func Split(path string) []string {
	segments := strings.Split(path, "/")
	if len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}
	return segments
}

// Path renders a target to its URL path: segments joined with "/" and
// a single leading slash.
func Path(t Target) string {
	return "/" + strings.Join(t.RenderPath(), "/")
}
