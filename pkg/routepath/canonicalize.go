// Package routepath normalizes URL paths at the module's outer
// surfaces (the bridge server, shell serving). The router core never
// canonicalizes: what a path means is the application contract's
// business, but what the transport accepts is ours.
package routepath

import (
	"errors"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path, without the query string.
	Path string

	// Query is the query string, without the leading "?".
	Query string

	// Changed reports whether canonicalization modified the path.
	// Surfaces that maintain history use this to replace instead of
	// push, avoiding duplicate entries for the same canonical path.
	Changed bool
}

// Canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrEncodedSlashInPath   = errors.New("encoded slash (%2F) in path")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a URL path:
//
//   - ensures a single leading slash
//   - collapses duplicate slashes (/blog//post -> /blog/post)
//   - drops "." segments and resolves ".." segments
//   - removes the trailing slash (except for root "/")
//
// The following inputs are rejected with an error: backslashes, NUL
// bytes (literal or %00), invalid percent escapes, encoded slashes,
// and ".." sequences that would escape the root. The query string is
// split off and preserved untouched.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	// SECURITY: reject platform-dependent separators and NUL early.
	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	upper := strings.ToUpper(path)
	if strings.Contains(path, "\x00") || strings.Contains(upper, "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
		if strings.Contains(upper, "%2F") {
			return CanonicalizeResult{}, ErrEncodedSlashInPath
		}
	}

	original := path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	segments := make([]string, 0, strings.Count(path, "/"))
	for _, seg := range strings.Split(path[1:], "/") {
		switch seg {
		case "", ".":
			// Empty segments collapse duplicate and trailing
			// slashes; dot segments are dropped.
		case "..":
			if len(segments) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	canon := "/" + strings.Join(segments, "/")
	return CanonicalizeResult{
		Path:    canon,
		Query:   query,
		Changed: canon != original,
	}, nil
}

// validatePercentEscapes checks that every "%" begins a two-digit hex
// escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
