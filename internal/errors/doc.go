// Package errors provides structured errors with codes, categories,
// and fix suggestions for terminal display.
//
// Errors carry a registered code ("T001") so users can look them up,
// a category for grouping, and optional detail and suggestion text
// rendered by Format. Wrapped causes stay reachable through
// errors.Is and errors.As.
//
//	err := errors.New("T020").
//	    WithDetail("the config file could not be parsed").
//	    Wrap(cause)
//	errors.PrintError(err)
package errors
