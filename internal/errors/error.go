package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRouting  Category = "routing"
	CategoryProtocol Category = "protocol"
	CategoryAssets   Category = "assets"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// TraverseError is a structured error with a code, category, and fix
// suggestion.
type TraverseError struct {
	// Code is a unique error identifier (e.g., "T001").
	Code string

	// Category is the error type (routing, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TraverseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TraverseError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *TraverseError) WithDetail(d string) *TraverseError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TraverseError) WithSuggestion(s string) *TraverseError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *TraverseError) Wrap(err error) *TraverseError {
	e.Wrapped = err
	return e
}

// New creates a TraverseError from a registered error code.
func New(code string) *TraverseError {
	template, ok := registry[code]
	if !ok {
		return &TraverseError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TraverseError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new TraverseError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TraverseError {
	return &TraverseError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TraverseError.
func FromError(err error, code string) *TraverseError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TraverseError); ok {
		return te
	}
	return New(code).Wrap(err)
}
