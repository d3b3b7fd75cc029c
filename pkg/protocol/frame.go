// Package protocol defines the wire frames of the history sync
// bridge. Frames are small JSON text messages; the only payload is a
// path, so a binary codec would buy nothing here.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FrameType discriminates sync frames.
type FrameType string

const (
	// FrameHello is sent by the client once after connecting and
	// carries the browser's current path.
	FrameHello FrameType = "hello"

	// FrameNavigate is sent by the client to request navigation to a
	// path (link click, programmatic navigation).
	FrameNavigate FrameType = "navigate"

	// FramePopState is sent by the client after the browser moved
	// through its history (back/forward buttons).
	FramePopState FrameType = "popstate"

	// FramePush instructs the client to push a new history entry.
	FramePush FrameType = "push"

	// FrameReplace instructs the client to replace the current entry.
	FrameReplace FrameType = "replace"

	// FrameBack instructs the client to go back one entry.
	FrameBack FrameType = "back"

	// FrameForward instructs the client to go forward one entry.
	FrameForward FrameType = "forward"
)

// MaxPathLength bounds the path field of a frame. Longer paths are
// rejected before any further processing.
const MaxPathLength = 2048

// Frame is one sync message in either direction.
type Frame struct {
	Type FrameType `json:"t"`
	Path string    `json:"path,omitempty"`
}

// Frame errors.
var (
	ErrUnknownFrameType = errors.New("unknown frame type")
	ErrMissingPath      = errors.New("frame requires a path")
	ErrPathTooLong      = fmt.Errorf("path exceeds %d bytes", MaxPathLength)
)

// Validate checks the frame's type and path against the protocol
// rules. Back and forward frames carry no path; all other frames
// require one.
func (f Frame) Validate() error {
	switch f.Type {
	case FrameHello, FrameNavigate, FramePopState, FramePush, FrameReplace:
		if f.Path == "" {
			return fmt.Errorf("%w: %s", ErrMissingPath, f.Type)
		}
	case FrameBack, FrameForward:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrameType, f.Type)
	}
	if len(f.Path) > MaxPathLength {
		return ErrPathTooLong
	}
	return nil
}

// Encode serializes a frame after validating it.
func Encode(f Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(f)
}

// Decode parses and validates a frame.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("malformed frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}
