package backend

import "fmt"

// Kind mirrors screencap.Kind's values without this package importing
// the root package, which would cycle (root imports backend to build
// Sessions). The root facade translates an *Error back into a
// *screencap.ScreenCaptureError at the Session boundary; see
// convertErr in the root package's errors.go.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid-argument"
	KindDisplayUnavailable Kind = "display-unavailable"
	KindUnsupportedDepth   Kind = "unsupported-depth"
	KindNativeCallFailed   Kind = "native-call-failed"
	KindSHMUnavailable     Kind = "shm-unavailable"
	KindSessionClosed      Kind = "session-closed"
)

// Error is the structured error every backend (xcb, xlib, quartz, gdi)
// returns. It carries the same shape as screencap.ScreenCaptureError
// so the root facade can translate losslessly at the package boundary.
type Error struct {
	Kind     Kind
	Message  string
	Details  map[string]any
	Terminal bool
	wrapped  error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// NewError builds an *Error with no wrapped cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an *Error wrapping a native/library cause.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, wrapped: err}
}

// WithDetails attaches structured detail fields and returns e.
func (e *Error) WithDetails(d map[string]any) *Error {
	e.Details = d
	return e
}

// WithTerminal marks e as terminal for the owning session and returns e.
func (e *Error) WithTerminal() *Error {
	e.Terminal = true
	return e
}

// DisplayUnavailable reports a failure to connect to/open the display,
// always terminal since no further capture is possible on this backend.
func DisplayUnavailable(call string, err error) *Error {
	return WrapError(KindDisplayUnavailable, "failed to open display", err).
		WithDetails(map[string]any{"call": call}).WithTerminal()
}

// UnsupportedDepth reports a root window/screen whose pixel depth this
// module does not support.
func UnsupportedDepth(msg string) *Error {
	return NewError(KindUnsupportedDepth, msg).WithTerminal()
}

// NativeCallFailed reports an OS/library call returning failure; the
// session may remain usable for other monitors.
func NativeCallFailed(call string, err error) *Error {
	return WrapError(KindNativeCallFailed, "native call failed", err).
		WithDetails(map[string]any{"call": call})
}

// SHMUnavailable reports a failed MIT-SHM probe or attach. Non-fatal.
func SHMUnavailable(reason string) *Error {
	return NewError(KindSHMUnavailable, reason)
}

// InvalidArgument reports a caller error such as a zero-area region.
func InvalidArgument(msg string) *Error {
	return NewError(KindInvalidArgument, msg)
}

// SessionClosed reports a call made against an already-closed backend.
func SessionClosed() *Error {
	return NewError(KindSessionClosed, "backend is closed").WithTerminal()
}
