package screencap

import (
	"errors"
	"fmt"

	"github.com/captureframe/screencap/internal/backend"
)

// Kind enumerates the taxonomy of conditions a ScreenCaptureError can
// carry.
type Kind string

const (
	// KindInvalidArgument covers a bad compression level, a zero-sized
	// region, or an unknown monitor index. Caller's fault; surfaced
	// immediately.
	KindInvalidArgument Kind = "invalid-argument"

	// KindDisplayUnavailable covers failure to open an X display or no
	// active display on macOS. Terminal for the session.
	KindDisplayUnavailable Kind = "display-unavailable"

	// KindUnsupportedDepth covers a non-32-bpp X server. Terminal.
	KindUnsupportedDepth Kind = "unsupported-depth"

	// KindNativeCallFailed covers any OS call reporting failure;
	// Details carries the OS error code and call name. The session may
	// remain usable for other monitors.
	KindNativeCallFailed Kind = "native-call-failed"

	// KindSHMUnavailable covers a failed MIT-SHM probe on Linux.
	// Non-fatal; the backend falls back to XGetImage.
	KindSHMUnavailable Kind = "shm-unavailable"

	// KindEncoderError covers a deflate error or I/O write failure
	// specific to one save operation.
	KindEncoderError Kind = "encoder-error"

	// KindSessionClosed covers a call made after Close.
	KindSessionClosed Kind = "session-closed"
)

// ScreenCaptureError is the single structured error type every public
// operation in this module returns on failure. It carries a Kind, a
// human-readable Message, and an optional Details map (e.g. an X error
// serial or a GDI GetLastError code).
type ScreenCaptureError struct {
	Kind    Kind
	Message string
	Details map[string]any

	// Terminal marks a session as unusable for further captures: a
	// failed-and-closed backend cannot produce further screenshots.
	Terminal bool

	// wrapped is the underlying native/library error, if any. It is
	// not part of the public struct literal surface so callers build
	// ScreenCaptureError values through the constructors below, but it
	// is still reachable via Unwrap.
	wrapped error
}

func (e *ScreenCaptureError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped native error so callers can use
// errors.Is/errors.As against it.
func (e *ScreenCaptureError) Unwrap() error { return e.wrapped }

// New builds a ScreenCaptureError of the given kind and message.
func New(kind Kind, message string) *ScreenCaptureError {
	return &ScreenCaptureError{Kind: kind, Message: message}
}

// Wrap builds a ScreenCaptureError that wraps an underlying error,
// typically from a native call or the deflate encoder.
func Wrap(kind Kind, message string, err error) *ScreenCaptureError {
	return &ScreenCaptureError{Kind: kind, Message: message, wrapped: err}
}

// WithDetails attaches structured detail fields (OS error code, call
// name, X error serial, …) and returns e for chaining.
func (e *ScreenCaptureError) WithDetails(details map[string]any) *ScreenCaptureError {
	e.Details = details
	return e
}

// WithTerminal marks e as terminal for the owning session and returns
// e for chaining.
func (e *ScreenCaptureError) WithTerminal() *ScreenCaptureError {
	e.Terminal = true
	return e
}

// IsTerminal reports whether err (when it is, or wraps, a
// ScreenCaptureError) marks its session as no longer usable.
func IsTerminal(err error) bool {
	var sce *ScreenCaptureError
	if errors.As(err, &sce) {
		return sce.Terminal
	}
	return false
}

// backendKindToKind maps internal/backend's Kind vocabulary onto the
// public one 1:1. The two are kept as separate types only to avoid the
// import cycle backend -> screencap -> backend.
var backendKindToKind = map[backend.Kind]Kind{
	backend.KindInvalidArgument:    KindInvalidArgument,
	backend.KindDisplayUnavailable: KindDisplayUnavailable,
	backend.KindUnsupportedDepth:   KindUnsupportedDepth,
	backend.KindNativeCallFailed:   KindNativeCallFailed,
	backend.KindSHMUnavailable:     KindSHMUnavailable,
	backend.KindSessionClosed:      KindSessionClosed,
}

// convertErr translates a *backend.Error into a *ScreenCaptureError so
// every error a Session returns satisfies the public error taxonomy.
// Errors that are already a *ScreenCaptureError, or that are nil, pass
// through unchanged.
func convertErr(err error) error {
	if err == nil {
		return nil
	}
	var sce *ScreenCaptureError
	if errors.As(err, &sce) {
		return err
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		return err
	}
	kind, ok := backendKindToKind[be.Kind]
	if !ok {
		kind = KindNativeCallFailed
	}
	out := &ScreenCaptureError{
		Kind:     kind,
		Message:  be.Message,
		Details:  be.Details,
		Terminal: be.Terminal,
		wrapped:  be.Unwrap(),
	}
	return out
}
