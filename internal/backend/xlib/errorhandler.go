//go:build linux

package xlib

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/captureframe/screencap/internal/backend"
)

// xErrorEvent mirrors Xlib.h's XErrorEvent: a 4-byte type, padded to
// align the following 8-byte Display pointer and XID/serial fields,
// then three single-byte codes.
type xErrorEvent struct {
	Type        int32
	_           int32
	Display     uintptr
	ResourceID  uint64
	Serial      uint64
	ErrorCode   byte
	RequestCode byte
	MinorCode   byte
}

// xErrorRecord is what the trapped XErrorEvent is reduced to for
// callers on the Go side, since the XErrorEvent itself is only valid
// for the duration of the handler call.
type xErrorRecord struct {
	ErrorCode, RequestCode, MinorCode byte
	ResourceID                        uint64
	Serial                            uint64
}

var (
	errHandlerMu     sync.Mutex
	errHandlerRefs   int
	prevErrorHandler uintptr
	errorHandlerPtr  uintptr
	errorHandlerOnce sync.Once
	lastXError       *xErrorRecord
)

// xErrorHandlerTrampoline matches XErrorHandler's C signature
// (int (*)(Display *, XErrorEvent *)) via purego.NewCallback. Xlib
// calls it synchronously on the thread that issued the offending
// request, in place of the default handler, which would otherwise
// print the error and exit(1).
func xErrorHandlerTrampoline(display, eventPtr uintptr) uintptr {
	if eventPtr != 0 {
		ev := (*xErrorEvent)(unsafe.Pointer(eventPtr))
		errHandlerMu.Lock()
		lastXError = &xErrorRecord{
			ErrorCode:   ev.ErrorCode,
			RequestCode: ev.RequestCode,
			MinorCode:   ev.MinorCode,
			ResourceID:  ev.ResourceID,
			Serial:      ev.Serial,
		}
		errHandlerMu.Unlock()
	}
	return 0
}

// takeLastXError returns and clears the most recently trapped X error,
// if any, so each native call site can attribute a trapped error to
// the request that caused it.
func takeLastXError() (*xErrorRecord, bool) {
	errHandlerMu.Lock()
	defer errHandlerMu.Unlock()
	e := lastXError
	lastXError = nil
	return e, e != nil
}

// xErrorToBackendError converts a trapped X error into the structured
// record the rest of the backend contract expects.
func xErrorToBackendError(rec *xErrorRecord, call string) *backend.Error {
	return backend.NativeCallFailed(call, fmt.Errorf(
		"X error %d (request %d.%d) for resource 0x%x", rec.ErrorCode, rec.RequestCode, rec.MinorCode, rec.ResourceID,
	)).WithDetails(map[string]any{
		"call":         call,
		"error_code":   rec.ErrorCode,
		"request_code": rec.RequestCode,
		"minor_code":   rec.MinorCode,
		"resource_id":  rec.ResourceID,
		"serial":       rec.Serial,
	})
}

// acquireErrorHandler installs the trapping handler on the first
// concurrent Open and ref-counts further ones: XSetErrorHandler is
// process-global, so only the first caller installs it and only the
// last Close restores whatever was previously installed.
func acquireErrorHandler() {
	errHandlerMu.Lock()
	defer errHandlerMu.Unlock()
	if errHandlerRefs == 0 {
		errorHandlerOnce.Do(func() {
			errorHandlerPtr = purego.NewCallback(xErrorHandlerTrampoline)
		})
		prevErrorHandler = xSetErrorHandler(errorHandlerPtr)
	}
	errHandlerRefs++
}

func releaseErrorHandler() {
	errHandlerMu.Lock()
	defer errHandlerMu.Unlock()
	errHandlerRefs--
	if errHandlerRefs == 0 {
		xSetErrorHandler(prevErrorHandler)
	}
}
