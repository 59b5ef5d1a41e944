//go:build linux

// Package xlib is the legacy Xlib capture backend, resolved
// dynamically against libX11.so via ebitengine/purego instead of cgo,
// using the same lazy-proc-lookup idiom used for Windows DLLs but
// extended to a Unix shared object.
package xlib

import (
	"fmt"
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
	"github.com/captureframe/screencap/pixel"
)

// proc table, resolved once per process the first time Open is called,
// mirroring tools/windows.go's package-level var-of-proc-lookups shape.
var (
	libHandle uintptr
	loadOnce  sync.Once
	loadErr   error

	xOpenDisplay     func(name string) uintptr
	xCloseDisplay    func(display uintptr) int32
	xDefaultScreen   func(display uintptr) int32
	xRootWindow      func(display uintptr, screen int32) uintptr
	xDisplayWidth    func(display uintptr, screen int32) int32
	xDisplayHeight   func(display uintptr, screen int32) int32
	xGetImage        func(display, drawable uintptr, x, y int32, width, height uint32, planeMask uint64, format int32) uintptr
	xDestroyImage    func(image uintptr)
	xSetErrorHandler func(handler uintptr) uintptr
	xFree            func(ptr uintptr)
)

const (
	zPixmap          = 2
	allPlanes uint64 = 0xffffffffffffffff
)

func loadLibrary() {
	libHandle, loadErr = purego.Dlopen("libX11.so.6", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if loadErr != nil {
		return
	}
	purego.RegisterLibFunc(&xOpenDisplay, libHandle, "XOpenDisplay")
	purego.RegisterLibFunc(&xCloseDisplay, libHandle, "XCloseDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, libHandle, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, libHandle, "XRootWindow")
	purego.RegisterLibFunc(&xDisplayWidth, libHandle, "XDisplayWidth")
	purego.RegisterLibFunc(&xDisplayHeight, libHandle, "XDisplayHeight")
	purego.RegisterLibFunc(&xGetImage, libHandle, "XGetImage")
	purego.RegisterLibFunc(&xDestroyImage, libHandle, "XDestroyImage")
	purego.RegisterLibFunc(&xSetErrorHandler, libHandle, "XSetErrorHandler")
	purego.RegisterLibFunc(&xFree, libHandle, "XFree")
}

// Backend is the legacy Xlib capture backend: a single display
// connection, queried fresh each Monitors call since Xlib exposes no
// hot-plug notification this backend subscribes to.
type Backend struct {
	display uintptr
	screen  int32
	log     *zap.SugaredLogger
	cursor  bool
	closed  bool
}

var _ backend.Backend = (*Backend)(nil)

// Open connects to displayName (or $DISPLAY when empty) via XOpenDisplay.
func Open(displayName string, withCursor bool, log *zap.SugaredLogger) (*Backend, error) {
	loadOnce.Do(loadLibrary)
	if loadErr != nil {
		return nil, backend.DisplayUnavailable("purego.Dlopen(libX11.so.6)", loadErr)
	}

	if displayName == "" {
		displayName = os.Getenv("DISPLAY")
	}
	display := xOpenDisplay(displayName)
	if display == 0 {
		return nil, backend.DisplayUnavailable("XOpenDisplay", fmt.Errorf("XOpenDisplay(%q) returned NULL", displayName))
	}
	acquireErrorHandler()

	cursor := false
	if withCursor {
		if cursorAvailable(display) {
			cursor = true
		} else {
			log.Debugw("xlib: with_cursor requested but the XFixes extension is unavailable, ignoring")
		}
	}

	screen := xDefaultScreen(display)
	log.Infow("xlib: backend opened", "display", displayName, "screen", screen, "with_cursor", cursor)
	return &Backend{display: display, screen: screen, log: log, cursor: cursor}, nil
}

func (b *Backend) Monitors() ([]geom.Monitor, error) {
	if b.closed {
		return nil, backend.SessionClosed()
	}
	width := xDisplayWidth(b.display, b.screen)
	height := xDisplayHeight(b.display, b.screen)
	physical := []geom.Monitor{{Left: 0, Top: 0, Width: uint32(width), Height: uint32(height)}}
	return geom.WithVirtual(physical), nil
}

func (b *Backend) Grab(region geom.Monitor) (pixel.Screenshot, error) {
	if b.closed {
		return pixel.Screenshot{}, backend.SessionClosed()
	}
	if err := backend.ValidateRegion(region); err != nil {
		return pixel.Screenshot{}, err
	}

	root := xRootWindow(b.display, b.screen)
	img := xGetImage(
		b.display, root,
		region.Left, region.Top,
		region.Width, region.Height,
		allPlanes, zPixmap,
	)
	if rec, ok := takeLastXError(); ok {
		return pixel.Screenshot{}, xErrorToBackendError(rec, "XGetImage")
	}
	if img == 0 {
		return pixel.Screenshot{}, backend.NativeCallFailed("XGetImage", fmt.Errorf("XGetImage returned NULL for %s", region))
	}
	defer xDestroyImage(img)

	raw := bgraFromXImageStruct(img, int(region.Width), int(region.Height))
	if b.cursor {
		compositeCursor(b.display, raw, int(region.Width), int(region.Height), region.Left, region.Top)
	}
	return pixel.New(raw, region.Left, region.Top, int(region.Width), int(region.Height)), nil
}

func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	releaseErrorHandler()
	xCloseDisplay(b.display)
	return nil
}
