// Package backend declares the contract every platform-specific
// capture implementation satisfies, and the shared helpers backends
// use to enforce the edge-case policies common to all of them.
package backend

import (
	"fmt"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/pixel"
)

// Backend is the capture backend contract. Every platform
// implementation (xcb, xlib, quartz, gdi) satisfies this interface;
// Open (in this package's platform-gated files) picks the right one
// for the host OS and Config.LinuxKind hint.
type Backend interface {
	// Monitors returns the ordered monitor list, virtual monitor first.
	Monitors() ([]geom.Monitor, error)

	// Grab captures region, which may be any rectangle and need not
	// equal a reported monitor.
	Grab(region geom.Monitor) (pixel.Screenshot, error)

	// Close releases every native handle the backend holds. Close is
	// idempotent.
	Close() error
}

// Config carries the subset of screencap.Options each backend needs,
// translated into backend-neutral terms so this package never imports
// the root package (which would create an import cycle, since the
// root package's Open constructs a Backend).
type Config struct {
	Display     string
	MaxDisplays int
	WithCursor  bool
	LinuxKind   string // "" (auto), "xshmgetimage", "xgetimage", "xlib"
}

// ValidateRegion rejects a zero-area capture region. Backends call
// this before touching any native handle.
func ValidateRegion(region geom.Monitor) error {
	if region.Empty() {
		return InvalidArgument(fmt.Sprintf("zero-area region: %dx%d", region.Width, region.Height))
	}
	return nil
}

// Recrop re-packs a BGRA buffer whose rows were produced at
// strideWidth (>= width, e.g. rounded up to an alignment boundary by
// the OS) into a tight width*4-byte-per-row buffer. It is a no-op copy
// when strideWidth == width. Every backend that can receive a
// wider-than-requested stride (Quartz's non-16-aligned rows) funnels
// through this single, independently tested function rather than
// re-deriving the row math per platform.
func Recrop(src []byte, strideWidth, width, height int) []byte {
	if strideWidth == width {
		return src
	}
	out := make([]byte, width*height*4)
	srcRowBytes := strideWidth * 4
	dstRowBytes := width * 4
	for y := 0; y < height; y++ {
		copy(out[y*dstRowBytes:(y+1)*dstRowBytes], src[y*srcRowBytes:y*srcRowBytes+dstRowBytes])
	}
	return out
}
