//go:build darwin

// Package quartz is the macOS capture backend, built on
// CoreGraphics/CoreFoundation symbols resolved dynamically through
// ebitengine/purego rather than cgo, mirroring internal/backend/xlib's
// approach on the other native platform.
package quartz

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
	"github.com/captureframe/screencap/pixel"
)

var (
	cgHandle  uintptr
	cfHandle  uintptr
	loadOnce  sync.Once
	loadErr   error

	cgGetActiveDisplayList    func(maxDisplays uint32, activeDisplays *uint32, displayCount *uint32) int32
	cgDisplayBounds           func(display uint32) cgRect
	cgDisplayCreateImage      func(display uint32) uintptr
	cgImageGetWidth           func(image uintptr) uintptr
	cgImageGetHeight          func(image uintptr) uintptr
	cgImageGetBytesPerRow     func(image uintptr) uintptr
	cgImageGetDataProvider    func(image uintptr) uintptr
	cgDataProviderCopyData    func(provider uintptr) uintptr
	cfDataGetBytePtr          func(data uintptr) uintptr
	cfDataGetLength           func(data uintptr) uintptr
	cfRelease                 func(cfType uintptr)

	cgWindowListCopyWindowInfo func(option uint32, relativeToWindow uint32) uintptr
	cgWindowListCreateImage    func(screenBounds cgRect, listOption uint32, windowID uint32, imageOption uint32) uintptr
	cgWindowLevelForKey        func(key int32) int32
	cfArrayGetCount            func(array uintptr) int64
	cfArrayGetValueAtIndex     func(array uintptr, idx int64) uintptr
	cfDictionaryGetValue       func(dict uintptr, key uintptr) uintptr
	cfNumberGetValue           func(number uintptr, numberType int32, valuePtr unsafe.Pointer) byte
	cfStringCreateWithCString  func(alloc uintptr, cStr string, encoding uint32) uintptr
)

// cgRect mirrors CGRect { CGPoint origin; CGSize size; } of two
// float64 pairs on the 64-bit ABI.
type cgRect struct {
	X, Y, W, H float64
}

func loadLibraries() {
	cgHandle, loadErr = purego.Dlopen(
		"/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics",
		purego.RTLD_NOW|purego.RTLD_GLOBAL,
	)
	if loadErr != nil {
		return
	}
	cfHandle, loadErr = purego.Dlopen(
		"/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation",
		purego.RTLD_NOW|purego.RTLD_GLOBAL,
	)
	if loadErr != nil {
		return
	}

	purego.RegisterLibFunc(&cgGetActiveDisplayList, cgHandle, "CGGetActiveDisplayList")
	purego.RegisterLibFunc(&cgDisplayBounds, cgHandle, "CGDisplayBounds")
	purego.RegisterLibFunc(&cgDisplayCreateImage, cgHandle, "CGDisplayCreateImage")
	purego.RegisterLibFunc(&cgImageGetWidth, cgHandle, "CGImageGetWidth")
	purego.RegisterLibFunc(&cgImageGetHeight, cgHandle, "CGImageGetHeight")
	purego.RegisterLibFunc(&cgImageGetBytesPerRow, cgHandle, "CGImageGetBytesPerRow")
	purego.RegisterLibFunc(&cgImageGetDataProvider, cgHandle, "CGImageGetDataProvider")
	purego.RegisterLibFunc(&cgDataProviderCopyData, cgHandle, "CGDataProviderCopyData")
	purego.RegisterLibFunc(&cfDataGetBytePtr, cfHandle, "CFDataGetBytePtr")
	purego.RegisterLibFunc(&cfDataGetLength, cfHandle, "CFDataGetLength")
	purego.RegisterLibFunc(&cfRelease, cfHandle, "CFRelease")

	purego.RegisterLibFunc(&cgWindowListCopyWindowInfo, cgHandle, "CGWindowListCopyWindowInfo")
	purego.RegisterLibFunc(&cgWindowListCreateImage, cgHandle, "CGWindowListCreateImage")
	purego.RegisterLibFunc(&cgWindowLevelForKey, cgHandle, "CGWindowLevelForKey")
	purego.RegisterLibFunc(&cfArrayGetCount, cfHandle, "CFArrayGetCount")
	purego.RegisterLibFunc(&cfArrayGetValueAtIndex, cfHandle, "CFArrayGetValueAtIndex")
	purego.RegisterLibFunc(&cfDictionaryGetValue, cfHandle, "CFDictionaryGetValue")
	purego.RegisterLibFunc(&cfNumberGetValue, cfHandle, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfStringCreateWithCString, cfHandle, "CFStringCreateWithCString")
}

// Backend captures via CGDisplayCreateImage, one physical display at a
// time; Grab against the virtual monitor (or any rectangle spanning
// more than one display) composites the per-display images itself,
// since CoreGraphics has no single call for an arbitrary cross-display
// rectangle.
type Backend struct {
	displayIDs []uint32
	bounds     []geom.Monitor
	maxDisplays int
	log        *zap.SugaredLogger
	cursor     bool
	closed     bool
}

var _ backend.Backend = (*Backend)(nil)

// Open enumerates up to maxDisplays active displays via
// CGGetActiveDisplayList. displayName is accepted for interface
// symmetry with the Linux backends but unused: macOS has no per-call
// display selector.
func Open(displayName string, withCursor bool, maxDisplays int, log *zap.SugaredLogger) (*Backend, error) {
	loadOnce.Do(loadLibraries)
	if loadErr != nil {
		return nil, backend.DisplayUnavailable("purego.Dlopen(CoreGraphics)", loadErr)
	}
	if maxDisplays <= 0 {
		maxDisplays = 32
	}

	ids := make([]uint32, maxDisplays)
	var count uint32
	if rc := cgGetActiveDisplayList(uint32(maxDisplays), &ids[0], &count); rc != 0 {
		return nil, backend.DisplayUnavailable("CGGetActiveDisplayList", fmt.Errorf("status %d", rc))
	}
	ids = ids[:count]
	if len(ids) == 0 {
		return nil, backend.DisplayUnavailable("CGGetActiveDisplayList", fmt.Errorf("no active displays"))
	}

	bounds := make([]geom.Monitor, len(ids))
	for i, id := range ids {
		r := cgDisplayBounds(id)
		bounds[i] = geom.Monitor{Left: int32(r.X), Top: int32(r.Y), Width: uint32(r.W), Height: uint32(r.H)}
	}

	if withCursor {
		log.Debugw("quartz: cursor compositing enabled via the WindowServer cursor-layer image, since CGDisplayCreateImage excludes the cursor by default")
	}

	log.Infow("quartz: backend opened", "display_count", len(ids), "with_cursor", withCursor)
	return &Backend{displayIDs: ids, bounds: bounds, maxDisplays: maxDisplays, log: log, cursor: withCursor}, nil
}

func (b *Backend) Monitors() ([]geom.Monitor, error) {
	if b.closed {
		return nil, backend.SessionClosed()
	}
	return geom.WithVirtual(b.bounds), nil
}

func (b *Backend) Grab(region geom.Monitor) (pixel.Screenshot, error) {
	if b.closed {
		return pixel.Screenshot{}, backend.SessionClosed()
	}
	if err := backend.ValidateRegion(region); err != nil {
		return pixel.Screenshot{}, err
	}

	var shot pixel.Screenshot
	var err error
	matched := false
	for i, m := range b.bounds {
		if m == region {
			shot, err = b.grabDisplay(b.displayIDs[i], region)
			matched = true
			break
		}
	}
	if !matched {
		shot, err = b.grabComposite(region)
	}
	if err != nil {
		return pixel.Screenshot{}, err
	}
	if b.cursor {
		compositeCursor(region, shot.BGRA(), int(region.Width), int(region.Height))
	}
	return shot, nil
}

// grabDisplay captures exactly one physical display, re-packing a
// non-16-aligned CGImage row stride into a tight buffer via
// backend.Recrop.
func (b *Backend) grabDisplay(id uint32, region geom.Monitor) (pixel.Screenshot, error) {
	img := cgDisplayCreateImage(id)
	if img == 0 {
		return pixel.Screenshot{}, backend.NativeCallFailed("CGDisplayCreateImage", fmt.Errorf("display %d returned NULL image", id))
	}
	defer cfRelease(img)

	width := int(cgImageGetWidth(img))
	height := int(cgImageGetHeight(img))
	strideBytes := int(cgImageGetBytesPerRow(img))

	provider := cgImageGetDataProvider(img)
	data := cgDataProviderCopyData(provider)
	if data == 0 {
		return pixel.Screenshot{}, backend.NativeCallFailed("CGDataProviderCopyData", fmt.Errorf("nil data"))
	}
	defer cfRelease(data)

	ptr := cfDataGetBytePtr(data)
	length := int(cfDataGetLength(data))
	raw := bytesFromPointer(ptr, length)

	strideWidth := strideBytes / 4
	raw = backend.Recrop(raw, strideWidth, width, height)
	return pixel.New(raw, region.Left, region.Top, width, height), nil
}

// grabComposite handles the virtual monitor and any region spanning
// more than one physical display: each covered display is captured
// independently and blitted into the destination buffer at its
// relative offset.
func (b *Backend) grabComposite(region geom.Monitor) (pixel.Screenshot, error) {
	out := make([]byte, int(region.Width)*int(region.Height)*4)
	for i, m := range b.bounds {
		shot, err := b.grabDisplay(b.displayIDs[i], m)
		if err != nil {
			return pixel.Screenshot{}, err
		}
		blit(out, int(region.Width), int(region.Height), region.Left, region.Top, shot)
	}
	return pixel.New(out, region.Left, region.Top, int(region.Width), int(region.Height)), nil
}

func blit(dst []byte, dstWidth, dstHeight int, dstLeft, dstTop int32, src pixel.Screenshot) {
	srcLeft, srcTop := src.Pos()
	srcWidth, srcHeight := src.Size()
	srcBGRA := src.BGRA()
	for y := 0; y < srcHeight; y++ {
		dy := int(srcTop) - int(dstTop) + y
		if dy < 0 || dy >= dstHeight {
			continue
		}
		for x := 0; x < srcWidth; x++ {
			dx := int(srcLeft) - int(dstLeft) + x
			if dx < 0 || dx >= dstWidth {
				continue
			}
			so := (y*srcWidth + x) * 4
			do := (dy*dstWidth + dx) * 4
			dst[do+0] = srcBGRA[so+0]
			dst[do+1] = srcBGRA[so+1]
			dst[do+2] = srcBGRA[so+2]
			dst[do+3] = srcBGRA[so+3]
		}
	}
}

func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return nil
}
