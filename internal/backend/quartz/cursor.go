//go:build darwin

package quartz

import (
	"sync"
	"unsafe"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
)

const (
	cfNumberSInt32Type   = 3
	cfNumberSInt64Type   = 4
	cfStringEncodingUTF8 = 0x08000100

	cgWindowListOptionOnScreenOnly    = 1 << 0
	cgWindowListOptionIncludingWindow = 1 << 3
	cgNullWindowID                    = 0
	cgWindowImageDefault              = 0

	// cgCursorWindowLevelKey is kCGCursorWindowLevelKey's ordinal in
	// Apple's CGWindowLevelKey enum (CGWindowLevel.h), used with
	// CGWindowLevelForKey to resolve the window level WindowServer
	// assigns to the system cursor overlay window.
	cgCursorWindowLevelKey = 19
)

var (
	cursorKeysOnce  sync.Once
	keyWindowLayer  uintptr
	keyWindowNumber uintptr
)

func cursorWindowKeys() {
	keyWindowLayer = cfStringCreateWithCString(0, "kCGWindowLayer", cfStringEncodingUTF8)
	keyWindowNumber = cfStringCreateWithCString(0, "kCGWindowNumber", cfStringEncodingUTF8)
}

// findCursorWindowID locates the WindowServer-owned window that renders
// the system cursor, by matching each on-screen window's layer against
// the level CGWindowLevelForKey reports for the cursor key. There is no
// CoreGraphics call that hands back the cursor's own bitmap directly;
// this is the same window-enumeration technique used by older
// screen-capture utilities that predate ScreenCaptureKit.
func findCursorWindowID() (uint32, bool) {
	cursorLevel := cgWindowLevelForKey(cgCursorWindowLevelKey)

	list := cgWindowListCopyWindowInfo(cgWindowListOptionOnScreenOnly, cgNullWindowID)
	if list == 0 {
		return 0, false
	}
	defer cfRelease(list)

	count := cfArrayGetCount(list)
	for i := int64(0); i < count; i++ {
		dict := cfArrayGetValueAtIndex(list, i)
		if dict == 0 {
			continue
		}
		layerNum := cfDictionaryGetValue(dict, keyWindowLayer)
		if layerNum == 0 {
			continue
		}
		var layer int32
		cfNumberGetValue(layerNum, cfNumberSInt32Type, unsafe.Pointer(&layer))
		if layer != cursorLevel {
			continue
		}
		idNum := cfDictionaryGetValue(dict, keyWindowNumber)
		if idNum == 0 {
			continue
		}
		var id int64
		cfNumberGetValue(idNum, cfNumberSInt64Type, unsafe.Pointer(&id))
		return uint32(id), true
	}
	return 0, false
}

// compositeCursor overlays the system cursor onto raw (a tight BGRA
// buffer for the region region describes) by capturing the
// WindowServer's own cursor-layer window with CGWindowListCreateImage
// and alpha-blending it in, the same way
// internal/backend/xcb/cursor.go and internal/backend/xlib/cursor.go
// composite via XFixes. Any failure is silently ignored: cursor
// compositing is a best-effort extra, not a capture-affecting error.
func compositeCursor(region geom.Monitor, raw []byte, width, height int) {
	cursorKeysOnce.Do(cursorWindowKeys)

	windowID, ok := findCursorWindowID()
	if !ok {
		return
	}

	bounds := cgRect{X: float64(region.Left), Y: float64(region.Top), W: float64(region.Width), H: float64(region.Height)}
	img := cgWindowListCreateImage(bounds, cgWindowListOptionIncludingWindow, windowID, cgWindowImageDefault)
	if img == 0 {
		return
	}
	defer cfRelease(img)

	cw, ch := int(cgImageGetWidth(img)), int(cgImageGetHeight(img))
	if cw == 0 || ch == 0 {
		return
	}
	strideBytes := int(cgImageGetBytesPerRow(img))

	provider := cgImageGetDataProvider(img)
	data := cgDataProviderCopyData(provider)
	if data == 0 {
		return
	}
	defer cfRelease(data)

	ptr := cfDataGetBytePtr(data)
	length := int(cfDataGetLength(data))
	cursorBGRA := bytesFromPointer(ptr, length)

	strideWidth := strideBytes / 4
	cursorBGRA = backend.Recrop(cursorBGRA, strideWidth, cw, ch)

	for y := 0; y < ch && y < height; y++ {
		for x := 0; x < cw && x < width; x++ {
			so := (y*cw + x) * 4
			a := cursorBGRA[so+3]
			if a == 0 {
				continue
			}
			do := (y*width + x) * 4
			if a == 0xff {
				raw[do+0], raw[do+1], raw[do+2] = cursorBGRA[so+0], cursorBGRA[so+1], cursorBGRA[so+2]
				continue
			}
			raw[do+0] = blendChannel(raw[do+0], cursorBGRA[so+0], a)
			raw[do+1] = blendChannel(raw[do+1], cursorBGRA[so+1], a)
			raw[do+2] = blendChannel(raw[do+2], cursorBGRA[so+2], a)
		}
	}
}

func blendChannel(dst, src, alpha byte) byte {
	return byte((int(src)*int(alpha) + int(dst)*(255-int(alpha))) / 255)
}
