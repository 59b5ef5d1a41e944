//go:build linux

package xlib

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	xfixesLoadOnce  sync.Once
	xfixesAvailable bool

	xFixesQueryExtension func(display uintptr, eventBase, errorBase *int32) int32
	xFixesGetCursorImage func(display uintptr) uintptr
)

func loadXfixes() {
	h, err := purego.Dlopen("libXfixes.so.3", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}
	purego.RegisterLibFunc(&xFixesQueryExtension, h, "XFixesQueryExtension")
	purego.RegisterLibFunc(&xFixesGetCursorImage, h, "XFixesGetCursorImage")
	xfixesAvailable = true
}

// cursorAvailable reports whether the XFixes extension is present on
// display, loading libXfixes.so.3 on first use.
func cursorAvailable(display uintptr) bool {
	xfixesLoadOnce.Do(loadXfixes)
	if !xfixesAvailable {
		return false
	}
	var eventBase, errorBase int32
	return xFixesQueryExtension(display, &eventBase, &errorBase) != 0
}

// xfixesCursorImage mirrors XFixesCursorImage from
// X11/extensions/Xfixes.h for XFixes protocol version 2+ (universal on
// modern distributions): six shorts, then an 8-byte-aligned
// cursor_serial/pixels/atom/name tail. pixels is declared "unsigned
// long *" rather than "uint32_t *" for ABI stability, so each pixel
// occupies a full 8-byte slot with the ARGB value in the low 32 bits.
type xfixesCursorImage struct {
	X, Y          int16
	Width, Height uint16
	Xhot, Yhot    uint16
	_pad          uint32
	CursorSerial  uint64
	Pixels        uintptr
	Atom          uint64
	Name          uintptr
}

// compositeCursor overlays the system cursor onto raw (a tight BGRA
// buffer for the width x height region at (left, top)) using
// XFixesGetCursorImage, the same extension internal/backend/xcb reads
// through jezek/xgb's protocol-level binding. Any failure here is
// silently ignored: cursor compositing is a best-effort extra, not a
// capture-affecting error.
func compositeCursor(display uintptr, raw []byte, width, height int, left, top int32) {
	ptr := xFixesGetCursorImage(display)
	if ptr == 0 {
		return
	}
	defer xFree(ptr)

	img := (*xfixesCursorImage)(unsafe.Pointer(ptr))
	cw, ch := int(img.Width), int(img.Height)
	if cw == 0 || ch == 0 || img.Pixels == 0 {
		return
	}
	pixels := unsafe.Slice((*uint64)(unsafe.Pointer(img.Pixels)), cw*ch)

	cx := int32(img.X) - int32(img.Xhot)
	cy := int32(img.Y) - int32(img.Yhot)

	for sy := 0; sy < ch; sy++ {
		dy := int(cy) - int(top) + sy
		if dy < 0 || dy >= height {
			continue
		}
		for sx := 0; sx < cw; sx++ {
			dx := int(cx) - int(left) + sx
			if dx < 0 || dx >= width {
				continue
			}
			argb := uint32(pixels[sy*cw+sx])
			a := byte(argb >> 24)
			if a == 0 {
				continue
			}
			r := byte(argb >> 16)
			g := byte(argb >> 8)
			b := byte(argb)

			off := (dy*width + dx) * 4
			if a == 0xff {
				raw[off+0], raw[off+1], raw[off+2] = b, g, r
				continue
			}
			raw[off+0] = blendChannel(raw[off+0], b, a)
			raw[off+1] = blendChannel(raw[off+1], g, a)
			raw[off+2] = blendChannel(raw[off+2], r, a)
		}
	}
}

func blendChannel(dst, src, alpha byte) byte {
	return byte((int(src)*int(alpha) + int(dst)*(255-int(alpha))) / 255)
}
