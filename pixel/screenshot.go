// Package pixel holds the immutable Screenshot value object and its
// on-demand projections (RGB reordering, per-pixel access, and the
// numeric-array interop descriptor).
package pixel

import (
	"fmt"

	"github.com/captureframe/screencap/geom"
)

// Screenshot is an immutable capture result: a BGRA pixel buffer plus
// the geometry it was captured from. Every projection below is
// computed on demand from raw; none are cached, since caching would
// let callers retain references beyond the buffer's validity window
// and mss-family libraries explicitly avoid that surprise.
type Screenshot struct {
	raw    []byte // BGRA, row-major, width*4 bytes per row, no padding
	pos    geom.Monitor
	width  int
	height int
}

// New builds a Screenshot from a tight BGRA buffer. It panics if raw's
// length doesn't match width*height*4; every backend is expected to
// enforce that invariant before constructing one of these, so callers
// outside this module should treat a bad buffer as a programmer error,
// not a recoverable one.
func New(raw []byte, left, top int32, width, height int) Screenshot {
	want := width * height * 4
	if len(raw) != want {
		panic(fmt.Sprintf("pixel: raw buffer is %d bytes, want %d (%dx%d)", len(raw), want, width, height))
	}
	return Screenshot{
		raw:    raw,
		pos:    geom.Monitor{Left: left, Top: top, Width: uint32(width), Height: uint32(height)},
		width:  width,
		height: height,
	}
}

// Pos returns the (left, top) origin the capture was taken from.
func (s Screenshot) Pos() (left, top int32) { return s.pos.Left, s.pos.Top }

// Size returns the (width, height) of the captured area.
func (s Screenshot) Size() (width, height int) { return s.width, s.height }

// BGRA returns the raw buffer in its native blue-green-red-alpha byte
// order. The returned slice aliases the Screenshot's internal storage;
// callers must not mutate it.
func (s Screenshot) BGRA() []byte { return s.raw }

// RGB re-orders the pixels to R,G,B,R,G,B,… (3 bytes per pixel,
// dropping alpha). It is computed fresh on every call.
func (s Screenshot) RGB() []byte {
	out := make([]byte, s.width*s.height*3)
	BGRAToRGB(s.raw, out)
	return out
}

// BGRAToRGB converts a tightly packed BGRA buffer into a tightly
// packed RGB buffer in a single sequential pass. dst must be exactly
// 3/4 the length of src.
func BGRAToRGB(src, dst []byte) {
	n := len(src) / 4
	for i := 0; i < n; i++ {
		b := src[i*4+0]
		g := src[i*4+1]
		r := src[i*4+2]
		dst[i*3+0] = r
		dst[i*3+1] = g
		dst[i*3+2] = b
	}
}

// Pixel returns the (r, g, b) triple at image coordinate (x, y). It
// panics on out-of-range coordinates rather than wrapping every
// accessor in an error return.
func (s Screenshot) Pixel(x, y int) (r, g, b byte) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		panic(fmt.Sprintf("pixel: coordinate (%d,%d) out of bounds for %dx%d screenshot", x, y, s.width, s.height))
	}
	off := (y*s.width + x) * 4
	return s.raw[off+2], s.raw[off+1], s.raw[off+0]
}

// RGBTriple is a single (r, g, b) pixel, used by Pixels' row-grouped
// output.
type RGBTriple struct{ R, G, B byte }

// Pixels returns the screenshot as a sequence of rows, each row a
// sequence of (r, g, b) triples.
func (s Screenshot) Pixels() [][]RGBTriple {
	rows := make([][]RGBTriple, s.height)
	for y := 0; y < s.height; y++ {
		row := make([]RGBTriple, s.width)
		base := y * s.width * 4
		for x := 0; x < s.width; x++ {
			off := base + x*4
			row[x] = RGBTriple{R: s.raw[off+2], G: s.raw[off+1], B: s.raw[off+0]}
		}
		rows[y] = row
	}
	return rows
}

// ArrayInterface is the zero-copy descriptor compatible with the
// de-facto __array_interface__ protocol of the scientific-computing
// ecosystem. Address is the first byte of the BGRA buffer; ReadOnly is
// always true since mutating through this pointer from outside Go
// would violate Go's memory model.
type ArrayInterface struct {
	Shape    [3]int
	Typestr  string
	Address  uintptr
	ReadOnly bool
	Version  int
}

// ArrayInterface returns s's numeric-array descriptor. The caller must
// keep s alive for as long as Address is dereferenced, since Go's
// garbage collector is free to move or reclaim raw once no live
// reference to the Screenshot remains.
func (s Screenshot) ArrayInterface() ArrayInterface {
	var addr uintptr
	if len(s.raw) > 0 {
		addr = addressOf(s.raw)
	}
	return ArrayInterface{
		Shape:    [3]int{s.height, s.width, 4},
		Typestr:  "|u1",
		Address:  addr,
		ReadOnly: true,
		Version:  3,
	}
}
