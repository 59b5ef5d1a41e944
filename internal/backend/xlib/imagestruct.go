//go:build linux

package xlib

import "unsafe"

// xImage mirrors Xlib's XImage struct layout on amd64 Linux (where C
// `int` is 4 bytes and `unsigned long`/pointers are 8). Only the
// fields needed to read pixel data back out are named; the rest exist
// purely to keep later fields at the right offset.
type xImage struct {
	width, height   int32
	xoffset         int32
	format          int32
	data            uintptr
	byteOrder       uint32
	bitmapUnit      uint32
	bitmapBitOrder  uint32
	bitmapPad       uint32
	depth           int32
	bytesPerLine    int32
	bitsPerPixel    int32
	_               [4]byte // padding before the unsigned long masks
	redMask         uint64
	greenMask       uint64
	blueMask        uint64
}

// bgraFromXImageStruct reads an XImage* (img) produced by a ZPixmap
// XGetImage call and packs it into a tight BGRA buffer. X servers
// report 24/32-bpp ZPixmap data as BGRx on little-endian hosts, so no
// channel reordering is needed beyond forcing the alpha byte opaque.
func bgraFromXImageStruct(img uintptr, width, height int) []byte {
	xi := (*xImage)(unsafe.Pointer(img))
	stride := int(xi.bytesPerLine)
	if stride <= 0 {
		stride = width * 4
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(xi.data)), stride*height)

	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		srcRow := src[y*stride:]
		dstRow := out[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			so, do := x*4, x*4
			if so+3 >= len(srcRow) {
				break
			}
			dstRow[do+0] = srcRow[so+0]
			dstRow[do+1] = srcRow[so+1]
			dstRow[do+2] = srcRow[so+2]
			dstRow[do+3] = 0xff
		}
	}
	return out
}
