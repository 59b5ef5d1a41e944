//go:build linux

package xcb

import "unsafe"

// segmentBytes views the n bytes starting at a shared-memory segment's
// attach address as a Go slice. The caller must not retain the slice
// past the segment's detach/removal.
func segmentBytes(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}
