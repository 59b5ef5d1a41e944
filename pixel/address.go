package pixel

import "unsafe"

// addressOf returns the address of b's first byte, for ArrayInterface.
func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
