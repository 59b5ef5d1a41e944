//go:build linux

package xcb

import "testing"

func TestBgraFromXImageForcesOpaqueAlpha(t *testing.T) {
	const width, height = 2, 1
	// ZPixmap data: two BGRx pixels, alpha byte garbage (0x00) as some
	// X servers report it.
	data := []byte{
		1, 2, 3, 0x00,
		4, 5, 6, 0x00,
	}
	out := bgraFromXImage(data, width, height)
	if len(out) != width*height*4 {
		t.Fatalf("len(out) = %d, want %d", len(out), width*height*4)
	}
	if out[3] != 0xff || out[7] != 0xff {
		t.Fatalf("alpha bytes not forced opaque: %v", out)
	}
	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("first pixel channels wrong: %v", out[:4])
	}
}

func TestBgraFromXImageHandlesWiderStride(t *testing.T) {
	const width, height = 1, 2
	stride := 3 * 4 // server padded each row to 3 pixels
	data := make([]byte, stride*height)
	data[0], data[1], data[2] = 9, 8, 7
	data[stride+0], data[stride+1], data[stride+2] = 1, 2, 3

	out := bgraFromXImage(data, width, height)
	if out[0] != 9 || out[1] != 8 || out[2] != 7 {
		t.Fatalf("row 0 wrong: %v", out[:4])
	}
	if out[4] != 1 || out[5] != 2 || out[6] != 3 {
		t.Fatalf("row 1 wrong: %v", out[4:8])
	}
}
