//go:build darwin

package quartz

import (
	"bytes"
	"testing"

	"github.com/captureframe/screencap/internal/backend"
)

// TestRestrideNonAlignedWidth exercises the same open question
// backend.Recrop resolves generically, against a synthetic CGImage-
// shaped buffer: a stride wider than the requested width must not
// leak padding bytes into the tight output.
func TestRestrideNonAlignedWidth(t *testing.T) {
	const strideWidth, width, height = 40, 33, 3
	src := make([]byte, strideWidth*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < strideWidth; x++ {
			off := (y*strideWidth + x) * 4
			v := byte(0xEE)
			if x < width {
				v = byte(x)
			}
			src[off], src[off+1], src[off+2], src[off+3] = v, v, v, v
		}
	}

	out := backend.Recrop(src, strideWidth, width, height)
	if len(out) != width*height*4 {
		t.Fatalf("got %d bytes, want %d", len(out), width*height*4)
	}
	for y := 0; y < height; y++ {
		row := out[y*width*4 : (y+1)*width*4]
		if bytes.Contains(row, []byte{0xEE}) {
			t.Fatalf("row %d retained stride padding: %v", y, row)
		}
	}
}

func TestBlitCompositesTwoDisplays(t *testing.T) {
	left := makeSolidShot(t, 0, 0, 2, 2, 10)
	right := makeSolidShot(t, 2, 0, 2, 2, 20)

	dst := make([]byte, 4*2*4)
	blit(dst, 4, 2, 0, 0, left)
	blit(dst, 4, 2, 0, 0, right)

	if dst[0] != 10 || dst[2*4] != 20 {
		t.Fatalf("composited buffer did not place both displays at their offsets: %v", dst)
	}
}
