package pngenc

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"
)

func TestEncodeInvalidLevel(t *testing.T) {
	if _, err := Encode(make([]byte, 4), 1, 1, 10); err == nil {
		t.Fatal("expected error for level 10")
	}
}

func TestEncodeInvalidDimensions(t *testing.T) {
	if _, err := Encode(make([]byte, 4), 0, 1, 6); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := Encode(make([]byte, 3), 1, 1, 6); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

// TestEncodeRoundTrip checks a 2x1 BGRA buffer (blue, green) decodes
// to RGB [0,0,255, 0,255,0].
func TestEncodeRoundTrip(t *testing.T) {
	bgra := []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}
	for level := 0; level <= 9; level++ {
		data, err := Encode(bgra, 2, 1, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("level %d: decode: %v", level, err)
		}
		b := img.Bounds()
		if b.Dx() != 2 || b.Dy() != 1 {
			t.Fatalf("level %d: unexpected bounds %v", level, b)
		}
		r0, g0, b0, _ := img.At(0, 0).RGBA()
		if r0>>8 != 0 || g0>>8 != 0 || b0>>8 != 0xFF {
			t.Fatalf("level %d: pixel 0 = (%d,%d,%d), want (0,0,255)", level, r0>>8, g0>>8, b0>>8)
		}
		r1, g1, b1, _ := img.At(1, 0).RGBA()
		if r1>>8 != 0 || g1>>8 != 0xFF || b1>>8 != 0 {
			t.Fatalf("level %d: pixel 1 = (%d,%d,%d), want (0,255,0)", level, r1>>8, g1>>8, b1>>8)
		}
	}
}

func TestEncodeRoundTripRandom(t *testing.T) {
	const w, h = 37, 23 // width not a multiple of 16, exercises row-boundary math
	rng := rand.New(rand.NewSource(1))
	bgra := make([]byte, w*h*4)
	rng.Read(bgra)
	// force alpha fully opaque, as in a real capture; the RGB encoder
	// drops alpha, so it does not affect the decoded pixels
	for i := 3; i < len(bgra); i += 4 {
		bgra[i] = 0xFF
	}

	data, err := Encode(bgra, w, h, 6)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			wantR, wantG, wantB := bgra[off+2], bgra[off+1], bgra[off+0]
			r, g, b, _ := img.At(x, y).RGBA()
			if byte(r>>8) != wantR || byte(g>>8) != wantG || byte(b>>8) != wantB {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d) want (%d,%d,%d)", x, y, r>>8, g>>8, b>>8, wantR, wantG, wantB)
			}
		}
	}
}

func TestEncodeFile(t *testing.T) {
	bgra := make([]byte, 4*4*4)
	path := t.TempDir() + "/out.png"
	if err := EncodeFile(path, bgra, 4, 4, 6); err != nil {
		t.Fatal(err)
	}
}
