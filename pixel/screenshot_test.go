package pixel

import "testing"

func bgraBuf(pixels ...[4]byte) []byte {
	out := make([]byte, 0, len(pixels)*4)
	for _, p := range pixels {
		out = append(out, p[0], p[1], p[2], p[3])
	}
	return out
}

func TestNewRawLength(t *testing.T) {
	raw := bgraBuf([4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8})
	s := New(raw, 10, 20, 2, 1)
	w, h := s.Size()
	if w != 2 || h != 1 {
		t.Fatalf("unexpected size %d x %d", w, h)
	}
	if len(s.BGRA()) != 4*w*h {
		t.Fatalf("raw length %d != 4*w*h", len(s.BGRA()))
	}
	left, top := s.Pos()
	if left != 10 || top != 20 {
		t.Fatalf("unexpected pos (%d,%d)", left, top)
	}
}

func TestNewPanicsOnBadLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched buffer length")
		}
	}()
	New(make([]byte, 3), 0, 0, 2, 2)
}

func TestBGRAToRGBConversion(t *testing.T) {
	// blue pixel, then green pixel, BGRA order
	raw := bgraBuf([4]byte{0xFF, 0x00, 0x00, 0xFF}, [4]byte{0x00, 0xFF, 0x00, 0xFF})
	s := New(raw, 0, 0, 2, 1)
	rgb := s.RGB()
	want := []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	if len(rgb) != len(want) {
		t.Fatalf("rgb length %d, want %d", len(rgb), len(want))
	}
	for i := range want {
		if rgb[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, rgb[i], want[i])
		}
	}
}

func TestPixelAccessor(t *testing.T) {
	raw := bgraBuf([4]byte{10, 20, 30, 255}, [4]byte{40, 50, 60, 255})
	s := New(raw, 0, 0, 2, 1)
	r, g, b := s.Pixel(1, 0)
	if r != 60 || g != 50 || b != 40 {
		t.Fatalf("unexpected pixel (%d,%d,%d)", r, g, b)
	}
}

func TestPixelsRowGrouping(t *testing.T) {
	raw := bgraBuf(
		[4]byte{1, 2, 3, 255}, [4]byte{4, 5, 6, 255},
		[4]byte{7, 8, 9, 255}, [4]byte{10, 11, 12, 255},
	)
	s := New(raw, 0, 0, 2, 2)
	rows := s.Pixels()
	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("unexpected shape %d x %d", len(rows), len(rows[0]))
	}
	if rows[1][0] != (RGBTriple{R: 9, G: 8, B: 7}) {
		t.Fatalf("unexpected triple %v", rows[1][0])
	}
}

func TestArrayInterfaceShape(t *testing.T) {
	raw := bgraBuf([4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8})
	s := New(raw, 0, 0, 2, 1)
	ai := s.ArrayInterface()
	if ai.Shape != [3]int{1, 2, 4} {
		t.Fatalf("unexpected shape %v", ai.Shape)
	}
	if ai.Typestr != "|u1" || !ai.ReadOnly || ai.Version != 3 {
		t.Fatalf("unexpected descriptor %+v", ai)
	}
	if ai.Address == 0 {
		t.Fatal("expected non-zero address for non-empty buffer")
	}
}
