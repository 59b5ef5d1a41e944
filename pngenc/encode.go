// Package pngenc is a minimal, dependency-free PNG encoder that turns
// BGRA pixel buffers into PNG byte streams without any external
// imaging dependency. It deliberately stays on the standard library's
// image/color-free primitives (encoding/binary, compress/flate,
// hash/crc32, hash/adler32) rather than reaching for a third-party
// imaging library.
package pngenc

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Encode converts a tightly packed BGRA buffer into a truecolour PNG
// byte stream at the given deflate compression level (0..9). level
// must be in [0,9] or ErrInvalidLevel is returned.
func Encode(bgra []byte, width, height, level int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, bgra, width, height, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo streams the PNG encoding of bgra directly to w, avoiding an
// intermediate buffer for callers writing straight to a file.
func EncodeTo(w io.Writer, bgra []byte, width, height, level int) error {
	if level < flate.NoCompression || level > flate.BestCompression {
		return fmt.Errorf("%w: level %d", ErrInvalidLevel, level)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	want := width * height * 4
	if len(bgra) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d BGRA", ErrInvalidDimensions, len(bgra), want, width, height)
	}

	if _, err := w.Write(pngSignature); err != nil {
		return err
	}
	if err := writeIHDR(w, width, height); err != nil {
		return err
	}
	if err := writeIDAT(w, bgra, width, height, level); err != nil {
		return err
	}
	return writeChunk(w, "IEND", nil)
}

func writeIHDR(w io.Writer, width, height int) error {
	var hdr [13]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(height))
	hdr[8] = 8  // bit depth
	hdr[9] = 2  // colour type: truecolour (RGB)
	hdr[10] = 0 // compression method: deflate
	hdr[11] = 0 // filter method: adaptive (per-scanline filter byte)
	hdr[12] = 0 // interlace method: none
	return writeChunk(w, "IHDR", hdr[:])
}

// writeIDAT builds the filtered-and-deflated scanline stream and
// writes it as a single IDAT chunk. Every row gets filter type 0
// (None); the BGRA → RGB conversion happens in the same sequential
// pass that builds the pre-deflate buffer.
func writeIDAT(w io.Writer, bgra []byte, width, height, level int) error {
	rowBytes := width*3 + 1 // filter byte + RGB triples
	raw := make([]byte, 0, rowBytes*height)

	for y := 0; y < height; y++ {
		raw = append(raw, 0) // filter type None
		rowStart := y * width * 4
		for x := 0; x < width; x++ {
			off := rowStart + x*4
			b := bgra[off+0]
			g := bgra[off+1]
			r := bgra[off+2]
			raw = append(raw, r, g, b)
		}
	}

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, level)
	if err != nil {
		return err
	}
	if _, err := fw.Write(raw); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}

	// PNG wraps deflate streams in zlib framing: a 2-byte header and a
	// 4-byte Adler-32 trailer around the raw deflate payload.
	var idat bytes.Buffer
	idat.Write(zlibHeader(level))
	idat.Write(compressed.Bytes())
	var adlerBuf [4]byte
	binary.BigEndian.PutUint32(adlerBuf[:], adler32.Checksum(raw))
	idat.Write(adlerBuf[:])

	return writeChunk(w, "IDAT", idat.Bytes())
}

// zlibHeader returns the 2-byte zlib stream header for the given
// compression level, matching RFC 1950 §2.2's CMF/FLG layout for a
// 32K deflate window.
func zlibHeader(level int) []byte {
	cmf := byte(0x78) // CM=8 (deflate), CINFO=7 (32K window)
	var flevel byte
	switch {
	case level >= 7:
		flevel = 3
	case level >= 5:
		flevel = 2
	case level >= 1:
		flevel = 1
	default:
		flevel = 0
	}
	flg := flevel << 6
	// FCHECK makes (cmf*256+flg) a multiple of 31, with FDICT left at 0.
	remainder := (int(cmf)*256 + int(flg)) % 31
	if remainder != 0 {
		flg += byte(31 - remainder)
	}
	return []byte{cmf, flg}
}

func writeChunk(w io.Writer, kind string, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	io.WriteString(crc, kind)
	crc.Write(data)

	if _, err := io.WriteString(w, kind); err != nil {
		return err
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	_, err := w.Write(crcBuf[:])
	return err
}
