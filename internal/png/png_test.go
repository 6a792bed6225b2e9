package png

import (
	"encoding/binary"
	"testing"
)

// zlibStored wraps raw in a single zlib-framed DEFLATE stored block
// (BFINAL=1, BTYPE=0), matching the "Hello" scenario's own framing.
func zlibStored(raw []byte) []byte {
	n := len(raw)
	nlen := ^uint16(n)
	buf := []byte{0x78, 0x01, 0x01, byte(n), byte(n >> 8), byte(nlen), byte(nlen >> 8)}
	return append(buf, raw...)
}

// chunk builds one length-prefixed PNG chunk. The trailing CRC is left
// zeroed: every test here decodes with the default Options{Strict:
// false}, which does not verify it.
func chunk(typ string, payload []byte) []byte {
	var b []byte
	lenBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBytes, uint32(len(payload)))
	b = append(b, lenBytes...)
	b = append(b, []byte(typ)...)
	b = append(b, payload...)
	b = append(b, 0, 0, 0, 0)
	return b
}

func ihdrPayload(w, h, depth, colorType, interlace int) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], uint32(w))
	binary.BigEndian.PutUint32(b[4:8], uint32(h))
	b[8] = byte(depth)
	b[9] = byte(colorType)
	b[10] = 0 // compression
	b[11] = 0 // filter
	b[12] = byte(interlace)
	return b
}

func buildPNG(ihdr, plte, trns, idat []byte) []byte {
	var b []byte
	b = append(b, Signature[:]...)
	b = append(b, chunk("IHDR", ihdr)...)
	if plte != nil {
		b = append(b, chunk("PLTE", plte)...)
	}
	if trns != nil {
		b = append(b, chunk("tRNS", trns)...)
	}
	b = append(b, chunk("IDAT", idat)...)
	b = append(b, chunk("IEND", nil)...)
	return b
}

func pixelAt(pix []byte, w, x, y int) [4]byte {
	i := (y*w + x) * 4
	return [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

// TestDecodeRGB8 covers a 2x2 truecolor, depth-8, non-interlaced image
// with no filtering applied to either scanline.
func TestDecodeRGB8(t *testing.T) {
	raw := []byte{
		filterNone, 255, 0, 0, 0, 255, 0,
		filterNone, 0, 0, 255, 255, 255, 0,
	}
	ihdr := ihdrPayload(2, 2, 8, ColorRGB, 0)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	pix, w, h, err := Decode(png, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 2 || h != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", w, h)
	}
	want := [][4]byte{
		{255, 0, 0, 255}, {0, 255, 0, 255},
		{0, 0, 255, 255}, {255, 255, 0, 255},
	}
	got := []([4]byte){
		pixelAt(pix, 2, 0, 0), pixelAt(pix, 2, 1, 0),
		pixelAt(pix, 2, 0, 1), pixelAt(pix, 2, 1, 1),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestDecodeGrayAlpha16 covers a 1x1 gray+alpha, depth-16 image,
// checking that 16-bit samples are rescaled to 8 bits by truncation.
func TestDecodeGrayAlpha16(t *testing.T) {
	raw := []byte{filterNone, 0x12, 0x34, 0xFF, 0xFF}
	ihdr := ihdrPayload(1, 1, 16, ColorGrayA, 0)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	pix, w, h, err := Decode(png, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 1 || h != 1 {
		t.Fatalf("dims = %dx%d, want 1x1", w, h)
	}
	want := [4]byte{0x12, 0x12, 0x12, 0xFF}
	if got := pixelAt(pix, 1, 0, 0); got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
}

// TestDecodeIndexedTRNS covers a 3x1 palette, depth-2 image with a
// tRNS chunk shorter than the palette (the trailing entry defaults to
// fully opaque).
func TestDecodeIndexedTRNS(t *testing.T) {
	// indices 0,1,2 packed MSB-first into one byte: 00 01 10 00.
	raw := []byte{filterNone, 0x18}
	ihdr := ihdrPayload(3, 1, 2, ColorIndexed, 0)
	plte := []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		255, 255, 0,
	}
	trns := []byte{0, 255, 128} // covers indices 0,1,2; index 3 defaults opaque
	png := buildPNG(ihdr, plte, trns, zlibStored(raw))

	pix, w, h, err := Decode(png, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 3 || h != 1 {
		t.Fatalf("dims = %dx%d, want 3x1", w, h)
	}
	want := [][4]byte{
		{255, 0, 0, 0},
		{0, 255, 0, 255},
		{0, 0, 255, 128},
	}
	for i, wantPx := range want {
		if got := pixelAt(pix, 3, i, 0); got != wantPx {
			t.Fatalf("pixel %d = %v, want %v", i, got, wantPx)
		}
	}
}

// TestDecodeInterlacedSinglePixel exercises the Adam7 loop on the
// degenerate 1x1 case, where only the first pass contributes any data.
func TestDecodeInterlacedSinglePixel(t *testing.T) {
	raw := []byte{filterNone, 10, 20, 30}
	ihdr := ihdrPayload(1, 1, 8, ColorRGB, 1)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	pix, w, h, err := Decode(png, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 1 || h != 1 {
		t.Fatalf("dims = %dx%d, want 1x1", w, h)
	}
	want := [4]byte{10, 20, 30, 255}
	if got := pixelAt(pix, 1, 0, 0); got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
}

// TestDecodeAllFilterTypes covers a 3x8bit-gray x 5-row image with one
// row per filter type (None, Sub, Up, Average, Paeth, in row order),
// the one combination TestDecodeRGB8/TestDecodeGrayAlpha16/
// TestDecodeIndexedTRNS never exercise since they only ever use
// filterNone.
func TestDecodeAllFilterTypes(t *testing.T) {
	raw := []byte{
		filterNone, 100, 110, 120,
		filterSub, 101, 10, 10,
		filterUp, 1, 1, 1,
		filterAvg, 52, 6, 6,
		filterPaeth, 1, 1, 1,
	}
	ihdr := ihdrPayload(3, 5, 8, ColorGray, 0)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	pix, w, h, err := Decode(png, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 3 || h != 5 {
		t.Fatalf("dims = %dx%d, want 3x5", w, h)
	}

	want := [][]byte{
		{100, 110, 120},
		{101, 111, 121},
		{102, 112, 122},
		{103, 113, 123},
		{104, 114, 124},
	}
	for y, row := range want {
		for x, g := range row {
			gotPx := pixelAt(pix, 3, x, y)
			wantPx := [4]byte{g, g, g, 255}
			if gotPx != wantPx {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, gotPx, wantPx)
			}
		}
	}
}

// TestProbeHeader checks that ProbeHeader returns the declared
// dimensions without requiring any IDAT data at all.
func TestProbeHeader(t *testing.T) {
	ihdr := ihdrPayload(7, 9, 8, ColorRGB, 0)
	var b []byte
	b = append(b, Signature[:]...)
	b = append(b, chunk("IHDR", ihdr)...)
	// No IDAT/IEND: ProbeHeader must not need them.

	w, h, err := ProbeHeader(b)
	if err != nil {
		t.Fatalf("ProbeHeader: %v", err)
	}
	if w != 7 || h != 9 {
		t.Fatalf("ProbeHeader = %dx%d, want 7x9", w, h)
	}
}

func TestProbeHeaderBadSignature(t *testing.T) {
	if _, _, err := ProbeHeader([]byte{0x00, 0x01}); err != ErrBadSignature {
		t.Fatalf("ProbeHeader: err = %v, want ErrBadSignature", err)
	}
}

func TestProbeHeaderTruncated(t *testing.T) {
	if _, _, err := ProbeHeader(Signature[:]); err != ErrTruncated {
		t.Fatalf("ProbeHeader: err = %v, want ErrTruncated", err)
	}
}

func TestDecodeBadSignature(t *testing.T) {
	png := buildPNG(ihdrPayload(1, 1, 8, ColorGray, 0), nil, nil, zlibStored([]byte{filterNone, 0}))
	png[0] = 0x00 // corrupt the leading magic byte
	if _, _, _, err := Decode(png, Options{}); err != ErrBadSignature {
		t.Fatalf("Decode: err = %v, want ErrBadSignature", err)
	}
}

func TestDecodeIndexedWithoutPalette(t *testing.T) {
	raw := []byte{filterNone, 0x18}
	ihdr := ihdrPayload(3, 1, 2, ColorIndexed, 0)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	if _, _, _, err := Decode(png, Options{}); err != ErrNoPalette {
		t.Fatalf("Decode: err = %v, want ErrNoPalette", err)
	}
}

func TestDecodeNonContiguousIDAT(t *testing.T) {
	raw := []byte{filterNone, 255, 0, 0}
	ihdr := ihdrPayload(1, 1, 8, ColorRGB, 0)

	var b []byte
	b = append(b, Signature[:]...)
	b = append(b, chunk("IHDR", ihdr)...)
	stream := zlibStored(raw)
	b = append(b, chunk("IDAT", stream[:4])...)
	b = append(b, chunk("tEXt", []byte("comment"))...)
	b = append(b, chunk("IDAT", stream[4:])...)
	b = append(b, chunk("IEND", nil)...)

	if _, _, _, err := Decode(b, Options{}); err != ErrNonContigIDAT {
		t.Fatalf("Decode: err = %v, want ErrNonContigIDAT", err)
	}
}

// specPaeth is an independent transcription of spec.md §3's predictor
// definition ("p = a+b-c ... return a if pa<=pb and pa<=pc; else b if
// pb<=pc; else c"), kept separate from filter.go's paeth so the test
// below is checking production code against the spec text, not against
// itself.
func specPaeth(a, b, c int) byte {
	p := a + b - c
	pa, pb, pc := p-a, p-b, p-c
	if pa < 0 {
		pa = -pa
	}
	if pb < 0 {
		pb = -pb
	}
	if pc < 0 {
		pc = -pc
	}
	if pa <= pb && pa <= pc {
		return byte(a)
	}
	if pb <= pc {
		return byte(b)
	}
	return byte(c)
}

// TestPaethCube checks filter.go's paeth against specPaeth over the
// full 3^3 cube of small values spec.md §8 calls out, and confirms the
// predictor is not commutative in the b/c (up / up-left) pair: swapping
// which neighbor is "up" and which is "up-left" changes the result.
func TestPaethCube(t *testing.T) {
	for a := 0; a <= 2; a++ {
		for b := 0; b <= 2; b++ {
			for c := 0; c <= 2; c++ {
				got := paeth(a, b, c)
				want := specPaeth(a, b, c)
				if got != want {
					t.Fatalf("paeth(%d,%d,%d) = %d, want %d", a, b, c, got, want)
				}
			}
		}
	}

	if got := paeth(0, 0, 1); got != 0 {
		t.Fatalf("paeth(0,0,1) = %d, want 0", got)
	}
	if got := paeth(0, 1, 0); got != 1 {
		t.Fatalf("paeth(0,1,0) = %d, want 1 (swapping b/c changed the result)", got)
	}
}

func TestDecodeStrictBadCRC(t *testing.T) {
	raw := []byte{filterNone, 255, 0, 0}
	ihdr := ihdrPayload(1, 1, 8, ColorRGB, 0)
	png := buildPNG(ihdr, nil, nil, zlibStored(raw))

	if _, _, _, err := Decode(png, Options{Strict: true}); err != ErrBadCRC {
		t.Fatalf("Decode: err = %v, want ErrBadCRC", err)
	}
}
