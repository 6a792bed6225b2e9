package psd

import (
	"encoding/binary"
	"testing"
)

// build assembles a minimal uncompressed 3-channel 8-bit RGB PSD
// stream for a w x h image whose planar channel bytes are given in
// channel order (R plane, then G plane, then B plane).
func build(w, h int, rPlane, gPlane, bPlane []byte) []byte {
	var b []byte
	b = append(b, Signature[:]...)

	hdr := make([]byte, 18)
	binary.BigEndian.PutUint16(hdr[0:2], 1) // version
	binary.BigEndian.PutUint16(hdr[8:10], 3) // channels
	binary.BigEndian.PutUint32(hdr[10:14], uint32(h))
	binary.BigEndian.PutUint32(hdr[14:18], uint32(w))
	b = append(b, hdr...)

	depthMode := make([]byte, 4)
	binary.BigEndian.PutUint16(depthMode[0:2], 8) // depth
	binary.BigEndian.PutUint16(depthMode[2:4], 3) // color mode RGB
	b = append(b, depthMode...)

	// Three empty length-prefixed sections.
	for i := 0; i < 3; i++ {
		b = append(b, 0, 0, 0, 0)
	}

	b = append(b, 0, 0) // compression = raw
	b = append(b, rPlane...)
	b = append(b, gPlane...)
	b = append(b, bPlane...)
	return b
}

func TestDecodeUncompressedRGB(t *testing.T) {
	data := build(2, 1,
		[]byte{255, 0},
		[]byte{0, 255},
		[]byte{0, 0},
	)
	pix, w, h, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 2 || h != 1 {
		t.Fatalf("got %dx%d, want 2x1", w, h)
	}
	want := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	for i := range want {
		if pix[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, pix[i], want[i])
		}
	}
}

// TestProbeHeader checks that ProbeHeader returns the declared
// dimensions from only the fixed header, without the length-prefixed
// sections or pixel planes being present at all.
func TestProbeHeader(t *testing.T) {
	full := build(5, 3, make([]byte, 15), make([]byte, 15), make([]byte, 15))
	w, h, err := ProbeHeader(full[:4+18])
	if err != nil {
		t.Fatalf("ProbeHeader: %v", err)
	}
	if w != 5 || h != 3 {
		t.Fatalf("ProbeHeader = %dx%d, want 5x3", w, h)
	}
}

func TestProbeHeaderBadSignature(t *testing.T) {
	if _, _, err := ProbeHeader([]byte("NOPE")); err != ErrBadSignature {
		t.Fatalf("ProbeHeader: err = %v, want ErrBadSignature", err)
	}
}

func TestProbeHeaderTruncated(t *testing.T) {
	if _, _, err := ProbeHeader(Signature[:]); err != ErrTruncated {
		t.Fatalf("ProbeHeader: err = %v, want ErrTruncated", err)
	}
}

func TestDecodeBadSignature(t *testing.T) {
	_, _, _, err := Decode([]byte("NOPE"))
	if err != ErrBadSignature {
		t.Fatalf("got %v, want ErrBadSignature", err)
	}
}

func TestDecodeRejectsCompressed(t *testing.T) {
	data := build(1, 1, []byte{1}, []byte{2}, []byte{3})
	// Flip the compression field (last byte before plane data, at a
	// fixed known offset: 4 sig + 18 header + 4 depth/mode + 12 section
	// lengths + 1 = the second compression byte).
	data[4+18+4+12+1] = 1
	if _, _, _, err := Decode(data); err != ErrBadCompression {
		t.Fatalf("got %v, want ErrBadCompression", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := build(4, 4, make([]byte, 16), make([]byte, 16), make([]byte, 16))
	_, _, _, err := Decode(data[:len(data)-5])
	if err == nil {
		t.Fatal("expected failure on truncated plane data")
	}
}
