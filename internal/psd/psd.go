// Package psd implements the PSD frontend (spec.md §4.G): a fixed
// header walk followed by a planar, uncompressed 8-bit RGB sample
// expansion. RLE-compressed data, layers, and non-8-bit depths are
// explicit Non-goals.
package psd

import (
	"encoding/binary"
	"errors"
)

// Errors returned by Decode, grouped per spec.md §7's taxonomy.
var (
	ErrTruncated       = errors.New("psd: truncated input")                          // truncation
	ErrBadSignature    = errors.New("psd: bad 8BPS signature")                       // framing
	ErrBadVersion      = errors.New("psd: unsupported version")                      // framing
	ErrBadChannelCount = errors.New("psd: only 3-channel RGB is supported")          // framing
	ErrBadColorMode    = errors.New("psd: color mode must be RGB")                   // framing
	ErrBadDepth        = errors.New("psd: only 8-bit depth is supported")            // framing
	ErrBadCompression  = errors.New("psd: only raw (uncompressed) data is supported") // framing
	ErrBadDim          = errors.New("psd: zero width or height")                     // framing
)

// Signature is the 4-byte magic every PSD stream begins with.
var Signature = [4]byte{'8', 'B', 'P', 'S'}

// ProbeHeader reads only the fixed header's dimensions, without
// walking the length-prefixed sections or touching pixel data — the
// cheap-probe operation alongside PNG's and JPEG's equivalents.
func ProbeHeader(data []byte) (width, height int, err error) {
	if len(data) < 4 || [4]byte(data[:4]) != Signature {
		return 0, 0, ErrBadSignature
	}
	if len(data) < 4+18 {
		return 0, 0, ErrTruncated
	}
	if binary.BigEndian.Uint16(data[4:6]) != 1 {
		return 0, 0, ErrBadVersion
	}
	h := int(binary.BigEndian.Uint32(data[14:18]))
	w := int(binary.BigEndian.Uint32(data[18:22]))
	if w <= 0 || h <= 0 {
		return 0, 0, ErrBadDim
	}
	return w, h, nil
}

// Decode decodes a PSD stream (including its "8BPS" signature) into an
// RGBA8 pixel buffer, per spec.md §4.G. Only the uncompressed, 8-bit,
// 3-channel RGB path is supported; everything else fails cleanly.
func Decode(data []byte) (pix []byte, width, height int, err error) {
	if len(data) < 4 || [4]byte(data[:4]) != Signature {
		return nil, 0, 0, ErrBadSignature
	}
	pos := 4

	// Fixed header per spec.md §4.G: version(2) + reserved(6) +
	// channels(2) + height(4) + width(4), followed below by depth(2) +
	// color mode(2).
	if pos+18 > len(data) {
		return nil, 0, 0, ErrTruncated
	}
	version := binary.BigEndian.Uint16(data[pos : pos+2])
	if version != 1 {
		return nil, 0, 0, ErrBadVersion
	}
	// 6 reserved bytes at data[pos+2 : pos+8] are skipped.
	channels := int(binary.BigEndian.Uint16(data[pos+8 : pos+10]))
	height = int(binary.BigEndian.Uint32(data[pos+10 : pos+14]))
	width = int(binary.BigEndian.Uint32(data[pos+14 : pos+18]))
	pos += 18

	if pos+4 > len(data) {
		return nil, 0, 0, ErrTruncated
	}
	depth := int(binary.BigEndian.Uint16(data[pos : pos+2]))
	colorMode := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
	pos += 4

	if channels != 3 {
		return nil, 0, 0, ErrBadChannelCount
	}
	if colorMode != 3 {
		return nil, 0, 0, ErrBadColorMode
	}
	if depth != 8 {
		return nil, 0, 0, ErrBadDepth
	}
	if width <= 0 || height <= 0 {
		return nil, 0, 0, ErrBadDim
	}

	// Three length-prefixed sections (color mode data, image resources,
	// layer/mask info) are always present and always skipped.
	for i := 0; i < 3; i++ {
		if pos+4 > len(data) {
			return nil, 0, 0, ErrTruncated
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if n < 0 || pos+n > len(data) {
			return nil, 0, 0, ErrTruncated
		}
		pos += n
	}

	if pos+2 > len(data) {
		return nil, 0, 0, ErrTruncated
	}
	compression := binary.BigEndian.Uint16(data[pos : pos+2])
	pos += 2
	if compression != 0 {
		return nil, 0, 0, ErrBadCompression
	}

	planeSize := width * height
	need := planeSize * 3
	if pos+need > len(data) {
		return nil, 0, 0, ErrTruncated
	}
	planes := data[pos : pos+need]

	out := make([]byte, width*height*4)
	for i := 0; i < planeSize; i++ {
		out[i*4+0] = planes[i]
		out[i*4+1] = planes[planeSize+i]
		out[i*4+2] = planes[2*planeSize+i]
		out[i*4+3] = 255
	}

	return out, width, height, nil
}
