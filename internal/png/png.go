// Package png implements the PNG frontend (spec.md §4.E): chunk
// parsing, IDAT concatenation, filter reconstruction, Adam7
// deinterlace, and pixel expansion to 8-bit RGBA.
//
// It is deliberately narrow, matching spec.md §1's scope: only
// IHDR/PLTE/tRNS/IDAT/IEND are acted on; every other chunk, including
// the gamma/color-management chunks recognized below, is parsed enough
// to skip correctly and otherwise ignored (no gamma correction, no ICC
// transforms — explicit Non-goals).
package png

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/deepteams/imgdecode/internal/deflate"
)

// Errors returned by Decode, grouped per spec.md §7's taxonomy.
var (
	ErrTruncated     = errors.New("png: truncated input")                  // truncation
	ErrBadSignature  = errors.New("png: bad PNG signature")                // framing
	ErrNoIHDR        = errors.New("png: missing IHDR chunk")               // framing
	ErrBadIHDR       = errors.New("png: malformed or unsupported IHDR")    // framing
	ErrNonContigIDAT = errors.New("png: non-contiguous IDAT chunks")       // framing
	ErrNoIDAT        = errors.New("png: missing IDAT data")                // framing
	ErrNoPalette     = errors.New("png: indexed color type without PLTE") // framing
	ErrBadPalette    = errors.New("png: malformed PLTE chunk")            // table
	ErrBadCRC        = errors.New("png: chunk CRC mismatch")              // framing (Strict mode only)
	ErrBadIndex      = errors.New("png: palette index out of range")      // semantic
)

// Signature is the 8-byte magic every PNG stream begins with.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// ColorType values from IHDR.
const (
	ColorGray    = 0
	ColorRGB     = 2
	ColorIndexed = 3
	ColorGrayA   = 4
	ColorRGBA    = 6
)

// samplesPerPixel maps ColorType to its sample count.
var samplesPerPixel = map[int]int{
	ColorGray: 1, ColorRGB: 3, ColorIndexed: 1, ColorGrayA: 2, ColorRGBA: 4,
}

// Options controls the optional, non-default-path behaviors the
// dispatcher may enable.
type Options struct {
	// Strict, when true, verifies every chunk's trailing CRC32 (IEEE
	// polynomial) and fails the decode on mismatch. Off by default,
	// matching spec.md's baseline ("CRC is not verified").
	Strict bool
}

// header holds the parsed IHDR fields plus derived values.
type header struct {
	width, height int
	depth         int
	colorType     int
	interlace     int
	samples       int
}

// ProbeHeader reads only the IHDR chunk (spec.md §3) and returns the
// image's declared dimensions without running DEFLATE or filter
// reconstruction.
func ProbeHeader(data []byte) (width, height int, err error) {
	if len(data) < 8 || [8]byte(data[:8]) != Signature {
		return 0, 0, ErrBadSignature
	}
	if len(data) < 8+8+13 {
		return 0, 0, ErrTruncated
	}
	length := int(data[8])<<24 | int(data[9])<<16 | int(data[10])<<8 | int(data[11])
	if string(data[12:16]) != "IHDR" || length != 13 {
		return 0, 0, ErrNoIHDR
	}
	hdr, err := parseIHDR(data[16:29])
	if err != nil {
		return 0, 0, err
	}
	return hdr.width, hdr.height, nil
}

// Decode decodes a PNG stream (including its 8-byte signature) into an
// RGBA8 pixel buffer, per spec.md §4.E.
func Decode(data []byte, opts Options) (pix []byte, width, height int, err error) {
	if len(data) < 8 || [8]byte(data[:8]) != Signature {
		return nil, 0, 0, ErrBadSignature
	}
	pos := 8

	hdr, idat, palette, trns, err := scanChunks(data, pos, opts)
	if err != nil {
		return nil, 0, 0, err
	}
	if hdr.colorType == ColorIndexed && palette == nil {
		return nil, 0, 0, ErrNoPalette
	}
	if len(idat) == 0 {
		return nil, 0, 0, ErrNoIDAT
	}

	rawSize := expectedRawSize(hdr)
	raw, err := deflate.Decompress(idat, rawSize)
	if err != nil {
		return nil, 0, 0, err
	}

	out := make([]byte, hdr.width*hdr.height*4)
	if hdr.interlace == 0 {
		samplesBuf, err := defilter(raw, hdr.width, hdr.height, hdr.samples, hdr.depth)
		if err != nil {
			return nil, 0, 0, err
		}
		if err := expandRGBA(out, samplesBuf, hdr, palette, trns, 0, 0, hdr.width, 1, 1); err != nil {
			return nil, 0, 0, err
		}
	} else {
		offset := 0
		for _, p := range adam7Passes {
			pw := passDim(hdr.width, p.hStart, p.hDelta)
			ph := passDim(hdr.height, p.vStart, p.vDelta)
			if pw == 0 || ph == 0 {
				continue
			}
			rowBytes := scanlineLen(pw, hdr.samples, hdr.depth)
			passRawLen := rowBytes * ph
			passRaw := raw[offset : offset+passRawLen]
			offset += passRawLen

			samplesBuf, err := defilter(passRaw, pw, ph, hdr.samples, hdr.depth)
			if err != nil {
				return nil, 0, 0, err
			}
			if err := expandRGBA(out, samplesBuf, hdr, palette, trns, p.hStart, p.vStart, pw, p.hDelta, p.vDelta); err != nil {
				return nil, 0, 0, err
			}
		}
	}

	return out, hdr.width, hdr.height, nil
}

// scanChunks walks the chunk stream starting at pos (just past the
// signature), returning the parsed header, concatenated IDAT payload,
// palette bytes (if any), and tRNS bytes (if any).
func scanChunks(data []byte, pos int, opts Options) (hdr header, idat, palette, trns []byte, err error) {
	haveIHDR := false
	idatOpen := false // true while consecutive IDAT chunks are being accumulated
	var idatBuf []byte

	for {
		if pos+8 > len(data) {
			return hdr, nil, nil, nil, ErrTruncated
		}
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typeBytes := data[pos+4 : pos+8]
		typ := string(typeBytes)
		pos += 8
		if length < 0 || pos+length+4 > len(data) {
			return hdr, nil, nil, nil, ErrTruncated
		}
		payload := data[pos : pos+length]
		pos += length
		crcBytes := data[pos : pos+4]
		pos += 4

		if opts.Strict {
			want := binary.BigEndian.Uint32(crcBytes)
			h := crc32.NewIEEE()
			h.Write(typeBytes)
			h.Write(payload)
			if h.Sum32() != want {
				return hdr, nil, nil, nil, ErrBadCRC
			}
		}

		switch typ {
		case "IHDR":
			if haveIHDR || length != 13 {
				return hdr, nil, nil, nil, ErrBadIHDR
			}
			hdr, err = parseIHDR(payload)
			if err != nil {
				return hdr, nil, nil, nil, err
			}
			haveIHDR = true
		case "IDAT":
			if !haveIHDR {
				return hdr, nil, nil, nil, ErrNoIHDR
			}
			if idatBuf != nil && !idatOpen {
				return hdr, nil, nil, nil, ErrNonContigIDAT
			}
			idatBuf = append(idatBuf, payload...)
			idatOpen = true
		case "PLTE":
			if length%3 != 0 {
				return hdr, nil, nil, nil, ErrBadPalette
			}
			if length/3 > (1 << uint(hdr.depth)) {
				return hdr, nil, nil, nil, ErrBadPalette
			}
			palette = payload
			idatOpen = false
		case "tRNS":
			trns = payload
			idatOpen = false
		case "IEND":
			if !haveIHDR {
				return hdr, nil, nil, nil, ErrNoIHDR
			}
			return hdr, idatBuf, palette, trns, nil
		default:
			// gAMA, cHRM, sRGB, and any other ancillary chunk: recognized
			// by falling into this default only insofar as the decoder
			// takes no action on them (no gamma correction, no color
			// management — Non-goals). Any IDAT run is now broken.
			idatOpen = false
		}
	}
}

// parseIHDR validates and decodes the 13-byte IHDR payload.
func parseIHDR(b []byte) (header, error) {
	if len(b) != 13 {
		return header{}, ErrBadIHDR
	}
	w := int(binary.BigEndian.Uint32(b[0:4]))
	h := int(binary.BigEndian.Uint32(b[4:8]))
	depth := int(b[8])
	colorType := int(b[9])
	compression := b[10]
	filter := b[11]
	interlace := int(b[12])

	if w <= 0 || h <= 0 {
		return header{}, ErrBadIHDR
	}
	if compression != 0 || filter != 0 {
		return header{}, ErrBadIHDR
	}
	if interlace != 0 && interlace != 1 {
		return header{}, ErrBadIHDR
	}
	samples, ok := samplesPerPixel[colorType]
	if !ok {
		return header{}, ErrBadIHDR
	}
	if !validDepth(colorType, depth) {
		return header{}, ErrBadIHDR
	}

	return header{width: w, height: h, depth: depth, colorType: colorType, interlace: interlace, samples: samples}, nil
}

// validDepth reports whether depth is legal for colorType per spec.md §3.
func validDepth(colorType, depth int) bool {
	switch colorType {
	case ColorGray:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case ColorIndexed:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case ColorRGB, ColorGrayA, ColorRGBA:
		return depth == 8 || depth == 16
	default:
		return false
	}
}

// scanlineLen returns 1 + ceil(w*samples*depth/8), the byte length of
// one filtered scanline including its leading filter-type byte.
func scanlineLen(w, samples, depth int) int {
	bits := w * samples * depth
	return 1 + (bits+7)/8
}

// expectedRawSize computes the total decompressed byte count spec.md
// §4.E requires, summing over Adam7 passes when interlaced.
func expectedRawSize(hdr header) int {
	if hdr.interlace == 0 {
		return scanlineLen(hdr.width, hdr.samples, hdr.depth) * hdr.height
	}
	total := 0
	for _, p := range adam7Passes {
		pw := passDim(hdr.width, p.hStart, p.hDelta)
		ph := passDim(hdr.height, p.vStart, p.vDelta)
		if pw == 0 || ph == 0 {
			continue
		}
		total += scanlineLen(pw, hdr.samples, hdr.depth) * ph
	}
	return total
}
