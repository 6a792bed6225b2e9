package imgdecode

import (
	"bytes"
	"fmt"
	"image"

	"github.com/deepteams/imgdecode/internal/jpeg"
	"github.com/deepteams/imgdecode/internal/png"
	"github.com/deepteams/imgdecode/internal/psd"
)

// Format identifies which container a buffer was sniffed as, per
// spec.md §4.H.
type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	PSD
)

// String names the format, for diagnostics.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case PSD:
		return "psd"
	default:
		return "unknown"
	}
}

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
var psdSignature = [4]byte{'8', 'B', 'P', 'S'}

// DetectFormat sniffs data's leading bytes against each supported
// container's magic (spec.md §4.H): PNG's 8-byte signature, PSD's
// "8BPS", or JPEG's 0xFF marker prefix. It performs no further
// validation — a format match here does not guarantee Decode succeeds.
func DetectFormat(data []byte) Format {
	if len(data) >= 8 && bytes.Equal(data[:8], pngSignature[:]) {
		return PNG
	}
	if len(data) >= 4 && bytes.Equal(data[:4], psdSignature[:]) {
		return PSD
	}
	if len(data) >= 2 && data[0] == 0xFF {
		return JPEG
	}
	return Unknown
}

// Decode dispatches data to the matching frontend (spec.md §4.H) and
// returns a newly allocated RGBA8 pixel buffer plus width and height.
// Any failure, from an unrecognized magic to a malformed stream deep
// inside a frontend, collapses to a single error satisfying
// errors.Is(err, ErrNoImage); no partial result is ever returned.
func Decode(data []byte) (pix []byte, width, height int, err error) {
	switch DetectFormat(data) {
	case PNG:
		pix, width, height, err = png.Decode(data, png.Options{})
		if err != nil {
			return nil, 0, 0, wrapNoImage(fmt.Errorf("png: %w", err))
		}
		return pix, width, height, nil
	case JPEG:
		pix, width, height, err = jpeg.Decode(data)
		if err != nil {
			return nil, 0, 0, wrapNoImage(fmt.Errorf("jpeg: %w", err))
		}
		return pix, width, height, nil
	case PSD:
		pix, width, height, err = psd.Decode(data)
		if err != nil {
			return nil, 0, 0, wrapNoImage(fmt.Errorf("psd: %w", err))
		}
		return pix, width, height, nil
	default:
		return nil, 0, 0, wrapNoImage(ErrUnrecognized)
	}
}

// Probe reads only the structural header of a recognized image —
// PNG's IHDR, JPEG's SOF0, or PSD's fixed header — and returns its
// format and declared dimensions without running DEFLATE or entropy
// decoding.
func Probe(data []byte) (format Format, width, height int, err error) {
	format = DetectFormat(data)
	switch format {
	case PNG:
		width, height, err = png.ProbeHeader(data)
	case JPEG:
		width, height, err = jpeg.ProbeDimensions(data)
	case PSD:
		width, height, err = psd.ProbeHeader(data)
	default:
		return Unknown, 0, 0, wrapNoImage(ErrUnrecognized)
	}
	if err != nil {
		return format, 0, 0, wrapNoImage(err)
	}
	return format, width, height, nil
}

// DecodeImage is Decode wrapped in the standard library's image.Image
// interface, returned as *image.NRGBA (spec.md's scope is decode-only,
// so no matching Encode exists here).
//
// This package does not call image.RegisterFormat: doing so for "png"
// or "jpeg" would shadow the standard library's own image/png and
// image/jpeg decoders for every importer that also imports this
// package, and PSD has no stdlib image codec to collide with in the
// first place, so there is no asymmetry worth special-casing (see
// DESIGN.md). Callers needing image.Decode-style dispatch by format
// name should register this package's Decode under their own name.
func DecodeImage(data []byte) (image.Image, error) {
	pix, w, h, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}, nil
}
