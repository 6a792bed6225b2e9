// Package jpeg implements the JPEG baseline frontend (spec.md §4.F):
// segment scanning, quantization/Huffman table installation, the
// per-MCU entropy decoder with DC prediction, the 8x8 inverse DCT, and
// YCbCr-to-RGB color conversion.
//
// Only baseline sequential DCT (SOF0) is supported, matching spec.md
// §1's Non-goals: no progressive, hierarchical, lossless, or
// arithmetic-coded JPEG.
package jpeg

import "errors"

// Errors returned by Decode, grouped per spec.md §7's taxonomy.
var (
	ErrTruncated        = errors.New("jpeg: truncated input")                        // truncation
	ErrBadSOI           = errors.New("jpeg: missing SOI marker")                      // framing
	ErrBadMarker        = errors.New("jpeg: malformed marker sequence")               // framing
	ErrUnsupportedSOF   = errors.New("jpeg: non-baseline SOF marker")                 // framing
	ErrDuplicateFrame   = errors.New("jpeg: duplicate frame header")                  // framing
	ErrNoFrame          = errors.New("jpeg: scan before frame header")                // framing
	ErrNoScan           = errors.New("jpeg: missing SOS marker")                      // framing
	ErrNoEOI            = errors.New("jpeg: missing EOI marker")                      // framing
	ErrBadPrecision     = errors.New("jpeg: sample precision must be 8")              // framing
	ErrBadComponentCnt  = errors.New("jpeg: component count must be 1 or 3")          // framing
	ErrBadDim           = errors.New("jpeg: zero width or height")                    // framing
	ErrBadSampling      = errors.New("jpeg: sampling factor does not divide maximum") // semantic
	ErrBadScanComponent = errors.New("jpeg: scan selector refers to undeclared component") // semantic
	ErrUnsupportedScan  = errors.New("jpeg: non-baseline scan parameters (Ss/Se/Ah/Al)")   // framing
	ErrBadQuantTable    = errors.New("jpeg: invalid quantization table precision")    // table
	ErrBadHuffTable     = errors.New("jpeg: invalid or over-subscribed Huffman table") // table
	ErrBadCategory      = errors.New("jpeg: DC/AC category exceeds 16")               // semantic
	ErrBadRestart       = errors.New("jpeg: expected restart marker not found")       // semantic
)
