// Package imgdecode is a standalone image decoder: given a byte buffer
// holding a compressed image in one of a few container formats, it
// returns a newly allocated 32-bit RGBA pixel buffer plus width and
// height, or a single "no image" failure.
//
// It performs no I/O, no color management, and no rendering. It
// supports PNG (RFC 2083's IHDR/IDAT/IEND/PLTE/tRNS subset), baseline
// JPEG (ITU-T T.81, SOF0 only), and uncompressed 8-bit RGB PSD. Format
// identification is a cheap magic-byte sniff; each format's actual
// decoding is delegated to its own internal package.
//
// Basic usage:
//
//	pix, w, h, err := imgdecode.Decode(data)
//	if err != nil {
//		// data was not a recognized or valid image; no partial result.
//	}
package imgdecode
