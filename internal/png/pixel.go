package png

import (
	"encoding/binary"

	"github.com/deepteams/imgdecode/internal/bitio"
	"github.com/deepteams/imgdecode/internal/sample"
)

// expandRGBA unpacks one image's (or one Adam7 pass's) defiltered
// sample bytes into 8-bit RGBA pixels written directly into out, which
// is always addressed by the FULL image's width (spec.md §4.E). hStart,
// vStart, hDelta, vDelta place each decoded pixel at its final position;
// callers pass (0, 0, w, 1, 1) for a non-interlaced image.
func expandRGBA(out, samplesBuf []byte, hdr header, palette, trns []byte, hStart, vStart, w, hDelta, vDelta int) error {
	rowBytes := scanlineLen(w, hdr.samples, hdr.depth) - 1
	ph := len(samplesBuf) / rowBytes

	// tRNS grayscale/RGB entries are always stored as 2-byte samples
	// regardless of IHDR depth; only the low depth bits are significant,
	// so the mask below matches them against the depth-bit sample s reads.
	depthMask := uint32(1)<<uint(hdr.depth) - 1

	var trnsGray uint16
	var trnsRGB [3]uint16
	switch hdr.colorType {
	case ColorGray:
		if len(trns) >= 2 {
			trnsGray = binary.BigEndian.Uint16(trns[0:2])
		}
	case ColorRGB:
		if len(trns) >= 6 {
			trnsRGB[0] = binary.BigEndian.Uint16(trns[0:2])
			trnsRGB[1] = binary.BigEndian.Uint16(trns[2:4])
			trnsRGB[2] = binary.BigEndian.Uint16(trns[4:6])
		}
	}

	for y := 0; y < ph; y++ {
		row := samplesBuf[y*rowBytes : (y+1)*rowBytes]
		r := bitio.NewReader(row)
		outY := vStart + y*vDelta

		for x := 0; x < w; x++ {
			outX := hStart + x*hDelta
			pi := (outY*hdr.width + outX) * 4

			switch hdr.colorType {
			case ColorGray:
				s, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				v := sample.Rescale(hdr.depth, s)
				a := byte(255)
				if len(trns) >= 2 && s == uint32(trnsGray)&depthMask {
					a = 0
				}
				out[pi+0], out[pi+1], out[pi+2], out[pi+3] = v, v, v, a

			case ColorRGB:
				rs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				gs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				bs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				a := byte(255)
				if len(trns) >= 6 && rs == uint32(trnsRGB[0])&depthMask && gs == uint32(trnsRGB[1])&depthMask && bs == uint32(trnsRGB[2])&depthMask {
					a = 0
				}
				out[pi+0] = sample.Rescale(hdr.depth, rs)
				out[pi+1] = sample.Rescale(hdr.depth, gs)
				out[pi+2] = sample.Rescale(hdr.depth, bs)
				out[pi+3] = a

			case ColorIndexed:
				idx, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				if int(idx)*3+2 >= len(palette) {
					return ErrBadIndex
				}
				out[pi+0] = palette[idx*3+0]
				out[pi+1] = palette[idx*3+1]
				out[pi+2] = palette[idx*3+2]
				if int(idx) < len(trns) {
					out[pi+3] = trns[idx]
				} else {
					out[pi+3] = 255
				}

			case ColorGrayA:
				s, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				as, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				v := sample.Rescale(hdr.depth, s)
				out[pi+0], out[pi+1], out[pi+2] = v, v, v
				out[pi+3] = sample.Rescale(hdr.depth, as)

			case ColorRGBA:
				rs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				gs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				bs, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				as, err := r.TakeBitsMSB(hdr.depth)
				if err != nil {
					return ErrTruncated
				}
				out[pi+0] = sample.Rescale(hdr.depth, rs)
				out[pi+1] = sample.Rescale(hdr.depth, gs)
				out[pi+2] = sample.Rescale(hdr.depth, bs)
				out[pi+3] = sample.Rescale(hdr.depth, as)
			}
		}
	}

	return nil
}
