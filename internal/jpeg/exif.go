package jpeg

import (
	"bytes"

	"github.com/jrm-1535/exif"
)

// tiffOrientationTag is the standard EXIF/TIFF tag for image
// orientation (1..8).
const tiffOrientationTag = 0x0112

// Meta carries the non-pixel information surfaced on top of
// spec.md's core contract. Orientation is parsed but never applied to
// the decoded pixel buffer — spec.md §9's second Open Question
// resolves that EXIF orientation must not affect output orientation.
type Meta struct {
	Orientation int // 0 if absent or unparsable, else EXIF's 1..8
}

// parseAPP1Orientation extracts the TIFF orientation tag from an APP1
// "Exif\0\0" segment payload, if present. Failures are swallowed: EXIF
// metadata is a best-effort supplement (spec.md's core decode must not
// fail because of a malformed or unsupported metadata block).
func parseAPP1Orientation(payload []byte) int {
	if !bytes.HasPrefix(payload, []byte("Exif\x00\x00")) {
		return 0
	}
	tiff := payload[6:]
	if len(tiff) == 0 {
		return 0
	}

	desc, err := exif.Parse(tiff, 0, len(tiff), &exif.Control{Unknown: exif.KeepTag})
	if err != nil {
		return 0
	}
	vt, v, err := desc.GetIfdTagValue(exif.PRIMARY, tiffOrientationTag)
	if err != nil || vt != exif.U16Slice {
		return 0
	}
	vals, ok := v.([]uint16)
	if !ok || len(vals) != 1 {
		return 0
	}
	return int(vals[0])
}
