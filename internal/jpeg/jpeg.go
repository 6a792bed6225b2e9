package jpeg

// Marker codes referenced by the segment scanner (spec.md §4.F).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
	markerRST0 = 0xD0
	markerRST7 = 0xD7
)

// isOtherSOF reports whether marker is a Start-Of-Frame marker this
// baseline-only decoder rejects (progressive, extended sequential,
// lossless, arithmetic-coded, hierarchical — all Non-goals).
func isOtherSOF(marker byte) bool {
	switch marker {
	case 0xC1, 0xC2, 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
		return true
	}
	return false
}

// Decode decodes a baseline JPEG stream (beginning with the SOI
// marker) into an RGBA8 pixel buffer, per spec.md §4.F.
func Decode(data []byte) (pix []byte, width, height int, err error) {
	pix, width, height, _, err = decode(data)
	return pix, width, height, err
}

// DecodeWithMeta is Decode plus the EXIF orientation supplement
// described on Meta; the pixel buffer is identical to Decode's.
func DecodeWithMeta(data []byte) (pix []byte, width, height int, meta Meta, err error) {
	return decode(data)
}

// ProbeDimensions scans segments only as far as SOF0 and returns the
// frame's declared width and height, without installing any
// quantization/Huffman table or touching the entropy-coded scan — the
// cheap-probe operation alongside PNG's ProbeHeader.
func ProbeDimensions(data []byte) (width, height int, err error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return 0, 0, ErrBadSOI
	}
	pos := 2
	for {
		marker, next, merr := nextMarker(data, pos)
		if merr != nil {
			return 0, 0, merr
		}
		pos = next

		if marker == markerEOI {
			return 0, 0, ErrNoFrame
		}
		payload, segEnd, serr := readSegment(data, pos)
		if serr != nil {
			return 0, 0, serr
		}
		switch {
		case marker == markerSOF0:
			f, err := parseSOF0(payload)
			if err != nil {
				return 0, 0, err
			}
			return f.width, f.height, nil
		case isOtherSOF(marker):
			return 0, 0, ErrUnsupportedSOF
		}
		pos = segEnd
	}
}

func decode(data []byte) (pix []byte, width, height int, meta Meta, err error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, 0, 0, Meta{}, ErrBadSOI
	}
	pos := 2

	var f *frame
	var quant [4]*quantTable
	var dcTables, acTables [4]*table
	restartInterval := 0

	for {
		marker, next, merr := nextMarker(data, pos)
		if merr != nil {
			return nil, 0, 0, Meta{}, merr
		}
		pos = next

		if marker == markerEOI {
			return nil, 0, 0, Meta{}, ErrNoScan
		}
		if marker == markerSOI {
			return nil, 0, 0, Meta{}, ErrBadMarker
		}
		if marker >= markerRST0 && marker <= markerRST7 {
			return nil, 0, 0, Meta{}, ErrBadMarker
		}

		payload, segEnd, serr := readSegment(data, pos)
		if serr != nil {
			return nil, 0, 0, Meta{}, serr
		}

		switch {
		case marker == markerDQT:
			if err := parseDQT(payload, &quant); err != nil {
				return nil, 0, 0, Meta{}, err
			}
		case marker == markerDHT:
			if err := parseDHT(payload, &dcTables, &acTables); err != nil {
				return nil, 0, 0, Meta{}, err
			}
		case marker == markerDRI:
			if len(payload) != 2 {
				return nil, 0, 0, Meta{}, ErrTruncated
			}
			restartInterval = int(payload[0])<<8 | int(payload[1])
		case marker == markerSOF0:
			if f != nil {
				return nil, 0, 0, Meta{}, ErrDuplicateFrame
			}
			f, err = parseSOF0(payload)
			if err != nil {
				return nil, 0, 0, Meta{}, err
			}
		case isOtherSOF(marker):
			return nil, 0, 0, Meta{}, ErrUnsupportedSOF
		case marker == markerAPP1:
			meta.Orientation = parseAPP1Orientation(payload)
		case marker == markerSOS:
			if f == nil {
				return nil, 0, 0, Meta{}, ErrNoFrame
			}
			scanComps, err := parseSOS(payload, f)
			if err != nil {
				return nil, 0, 0, Meta{}, err
			}

			entropyPos, _, err := decodeScan(data, segEnd, f, scanComps, dcTables, acTables, quant, restartInterval)
			if err != nil {
				return nil, 0, 0, Meta{}, err
			}

			eoiMarker, _, merr := nextMarker(data, entropyPos)
			if merr != nil || eoiMarker != markerEOI {
				return nil, 0, 0, Meta{}, ErrNoEOI
			}

			out := make([]byte, f.width*f.height*4)
			colorConvert(f, out)
			return out, f.width, f.height, meta, nil
		default:
			// Unrecognized segment (APP0, APP2..APP15, COM, JFIF
			// extensions, etc.): already skipped by readSegment's
			// length-based bounds; spec.md §4.F says these are simply
			// skipped.
		}

		pos = segEnd
	}
}

// nextMarker scans forward from pos for the next marker code, skipping
// 0xFF fill bytes between markers (spec.md §4.F). It returns the
// marker byte and the position immediately after it.
func nextMarker(data []byte, pos int) (marker byte, after int, err error) {
	if pos >= len(data) || data[pos] != 0xFF {
		return 0, 0, ErrBadMarker
	}
	pos++
	for pos < len(data) && data[pos] == 0xFF {
		pos++
	}
	if pos >= len(data) {
		return 0, 0, ErrTruncated
	}
	m := data[pos]
	if m == 0x00 {
		return 0, 0, ErrBadMarker
	}
	return m, pos + 1, nil
}

// readSegment reads a length-prefixed segment's payload starting right
// after its marker bytes, returning the payload and the position just
// past it.
func readSegment(data []byte, pos int) (payload []byte, after int, err error) {
	if pos+2 > len(data) {
		return nil, 0, ErrTruncated
	}
	length := int(data[pos])<<8 | int(data[pos+1])
	if length < 2 || pos+length > len(data) {
		return nil, 0, ErrTruncated
	}
	return data[pos+2 : pos+length], pos + length, nil
}

// parseDQT installs one or more quantization tables from a DQT
// segment payload (spec.md §4.F).
func parseDQT(payload []byte, quant *[4]*quantTable) error {
	pos := 0
	for pos < len(payload) {
		pqTq := payload[pos]
		pos++
		pq := pqTq >> 4
		tq := pqTq & 0x0F
		if tq > 3 || pq > 1 {
			return ErrBadQuantTable
		}
		var qt quantTable
		if pq == 0 {
			if pos+64 > len(payload) {
				return ErrTruncated
			}
			for i := 0; i < 64; i++ {
				qt[i] = uint16(payload[pos+i])
			}
			pos += 64
		} else {
			if pos+128 > len(payload) {
				return ErrTruncated
			}
			for i := 0; i < 64; i++ {
				qt[i] = uint16(payload[pos+2*i])<<8 | uint16(payload[pos+2*i+1])
			}
			pos += 128
		}
		quant[tq] = &qt
	}
	return nil
}

// parseDHT installs one or more Huffman tables from a DHT segment
// payload (spec.md §4.F).
func parseDHT(payload []byte, dcTables, acTables *[4]*table) error {
	pos := 0
	for pos < len(payload) {
		if pos+17 > len(payload) {
			return ErrTruncated
		}
		tcTh := payload[pos]
		pos++
		tc := tcTh >> 4
		th := tcTh & 0x0F
		if tc > 1 || th > 3 {
			return ErrBadHuffTable
		}
		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(payload[pos+i])
			total += counts[i]
		}
		pos += 16
		if pos+total > len(payload) {
			return ErrTruncated
		}
		symbols := payload[pos : pos+total]
		pos += total

		t, err := buildTable(counts, symbols)
		if err != nil {
			return err
		}
		if tc == 0 {
			dcTables[th] = t
		} else {
			acTables[th] = t
		}
	}
	return nil
}

// parseSOS decodes a Start-Of-Scan header and resolves each selected
// component against the frame (spec.md §4.F).
func parseSOS(payload []byte, f *frame) ([]scanComponent, error) {
	if len(payload) < 1 {
		return nil, ErrTruncated
	}
	ns := int(payload[0])
	if len(payload) != 1+2*ns+3 {
		return nil, ErrTruncated
	}

	comps := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		cs := int(payload[1+2*i])
		tdta := payload[2+2*i]
		comp := f.componentByID(cs)
		if comp == nil {
			return nil, ErrBadScanComponent
		}
		comps[i] = scanComponent{comp: comp, dcTable: int(tdta >> 4), acTable: int(tdta & 0x0F)}
	}

	ss := payload[1+2*ns]
	se := payload[2+2*ns]
	ahAl := payload[3+2*ns]
	if ss != 0 || se != 63 || ahAl != 0 {
		return nil, ErrUnsupportedScan
	}

	return comps, nil
}
