package jpeg

// table is JPEG's Huffman table representation (spec.md §3): per
// length L in [1,16], the min and max code assigned to that length,
// plus an index into the flat, length-ordered symbol list. This is the
// variant spec.md §4.C calls out as semantically identical to the flat
// array used by internal/huffman, just shaped for JPEG's MSB-first,
// scan-by-length decode loop instead of DEFLATE's LSB-first raw peek.
type table struct {
	minCode [17]int32 // minCode[l], valid when maxCode[l] >= 0
	maxCode [17]int32 // -1 means no code of this length
	valPtr  [17]int
	symbols []byte
}

// buildTable constructs a JPEG Huffman table from the 16 per-length
// symbol counts and the concatenated, length-ordered symbol bytes read
// from a DHT segment (spec.md §4.F).
func buildTable(counts [16]int, symbols []byte) (*table, error) {
	total := 0
	for _, c := range counts {
		if c < 0 {
			return nil, ErrBadHuffTable
		}
		total += c
	}
	if total != len(symbols) {
		return nil, ErrBadHuffTable
	}

	t := &table{symbols: symbols}
	code := int32(0)
	k := 0
	for l := 1; l <= 16; l++ {
		n := counts[l-1]
		if n == 0 {
			t.maxCode[l] = -1
		} else {
			t.valPtr[l] = k
			t.minCode[l] = code
			code += int32(n)
			if code > int32(1)<<uint(l) {
				return nil, ErrBadHuffTable // over-subscribed at this length
			}
			t.maxCode[l] = code - 1
			k += n
		}
		code <<= 1
	}
	return t, nil
}

// decode reads one symbol MSB-first from e, scanning code lengths 1..16
// as spec.md §4.C describes for JPEG's variant.
func (t *table) decode(e *entropyReader) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		bit, err := e.takeBit()
		if err != nil {
			return 0, err
		}
		code = (code << 1) | int32(bit)
		if t.maxCode[l] >= 0 && code <= t.maxCode[l] && code >= t.minCode[l] {
			idx := t.valPtr[l] + int(code-t.minCode[l])
			if idx < 0 || idx >= len(t.symbols) {
				return 0, ErrBadHuffTable
			}
			return t.symbols[idx], nil
		}
	}
	return 0, ErrBadHuffTable
}
