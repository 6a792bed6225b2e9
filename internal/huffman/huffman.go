// Package huffman builds and decodes canonical Huffman codes for the
// DEFLATE engine.
//
// A canonical code is fully determined by a per-symbol length vector:
// shorter codes are numerically smaller, and codes of the same length
// are assigned in increasing symbol order. [Table] stores the result as
// a flat array, matching the reference design in spec.md §3 ("Huffman
// table"), indexed by the code's bits in the order they actually arrive
// on a LSB-first bitstream — which is the reverse of the canonical
// code's own MSB-first numbering. DEFLATE's codes are conventionally
// described "packed MSB-first of the code but transmitted bit-by-bit
// LSB-first of the byte" (spec.md §3); storing the table pre-reversed
// lets the decoder use a single fixed-width raw bit peek instead of a
// bit-at-a-time walk, while producing identical decode decisions.
//
// JPEG's Huffman tables use a different representation (per-length
// min/max code, spec.md §4.C) because JPEG bits are already MSB-first
// and need no such reversal; that variant lives in internal/jpeg next
// to the entropy decoder it serves.
package huffman

import "errors"

// MaxCodeLength is the longest code length this package supports.
// DEFLATE caps at 15; JPEG caps at 16. Callers that build DEFLATE
// tables should reject lengths > 15 themselves.
const MaxCodeLength = 16

// ErrOverfull is returned by Build when the length vector assigns more
// codes to some length than that length can represent (a malformed
// table per spec.md §7's "table" error class).
var ErrOverfull = errors.New("huffman: over-subscribed code length set")

// ErrNoSymbols is returned by Build when every length is zero.
var ErrNoSymbols = errors.New("huffman: no symbols with nonzero length")

// entry is one slot of the flat lookup table.
type entry struct {
	length uint8 // code length in bits, 0 = unused slot
	symbol uint16
}

// Table is a canonical Huffman decode table, flat-indexed by the raw
// (bit-reversed) value of a maxLength-bit LSB-first peek.
type Table struct {
	entries   []entry
	maxLength int
}

// Build constructs a canonical Huffman table from per-symbol code
// lengths (lengths[sym] is the bit length of symbol sym's code, or 0 if
// the symbol is unused). It follows the canonical-Huffman algorithm of
// spec.md §4.C:
//
//  1. count symbols per length;
//  2. assign next_code[L] = (next_code[L-1] + count[L-1]) << 1;
//  3. walk symbols in increasing index order, assigning each the
//     current next_code[its length] and incrementing;
//  4. fail if any assigned code would not fit in its length (over-subscribed).
func Build(lengths []int) (*Table, error) {
	maxLen := 0
	var count [MaxCodeLength + 1]int
	for _, l := range lengths {
		if l < 0 || l > MaxCodeLength {
			return nil, ErrOverfull
		}
		if l > 0 {
			count[l]++
			if l > maxLen {
				maxLen = l
			}
		}
	}
	if maxLen == 0 {
		return nil, ErrNoSymbols
	}

	var nextCode [MaxCodeLength + 1]int
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}

	t := &Table{
		entries:   make([]entry, 1<<uint(maxLen)),
		maxLength: maxLen,
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		if c >= (1 << uint(l)) {
			return nil, ErrOverfull
		}
		raw := reverseBits(c, l)
		// A W-bit raw peek (W = maxLen) whose low `l` bits equal `raw`
		// matches this code regardless of the high (W-l) "not yet
		// consumed" bits, so populate every such slot.
		step := 1 << uint(l)
		for idx := raw; idx < len(t.entries); idx += step {
			t.entries[idx] = entry{length: uint8(l), symbol: uint16(sym)}
		}
	}

	return t, nil
}

// reverseBits reverses the low n bits of v.
func reverseBits(v, n int) int {
	r := 0
	for i := 0; i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// MaxLength returns the longest code length present in the table.
func (t *Table) MaxLength() int { return t.maxLength }

// Decode looks up a code from peek, the result of peeking the next
// t.MaxLength() bits of the stream LSB-first (bitio.Reader.PeekBitsLSB)
// without advancing the cursor, given that avail of those bits are
// backed by real input (the rest, if any, are zero filler near
// end-of-stream).
//
// It returns the decoded symbol and the number of bits it actually
// occupies. ok is false if no valid code matches within avail bits
// (truncated stream) or the table is empty.
func (t *Table) Decode(peek uint32, avail int) (symbol int, length int, ok bool) {
	if t == nil || len(t.entries) == 0 {
		return 0, 0, false
	}
	idx := peek & uint32(len(t.entries)-1)
	e := t.entries[idx]
	if e.length == 0 || int(e.length) > avail {
		return 0, 0, false
	}
	return int(e.symbol), int(e.length), true
}
