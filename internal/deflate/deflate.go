// Package deflate decompresses a zlib-wrapped DEFLATE payload of known
// output size, as used by PNG's IDAT stream (spec.md §4.D).
//
// It is the "D" component of the decoder: bit-stream framing and LZ77
// backward copies sit on top of the huffman kernel and the bitio
// reader, and are themselves sat on by the PNG frontend.
package deflate

import (
	"errors"

	"github.com/deepteams/imgdecode/internal/bitio"
	"github.com/deepteams/imgdecode/internal/huffman"
)

// Errors returned by Decompress, grouped per spec.md §7's taxonomy.
var (
	ErrTruncated    = errors.New("deflate: truncated input")       // truncation
	ErrBadHeader    = errors.New("deflate: bad zlib header")       // framing
	ErrBadBlockType = errors.New("deflate: invalid block type")    // framing
	ErrBadStored    = errors.New("deflate: stored block LEN/NLEN mismatch") // framing
	ErrBadTable     = errors.New("deflate: invalid Huffman table") // table
	ErrBadSymbol    = errors.New("deflate: invalid literal/length or distance symbol") // semantic
	ErrBadDistance  = errors.New("deflate: back-reference before start of output")     // semantic
	ErrOverrun      = errors.New("deflate: copy or literal would overrun output")      // semantic
	ErrShortOutput  = errors.New("deflate: input exhausted before output filled")      // truncation
)

// codeLengthOrder is the order in which HCLEN code-length-alphabet
// lengths are transmitted in a dynamic Huffman block (spec.md §4.D).
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lenBase and lenExtra give the base length and extra-bit count for
// length symbols 257..285 (0-indexed by sym-257).
var lenBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lenExtra = [29]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase and distExtra give the base distance and extra-bit count for
// distance symbols 0..29.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]int{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

const endOfBlock = 256

// fixedLitLengths and fixedDistLengths are the code-length vectors for
// BTYPE=1 fixed Huffman blocks (spec.md §4.D).
func fixedLitLengths() []int {
	lengths := make([]int, 288)
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	return lengths
}

func fixedDistLengths() []int {
	lengths := make([]int, 32)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}

// Decompress inflates a zlib-wrapped DEFLATE payload (src) into exactly
// outSize bytes and returns them. It fails (truncation, framing, table,
// or semantic error per spec.md §7) rather than returning a partial
// buffer.
func Decompress(src []byte, outSize int) ([]byte, error) {
	if len(src) < 2 {
		return nil, ErrTruncated
	}
	cmf := src[0]
	if cmf&0x0f != 8 {
		return nil, ErrBadHeader
	}
	flg := src[1]
	if flg&0x20 != 0 {
		// FDICT set: a preset dictionary is required; not supported.
		return nil, ErrBadHeader
	}

	r := bitio.NewReader(src[2:])
	out := make([]byte, outSize)
	n := 0 // bytes written so far

	for {
		final, err := r.TakeBitsLSB(1)
		if err != nil {
			return nil, ErrTruncated
		}
		btype, err := r.TakeBitsLSB(2)
		if err != nil {
			return nil, ErrTruncated
		}

		switch btype {
		case 0:
			if n, err = decodeStored(r, out, n); err != nil {
				return nil, err
			}
		case 1:
			lit, err2 := huffman.Build(fixedLitLengths())
			if err2 != nil {
				return nil, ErrBadTable
			}
			dist, err2 := huffman.Build(fixedDistLengths())
			if err2 != nil {
				return nil, ErrBadTable
			}
			if n, err = decodeCompressed(r, out, n, lit, dist); err != nil {
				return nil, err
			}
		case 2:
			lit, dist, err2 := readDynamicTables(r)
			if err2 != nil {
				return nil, err2
			}
			if n, err = decodeCompressed(r, out, n, lit, dist); err != nil {
				return nil, err
			}
		default:
			return nil, ErrBadBlockType
		}

		if final == 1 {
			break
		}
	}

	if n != outSize {
		return nil, ErrShortOutput
	}
	return out, nil
}

// decodeStored copies a stored (uncompressed) block into out, starting
// at offset n, and returns the new offset.
func decodeStored(r *bitio.Reader, out []byte, n int) (int, error) {
	r.AlignToByte()
	lenLo, err := r.TakeU16LE()
	if err != nil {
		return n, ErrTruncated
	}
	nlenLo, err := r.TakeU16LE()
	if err != nil {
		return n, ErrTruncated
	}
	if lenLo^nlenLo != 0xFFFF {
		return n, ErrBadStored
	}
	length := int(lenLo)
	if n+length > len(out) {
		return n, ErrOverrun
	}
	data, err := r.TakeBytes(length)
	if err != nil {
		return n, ErrTruncated
	}
	copy(out[n:n+length], data)
	return n + length, nil
}

// readDynamicTables reads HLIT/HDIST/HCLEN plus the code-length
// alphabet and returns the built literal/length and distance tables
// (spec.md §4.D, BTYPE=2).
func readDynamicTables(r *bitio.Reader) (lit, dist *huffman.Table, err error) {
	hlitBits, err := r.TakeBitsLSB(5)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	hdistBits, err := r.TakeBitsLSB(5)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	hclenBits, err := r.TakeBitsLSB(4)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	hlit := int(hlitBits) + 257
	hdist := int(hdistBits) + 1
	hclen := int(hclenBits) + 4

	var clLengths [19]int
	for i := 0; i < hclen; i++ {
		v, err := r.TakeBitsLSB(3)
		if err != nil {
			return nil, nil, ErrTruncated
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clTable, err := huffman.Build(clLengths[:])
	if err != nil {
		return nil, nil, ErrBadTable
	}

	allLengths := make([]int, hlit+hdist)
	i := 0
	var prev int
	for i < len(allLengths) {
		peek, avail := r.PeekBitsLSB(clTable.MaxLength())
		sym, nbits, ok := clTable.Decode(peek, avail)
		if !ok {
			return nil, nil, ErrTruncated
		}
		if err := r.DropBitsLSB(nbits); err != nil {
			return nil, nil, ErrTruncated
		}

		switch {
		case sym < 16:
			allLengths[i] = sym
			prev = sym
			i++
		case sym == 16:
			extra, err := r.TakeBitsLSB(2)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			repeat := 3 + int(extra)
			if i == 0 || i+repeat > len(allLengths) {
				return nil, nil, ErrBadTable
			}
			for k := 0; k < repeat; k++ {
				allLengths[i] = prev
				i++
			}
		case sym == 17:
			extra, err := r.TakeBitsLSB(3)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			repeat := 3 + int(extra)
			if i+repeat > len(allLengths) {
				return nil, nil, ErrBadTable
			}
			for k := 0; k < repeat; k++ {
				allLengths[i] = 0
				i++
			}
			prev = 0
		case sym == 18:
			extra, err := r.TakeBitsLSB(7)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			repeat := 11 + int(extra)
			if i+repeat > len(allLengths) {
				return nil, nil, ErrBadTable
			}
			for k := 0; k < repeat; k++ {
				allLengths[i] = 0
				i++
			}
			prev = 0
		default:
			return nil, nil, ErrBadTable
		}
	}

	litLengths := allLengths[:hlit]
	distLengths := allLengths[hlit:]

	lit, err = huffman.Build(litLengths)
	if err != nil {
		return nil, nil, ErrBadTable
	}
	// A distance alphabet with no codes at all is legal for a block that
	// carries only literals. Any Build failure here (empty or
	// over-subscribed) leaves dist nil instead of failing; the block then
	// fails with ErrBadSymbol only if it contains a match.
	dist, err = huffman.Build(distLengths)
	if err != nil {
		dist = nil
	}
	return lit, dist, nil
}

// decodeCompressed decodes literal/length/distance symbols from a
// Huffman-coded block into out, starting at offset n, until EOB.
func decodeCompressed(r *bitio.Reader, out []byte, n int, lit, dist *huffman.Table) (int, error) {
	for {
		peek, avail := r.PeekBitsLSB(lit.MaxLength())
		sym, nbits, ok := lit.Decode(peek, avail)
		if !ok {
			return n, ErrTruncated
		}
		if err := r.DropBitsLSB(nbits); err != nil {
			return n, ErrTruncated
		}

		if sym < 256 {
			if n >= len(out) {
				return n, ErrOverrun
			}
			out[n] = byte(sym)
			n++
			continue
		}
		if sym == endOfBlock {
			return n, nil
		}

		lidx := sym - 257
		if lidx < 0 || lidx >= len(lenBase) {
			return n, ErrBadSymbol
		}
		extra, err := r.TakeBitsLSB(lenExtra[lidx])
		if err != nil {
			return n, ErrTruncated
		}
		length := lenBase[lidx] + int(extra)

		if dist == nil {
			return n, ErrBadSymbol
		}
		peek, avail = r.PeekBitsLSB(dist.MaxLength())
		dsym, dnbits, ok := dist.Decode(peek, avail)
		if !ok {
			return n, ErrTruncated
		}
		if err := r.DropBitsLSB(dnbits); err != nil {
			return n, ErrTruncated
		}
		if dsym < 0 || dsym >= len(distBase) {
			return n, ErrBadSymbol
		}
		dextra, err := r.TakeBitsLSB(distExtra[dsym])
		if err != nil {
			return n, ErrTruncated
		}
		distance := distBase[dsym] + int(dextra)

		if distance > n {
			return n, ErrBadDistance
		}
		if n+length > len(out) {
			return n, ErrOverrun
		}
		// Byte-at-a-time copy: overlap (distance < length) is legal and
		// must observe bytes written earlier in this same match.
		src := n - distance
		for k := 0; k < length; k++ {
			out[n] = out[src+k]
			n++
		}
	}
}
