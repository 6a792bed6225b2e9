package jpeg

// quantTable holds one DQT table's 64 entries, indexed in zigzag
// (transmission) order, matching how they are dequantized against a
// coefficient array that is itself still in zigzag order (spec.md
// §4.F step 4).
type quantTable [64]uint16

// scanComponent binds one SOS-selected component to its Huffman table
// selectors, in scan order.
type scanComponent struct {
	comp             *component
	dcTable, acTable int
}

// decodeScan runs the entropy-coded MCU loop for one baseline scan
// (spec.md §4.F), filling each selected component's sample plane. It
// returns the byte position immediately at the marker that terminated
// the entropy data (a restart marker was already consumed internally;
// what remains is EOI) and, for testing, how many restart markers were
// consumed, for tests that want to check restart-interval handling.
func decodeScan(data []byte, pos int, f *frame, scanComps []scanComponent,
	dcTables, acTables [4]*table, quant [4]*quantTable, restartInterval int) (newPos int, restartsSeen int, err error) {

	for _, sc := range scanComps {
		sc.comp.dcPred = 0
	}

	e := newEntropyReader(data, pos)
	totalMCUs := f.mcuCols * f.mcuRows
	mcuIndex := 0

	for my := 0; my < f.mcuRows; my++ {
		for mx := 0; mx < f.mcuCols; mx++ {
			for _, sc := range scanComps {
				dc := dcTables[sc.dcTable]
				ac := acTables[sc.acTable]
				if dc == nil || ac == nil {
					return 0, 0, ErrBadHuffTable
				}
				q := quant[sc.comp.tq]
				if q == nil {
					return 0, 0, ErrBadQuantTable
				}

				for by := 0; by < sc.comp.v; by++ {
					for bx := 0; bx < sc.comp.h; bx++ {
						if err := decodeBlock(e, sc.comp, dc, ac, q); err != nil {
							return 0, 0, err
						}
						col := (mx*sc.comp.h + bx) * 8
						row := (my*sc.comp.v + by) * 8
						placeBlock(sc.comp, col, row)
					}
				}
			}

			mcuIndex++
			if restartInterval != 0 && mcuIndex%restartInterval == 0 && mcuIndex != totalMCUs {
				if err := e.expectRestart(); err != nil {
					return 0, 0, err
				}
				restartsSeen++
				for _, sc := range scanComps {
					sc.comp.dcPred = 0
				}
			}
		}
	}

	return e.pos, restartsSeen, nil
}

// block is a 64-entry coefficient buffer; decodeBlock declares fresh
// ones on each call. It is a named type only for clarity at call sites.
type block [64]int32

// decodeBlock decodes one 8x8 block's DC and AC coefficients, applies
// dequantization, de-zigzags, runs the inverse DCT, and writes the
// clamped, level-shifted result into comp.idctOut for placeBlock to
// copy into the plane (spec.md §4.F steps 1-7).
func decodeBlock(e *entropyReader, comp *component, dc, ac *table, q *quantTable) error {
	var coeffZZ block

	dcSym, err := dc.decode(e)
	if err != nil {
		return err
	}
	t := int(dcSym)
	if t > 16 {
		return ErrBadCategory
	}
	bits, err := e.takeBits(t)
	if err != nil {
		return err
	}
	comp.dcPred += extend(bits, t)
	coeffZZ[0] = int32(comp.dcPred)

	k := 1
	for k < 64 {
		rs, err := ac.decode(e)
		if err != nil {
			return err
		}
		r := int(rs >> 4)
		s := int(rs & 0x0F)
		if r == 0 && s == 0 {
			break // EOB
		}
		if r == 15 && s == 0 {
			k += 16
			continue
		}
		if s > 16 {
			return ErrBadCategory
		}
		k += r
		if k > 63 {
			return ErrBadCategory
		}
		bits, err := e.takeBits(s)
		if err != nil {
			return err
		}
		coeffZZ[k] = int32(extend(bits, s))
		k++
	}

	for i := 0; i < 64; i++ {
		coeffZZ[i] *= int32(q[i])
	}

	var natural block
	for i := 0; i < 64; i++ {
		natural[zigzagOrder[i]] = coeffZZ[i]
	}

	comp.idctOut = idct8x8(&natural)
	return nil
}

// idct8x8 performs the naive O(N^4) 2D inverse DCT of spec.md §4.F step
// 6, level-shifts by +128, and clamps to a byte. Any mathematically
// equivalent IDCT is permitted by spec.md §9 provided output stays
// within +/-1 of this reference; the naive form is kept for clarity
// since 8x8 blocks make its cost negligible.
func idct8x8(s *block) *[64]byte {
	var out [64]byte
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				rowBase := v * 8
				cv := idctC[v]
				cosY := idctCos[y][v]
				for u := 0; u < 8; u++ {
					sum += idctC[u] * cv * float64(s[rowBase+u]) * idctCos[x][u] * cosY
				}
			}
			val := int(sum/4.0+0.5) + 128
			out[y*8+x] = clampByte(val)
		}
	}
	return &out
}

func clampByte(x int) byte {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return byte(x)
}

// placeBlock copies comp's most recently decoded 8x8 block into its
// sample plane at (col, row).
func placeBlock(comp *component, col, row int) {
	blk := comp.idctOut
	for y := 0; y < 8; y++ {
		dst := (row+y)*comp.planeW + col
		copy(comp.plane[dst:dst+8], blk[y*8:y*8+8])
	}
}
