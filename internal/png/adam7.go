package png

// pass describes one Adam7 interlace pass (spec.md §3 table).
type pass struct {
	hStart, vStart, hDelta, vDelta int
}

var adam7Passes = [7]pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// passDim computes ceil((full - start) / delta), or 0 when start >= full.
func passDim(full, start, delta int) int {
	if start >= full {
		return 0
	}
	return (full - start + delta - 1) / delta
}
