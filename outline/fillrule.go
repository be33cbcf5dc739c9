package outline

// FillRule selects how overlapping contour windings determine
// interior coverage.
type FillRule uint8

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)
