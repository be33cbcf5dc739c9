// Package blend implements Porter-Duff and CSS/SVG "mix-blend-mode"
// compositing for the rasterizer's tile-level fill pass.
//
// Coverage and color channels here are bytes, and every blend formula
// divides a product of two bytes by 255 somewhere in its inner loop —
// once per channel per pixel per tile. mulDiv255 below is that division,
// done with shifts instead of an actual divide so it stays cheap at that
// call volume.
package blend

// div255 approximates x/255 for x in [0, 65025] (any product of two
// bytes) using (x+255)>>8; above 65280 the uint16 sum wraps. The
// result can be one higher than the true value for some inputs; the
// renderer blends more pixels than it can afford to divide exactly, so
// this trades that bounded error for avoiding a hardware divide.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// div255Exact computes x/255 with no rounding error, for callers that
// need the reference result to check div255's approximation against.
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 computes a*b/255 through div255 (the exact floor or one
// above it), the per-channel multiply every
// Porter-Duff term in this package reduces to.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// mulDiv255Exact is mulDiv255 without div255's rounding slack, used to
// validate the fast path's output stays within tolerance.
func mulDiv255Exact(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}

// inv255 returns the complementary coverage or alpha, 255-x.
func inv255(x byte) byte {
	return 255 - x
}

// clamp255 saturates a wider sum back into a byte.
func clamp255(x uint16) byte {
	if x > 255 {
		return 255
	}
	return byte(x)
}

// addClamp adds two bytes, saturating at 255 instead of wrapping.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// subClamp subtracts b from a, saturating at 0 instead of wrapping.
func subClamp(a, b byte) byte {
	if b >= a {
		return 0
	}
	return a - b
}
