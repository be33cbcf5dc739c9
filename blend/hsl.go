// The four non-separable blend modes (Hue, Saturation, Color, Luminosity)
// can't be expressed as a per-channel formula the way Multiply or Screen
// can: each one mixes a property of the whole RGB triplet (its hue,
// saturation, or luminance) from one input with a different triplet's
// property from the other. This file does that mixing, following the
// CSS Compositing and Blending Level 1 algorithms.
package blend

import "math"

// Lum is the BT.601 luma of a straight-alpha color in [0,1].
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat is a color's saturation, the spread between its largest and
// smallest channel.
func Sat(r, g, b float32) float32 {
	return max3(r, g, b) - min3(r, g, b)
}

// ClipColor pulls an out-of-gamut color back into [0,1] by scaling it
// toward its own luminance, rather than just clamping each channel
// independently (which would shift the hue).
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	n := min3(r, g, b)
	x := max3(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts a color uniformly across all three channels until its
// luminance equals l, then clips it back into range.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	r += d
	g += d
	b += d
	return ClipColor(r, g, b)
}

// SetSat rescales a color's min/mid/max channels so its saturation
// becomes s while its ordering (which channel is biggest) is preserved.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	minPtr, midPtr, maxPtr := sortRGB(&r, &g, &b)

	minVal := *minPtr
	midVal := *midPtr
	maxVal := *maxPtr

	if maxVal > minVal {
		*midPtr = ((midVal - minVal) * s) / (maxVal - minVal)
		*maxPtr = s
		*minPtr = 0
	} else {
		// Already gray: no spread to redistribute, saturation stays 0.
		*minPtr = minVal
		*midPtr = midVal
		*maxPtr = maxVal
	}

	return r, g, b
}

// sortRGB returns pointers to r, g, b ordered smallest to largest, so
// SetSat can rewrite the min/mid/max slots without caring which
// channel each one started as.
func sortRGB(r, g, b *float32) (minPtr, midPtr, maxPtr *float32) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	default:
		return b, g, r
	}
}

// hslBlendHue takes the source's hue paired with the backdrop's
// saturation and luminance: SetLum(SetSat(Cs, Sat(Cb)), Lum(Cb)).
func hslBlendHue(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	satB := Sat(dr, dg, db)
	r, g, b := SetSat(sr, sg, sb, satB)
	lumB := Lum(dr, dg, db)
	return SetLum(r, g, b, lumB)
}

// hslBlendSaturation takes the source's saturation paired with the
// backdrop's hue and luminance: SetLum(SetSat(Cb, Sat(Cs)), Lum(Cb)).
func hslBlendSaturation(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	satS := Sat(sr, sg, sb)
	r, g, b := SetSat(dr, dg, db, satS)
	lumB := Lum(dr, dg, db)
	return SetLum(r, g, b, lumB)
}

// hslBlendColor takes the source's hue and saturation paired with the
// backdrop's luminance: SetLum(Cs, Lum(Cb)).
func hslBlendColor(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	lumB := Lum(dr, dg, db)
	return SetLum(sr, sg, sb, lumB)
}

// hslBlendLuminosity takes the source's luminance paired with the
// backdrop's hue and saturation: SetLum(Cb, Lum(Cs)).
func hslBlendLuminosity(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	lumS := Lum(sr, sg, sb)
	return SetLum(dr, dg, db, lumS)
}

func min3(a, b, c float32) float32 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func max3(a, b, c float32) float32 {
	if a > b {
		if a > c {
			return a
		}
		return c
	}
	if b > c {
		return b
	}
	return c
}

func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslBlendHue)
}

func blendSaturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslBlendSaturation)
}

func blendColor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslBlendColor)
}

func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslBlendLuminosity)
}

// nonSeparableBlend unpremultiplies both inputs, runs the given
// HSL-domain blend function on the straight colors, then recomposites
// the result with the standard source-over-on-premultiplied formula:
// (1-Sa)*D + (1-Da)*S + Sa*Da*B(Cs,Cb).
func nonSeparableBlend(
	sr, sg, sb, sa, dr, dg, db, da byte,
	blendFunc func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	var sur, sug, sub, dur, dug, dub float32
	if sa > 0 {
		sur = float32(sr) / float32(sa)
		sug = float32(sg) / float32(sa)
		sub = float32(sb) / float32(sa)
	}
	if da > 0 {
		dur = float32(dr) / float32(da)
		dug = float32(dg) / float32(da)
		dub = float32(db) / float32(da)
	}

	blendR, blendG, blendB := blendFunc(sur, sug, sub, dur, dug, dub)

	invSa := 255 - sa
	invDa := 255 - da
	saf := float32(sa) / 255.0
	daf := float32(da) / 255.0

	finalA := addDiv255(sa, mulDiv255(da, invSa))

	finalR := addDiv255(mulDiv255(dr, invSa), mulDiv255(sr, invDa))
	finalG := addDiv255(mulDiv255(dg, invSa), mulDiv255(sg, invDa))
	finalB := addDiv255(mulDiv255(db, invSa), mulDiv255(sb, invDa))

	saDa := saf * daf
	blendContribR := byte(math.Round(float64(blendR * saDa * 255.0)))
	blendContribG := byte(math.Round(float64(blendG * saDa * 255.0)))
	blendContribB := byte(math.Round(float64(blendB * saDa * 255.0)))

	finalR = addDiv255(finalR, blendContribR)
	finalG = addDiv255(finalG, blendContribG)
	finalB = addDiv255(finalB, blendContribB)

	return finalR, finalG, finalB, finalA
}
