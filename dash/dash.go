// Package dash breaks a contour into on/off runs by arc length before
// it is handed to stroke expansion, per spec section 4.1: dashing
// always runs before stroke-to-fill.
package dash

import (
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

// Pattern is a dash array plus the phase offset to start at, matching
// canvas's line_dash / line_dash_offset brush state.
type Pattern struct {
	Array  []float64
	Offset float64
}

// IsSolid reports whether the pattern has no effect (nil or all-zero
// array), in which case dashing should be skipped entirely.
func (p Pattern) IsSolid() bool {
	if len(p.Array) == 0 {
		return true
	}
	total := 0.0
	for _, d := range p.Array {
		if d < 0 {
			return true // malformed: negative dash length, treat as solid
		}
		total += d
	}
	return total <= 0
}

// Apply walks each contour of src by arc length, alternating on/off
// per pattern starting at pattern.Offset, and returns a new outline
// containing only the "on" runs as open sub-contours; no run is
// closed, even on a closed source contour. Contours that are
// entirely "off" are dropped; if the pattern is solid, src's contours
// pass through unchanged.
func Apply(src *outline.Outline, pattern Pattern) *outline.Outline {
	if pattern.IsSolid() {
		return src
	}
	out := outline.NewOutline()
	for _, c := range src.Contours {
		for _, dashed := range dashContour(c, pattern) {
			out.PushContour(dashed)
		}
	}
	return out
}

// dashContour flattens a contour's segments and walks them by arc
// length, emitting a new Contour for each maximal "on" run.
func dashContour(c *outline.Contour, pattern Pattern) []*outline.Contour {
	segs := c.Segments()
	if len(segs) == 0 {
		return nil
	}

	idx, remaining, on := phaseAt(pattern)

	var result []*outline.Contour
	var current *outline.Contour

	emit := func(p geom.Vec2) {
		if !on {
			return
		}
		if current == nil {
			current = outline.NewContour()
			current.MoveTo(p)
			return
		}
		current.LineTo(p)
	}
	closeRun := func() {
		if current != nil {
			result = append(result, current)
			current = nil
		}
	}

	for _, seg := range segs {
		pts := geom.Flatten(nil, seg, geom.Tolerance)
		prev := seg.From
		emit(prev)
		for _, p := range pts {
			segLen := prev.Distance(p)
			pos := 0.0
			for segLen-pos > 1e-12 {
				step := remaining
				if step > segLen-pos {
					step = segLen - pos
				}
				pos += step
				remaining -= step
				pt := prev.Lerp(p, pos/segLen)
				emit(pt)
				if remaining <= 1e-12 {
					closeRun()
					idx = (idx + 1) % len(pattern.Array)
					remaining = pattern.Array[idx]
					on = !on
					if on {
						current = outline.NewContour()
						current.MoveTo(pt)
					}
				}
			}
			prev = p
		}
	}
	closeRun()
	return result
}

// phaseAt resolves the starting dash-array index, remaining length in
// that segment, and on/off state for a given phase offset, walking the
// pattern cyclically the way a stroke's dash_offset is applied.
func phaseAt(pattern Pattern) (idx int, remaining float64, on bool) {
	total := 0.0
	for _, d := range pattern.Array {
		total += d
	}
	phase := pattern.Offset
	if total > 0 {
		phase = mod(phase, total)
	}
	on = true
	for {
		d := pattern.Array[idx]
		if phase < d {
			return idx, d - phase, on
		}
		phase -= d
		idx = (idx + 1) % len(pattern.Array)
		on = !on
	}
}

func mod(a, m float64) float64 {
	r := a - m*float64(int(a/m))
	if r < 0 {
		r += m
	}
	return r
}
