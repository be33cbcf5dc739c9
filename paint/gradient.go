package paint

import (
	"math"
	"sort"

	"github.com/gogpu/rasterkit/geom"
)

// GradientKind selects linear or radial gradient geometry.
type GradientKind uint8

const (
	GradientLinear GradientKind = iota
	GradientRadial
)

// WrapMode controls how a gradient samples offsets outside [0,1].
type WrapMode uint8

const (
	WrapClamp WrapMode = iota
	WrapRepeat
)

// ColorStop pins a color to a position along the gradient ramp.
type ColorStop struct {
	Offset float32
	Color  Color
}

// Gradient is a linear or radial color ramp. Linear gradients sample
// along the line from P0 to P1; radial gradients sample along the
// cone from the circle centered at P0 with radius R0 to the circle
// centered at P1 with radius R1.
type Gradient struct {
	Kind         GradientKind
	P0, P1       geom.Vec2
	R0, R1       float64
	Wrap         WrapMode
	Transform    geom.Affine
	stops        []ColorStop
	stopsSorted  bool
}

// NewLinearGradient constructs a linear gradient between two points.
func NewLinearGradient(p0, p1 geom.Vec2) *Gradient {
	return &Gradient{Kind: GradientLinear, P0: p0, P1: p1, Transform: geom.Identity()}
}

// NewRadialGradient constructs a radial gradient between two circles.
func NewRadialGradient(p0 geom.Vec2, r0 float64, p1 geom.Vec2, r1 float64) *Gradient {
	return &Gradient{Kind: GradientRadial, P0: p0, R0: r0, P1: p1, R1: r1, Transform: geom.Identity()}
}

// AddColorStop inserts a stop, keeping stops ordered by offset the way
// a new stop is inserted into its sorted position.
func (g *Gradient) AddColorStop(offset float32, c Color) {
	g.stops = append(g.stops, ColorStop{Offset: offset, Color: c})
	g.stopsSorted = false
}

func (g *Gradient) ensureSorted() {
	if g.stopsSorted {
		return
	}
	sort.SliceStable(g.stops, func(i, j int) bool {
		return g.stops[i].Offset < g.stops[j].Offset
	})
	g.stopsSorted = true
}

// Sample evaluates the gradient ramp at offset t. t is wrapped or
// clamped into [0,1] per Wrap before stop lookup.
//
// Stops are searched for the smallest index i with stops[i].offset >=
// t, then the result is the lerp between stops[i-1] and stops[i]. This
// is the fix for the classic off-by-reference-index gradient bug,
// where a nearest-stop search was used in place of a proper bracket
// search and the upper bound was never actually advanced.
func (g *Gradient) Sample(t float64) Color {
	if len(g.stops) == 0 {
		return Color{}
	}
	g.ensureSorted()

	switch g.Wrap {
	case WrapRepeat:
		t = t - math.Floor(t)
	default:
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
	}
	ft := float32(t)

	if len(g.stops) == 1 {
		return g.stops[0].Color
	}
	if ft <= g.stops[0].Offset {
		return g.stops[0].Color
	}
	last := len(g.stops) - 1
	if ft >= g.stops[last].Offset {
		return g.stops[last].Color
	}

	upper := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].Offset >= ft
	})
	lower := upper - 1
	if lower < 0 {
		lower = 0
	}

	lowerStop, upperStop := g.stops[lower], g.stops[upper]
	denom := upperStop.Offset - lowerStop.Offset
	if denom == 0 {
		return lowerStop.Color
	}
	ratio := (ft - lowerStop.Offset) / denom
	if ratio > 1 {
		ratio = 1
	}
	return lowerStop.Color.Lerp(upperStop.Color, ratio)
}

// OffsetAt projects a point in gradient space onto the ramp's [0,1]
// parameterization for linear gradients. Points are expected to
// already be in the space defined by Transform's inverse.
func (g *Gradient) OffsetAt(p geom.Vec2) float64 {
	switch g.Kind {
	case GradientLinear:
		axis := g.P1.Sub(g.P0)
		lenSq := axis.LengthSquared()
		if lenSq < 1e-20 {
			return 0
		}
		return p.Sub(g.P0).Dot(axis) / lenSq
	default:
		return g.radialOffsetAt(p)
	}
}

// radialOffsetAt solves for the largest t, among those whose
// interpolated radius is non-negative, such that p lies on the circle
// interpolated between (P0,R0) and (P1,R1) at parameter t. t is not
// limited to [0,1] here and Wrap is not consulted; Sample clamps or
// wraps it.
func (g *Gradient) radialOffsetAt(p geom.Vec2) float64 {
	dc := g.P1.Sub(g.P0)
	dr := g.R1 - g.R0
	a := dc.LengthSquared() - dr*dr
	pdiff := p.Sub(g.P0)
	b := 2 * (pdiff.Dot(dc) + g.R0*dr)
	c := pdiff.LengthSquared() - g.R0*g.R0

	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return 0
		}
		return c / b
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0
	}
	sq := math.Sqrt(disc)
	t0 := (-b + sq) / (2 * a)
	t1 := (-b - sq) / (2 * a)
	if t0 < t1 {
		t0, t1 = t1, t0
	}
	if g.R0+t0*dr >= 0 {
		return t0
	}
	return t1
}

// IsOpaque reports whether every stop's color is fully opaque.
func (g *Gradient) IsOpaque() bool {
	for _, s := range g.stops {
		if !s.Color.Opaque() {
			return false
		}
	}
	return len(g.stops) > 0
}
