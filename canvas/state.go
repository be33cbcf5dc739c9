package canvas

import (
	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/dash"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
	"github.com/gogpu/rasterkit/scene"
	"github.com/gogpu/rasterkit/stroke"
)

// state is one plain-value snapshot of the canvas brush state: line
// style, paints, shadow, compositing, and the current transform. It is
// deliberately all-value (no pointers into shared mutable structures
// other than the paints themselves, which are copy-on-write by
// convention) so save/restore can push/pop copies without aliasing the
// live state, per spec's "LIFO of plain value records" design note.
type state struct {
	lineWidth    float64
	lineCap      stroke.LineCap
	lineJoin     stroke.LineJoin
	miterLimit   float64
	dash         dash.Pattern
	fillRule     outline.FillRule
	fillPaint    paint.Paint
	strokePaint  paint.Paint
	shadowColor  paint.Color
	shadowBlur   float64
	shadowOffset geom.Vec2
	globalAlpha  float64
	composite    blend.BlendMode
	transform    geom.Affine
	clip         scene.ClipID
}

// defaultState returns the initial brush state every new Canvas starts
// with (a restore_state without a matching save_state leaves the live
// state as it is rather than resetting to this): 1px black stroke, black fill, opaque, source-over, identity
// transform, no clip.
func defaultState() state {
	black := paint.Color{A: 1}
	return state{
		lineWidth:   1,
		lineCap:     stroke.CapButt,
		lineJoin:    stroke.JoinMiter,
		miterLimit:  4,
		fillRule:    outline.FillNonZero,
		fillPaint:   paint.SolidColor(black),
		strokePaint: paint.SolidColor(black),
		globalAlpha: 1,
		composite:   blend.BlendSourceOver,
		transform:   geom.Identity(),
	}
}
