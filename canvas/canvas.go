// Package canvas implements the stateful, save/restore brush-state
// drawing surface built on top of a scene.Scene: the HTML Canvas-like
// public surface that sits above the immediate-mode Scene/DrawPath API
// the teacher's own Context exposes directly over a raw pixmap.
package canvas

import (
	"fmt"
	"image"

	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/cache"
	"github.com/gogpu/rasterkit/dash"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
	"github.com/gogpu/rasterkit/scene"
	"github.com/gogpu/rasterkit/stroke"
)

// Canvas accumulates fill_path/stroke_path/clip_path/draw_image calls
// into a scene.Scene, tracking a save/restore stack of brush state the
// way a 2D canvas context does. A Canvas is not safe for concurrent
// use; build one scene per goroutine.
type Canvas struct {
	scene   *scene.Scene
	state   state
	stack   []state
	strokes *cache.ShardedCache[uint64, *outline.Outline]
}

// NewCanvas returns an empty canvas with the given pixel dimensions
// and default brush state.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		scene:   scene.New(geom.NewRect(0, 0, float64(width), float64(height))),
		state:   defaultState(),
		strokes: newStrokeCache(),
	}
}

// Scene finalizes and returns the canvas's underlying scene, ready to
// hand to a Renderer.
func (c *Canvas) Scene() (*scene.Scene, error) {
	return c.scene.Build()
}

// SaveState pushes a copy of the current brush state onto the
// save/restore stack.
func (c *Canvas) SaveState() {
	c.stack = append(c.stack, c.state)
}

// RestoreState pops the most recently saved brush state, restoring it
// as the live state. A restore with no matching save is a no-op,
// matching the forgiving behavior of the canvas it models.
func (c *Canvas) RestoreState() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// FillPath fills p with the current fill paint, fill rule, clip,
// composite operation, and transform.
func (c *Canvas) FillPath(p *Path) {
	o := p.Outline().Transform(c.state.transform)
	if o.IsEmpty() {
		return
	}
	dp := scene.DrawPath{
		Outline:   o,
		Paint:     c.scene.PushPaint(c.alphaScaled(c.state.fillPaint)),
		FillRule:  c.state.fillRule,
		Clip:      c.state.clip,
		BlendMode: c.state.composite,
	}
	c.applyShadow(&dp)
	c.scene.PushDrawPath(dp)
}

// StrokePath strokes p with the current stroke paint, line style, and
// dash pattern: the path is dashed, then expanded to a fill outline
// whose interior equals the stroke under the even-odd rule (see
// stroke.Expand's doc comment), before the shared
// transform/clip/composite are applied.
func (c *Canvas) StrokePath(p *Path) {
	style := stroke.Style{
		Width:      c.state.lineWidth,
		Cap:        c.state.lineCap,
		Join:       c.state.lineJoin,
		MiterLimit: c.state.miterLimit,
	}
	src := p.Outline()
	key := hashStrokeInput(src, style, c.state.dash)
	filled := c.strokes.GetOrCreate(key, func() *outline.Outline {
		dashed := dash.Apply(src, c.state.dash)
		return stroke.Expand(dashed, style)
	})
	o := filled.Transform(c.state.transform)
	if o.IsEmpty() {
		return
	}
	dp := scene.DrawPath{
		Outline:   o,
		Paint:     c.scene.PushPaint(c.alphaScaled(c.state.strokePaint)),
		FillRule:  outline.FillEvenOdd,
		Clip:      c.state.clip,
		BlendMode: c.state.composite,
	}
	c.applyShadow(&dp)
	c.scene.PushDrawPath(dp)
}

// applyShadow copies the live shadow state onto dp if a shadow is
// active (a non-transparent shadow color and a positive blur radius);
// FillPath and StrokePath both draw silhouettes a shadow can fall
// behind, so both call this before pushing their DrawPath.
func (c *Canvas) applyShadow(dp *scene.DrawPath) {
	if c.state.shadowColor.A <= 0 || c.state.shadowBlur <= 0 {
		return
	}
	dp.ShadowColor = c.state.shadowColor
	dp.ShadowBlur = c.state.shadowBlur
	dp.ShadowOffset = c.state.shadowOffset
}

// ClipPath intersects the current clip with p, replacing the live
// clip with the new, narrower one. The clip persists across
// save/restore the same as any other brush state field.
func (c *Canvas) ClipPath(p *Path) {
	o := p.Outline().Transform(c.state.transform)
	c.state.clip = c.scene.PushClipPath(o, c.state.fillRule, c.state.clip)
}

// FillRect fills the axis-aligned rectangle (x, y, w, h) with the
// current fill paint.
func (c *Canvas) FillRect(x, y, w, h float64) {
	p := NewPath()
	p.Rect(x, y, w, h)
	c.FillPath(p)
}

// StrokeRect strokes the axis-aligned rectangle (x, y, w, h) with the
// current stroke paint.
func (c *Canvas) StrokeRect(x, y, w, h float64) {
	p := NewPath()
	p.Rect(x, y, w, h)
	c.StrokePath(p)
}

// DrawImage draws img into the unit square [0,1]x[0,1] of its own
// coordinate space mapped through transform, composed with the
// canvas's current transform: draw_image's placement is expressed as a
// pattern fill over a unit rect, the same vocabulary an SVG <image>
// reference or a CSS background-image would use.
func (c *Canvas) DrawImage(img image.Image, transform geom.Affine) {
	c.drawPatternRect(paint.NewImagePattern(img, transform, false, false, true))
}

// DrawRenderTarget draws a previously rendered offscreen render target
// the same way DrawImage draws a CPU-side image, bridging scene's
// RenderTargetID into the distinct paint.RenderTargetID paint sources
// carry to avoid a paint<->scene import cycle.
func (c *Canvas) DrawRenderTarget(rt scene.RenderTargetID, transform geom.Affine) {
	c.drawPatternRect(paint.NewRenderTargetPattern(paint.RenderTargetID(rt), transform, false, false, true))
}

func (c *Canvas) drawPatternRect(pat *paint.Pattern) {
	p := NewPath()
	p.Rect(0, 0, 1, 1)
	o := p.Outline().Transform(pat.Transform.Multiply(c.state.transform))
	if o.IsEmpty() {
		return
	}
	c.scene.PushDrawPath(scene.DrawPath{
		Outline:   o,
		Paint:     c.scene.PushPaint(paint.FromPattern(pat)),
		FillRule:  outline.FillNonZero,
		Clip:      c.state.clip,
		BlendMode: c.state.composite,
	})
}

// alphaScaled applies global_alpha to a solid-color paint by scaling
// its alpha channel; gradient and pattern paints pass through
// unmodified since their own stops/samples carry alpha already and
// global_alpha compositing for them belongs at the blend stage, not
// the paint stage.
func (c *Canvas) alphaScaled(p paint.Paint) paint.Paint {
	if c.state.globalAlpha >= 1 || p.Kind != paint.KindColor {
		return p
	}
	col := p.Color
	col.A *= float32(c.state.globalAlpha)
	return paint.SolidColor(col)
}

// PushRenderTarget opens an offscreen render target, directing
// subsequent draws into it until PopRenderTarget; it is the mechanism
// behind save/restore-scoped layers and draw_render_target sources.
func (c *Canvas) PushRenderTarget(width, height int) scene.RenderTargetID {
	return c.scene.PushRenderTarget(width, height)
}

// PopRenderTarget closes the most recently pushed render target.
func (c *Canvas) PopRenderTarget() error {
	if err := c.scene.PopRenderTarget(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	return nil
}

// SetLineWidth sets the width future StrokePath/StrokeRect calls use.
func (c *Canvas) SetLineWidth(w float64) { c.state.lineWidth = w }

// SetLineCap sets the stroke end-cap style.
func (c *Canvas) SetLineCap(lineCap stroke.LineCap) { c.state.lineCap = lineCap }

// SetLineJoin sets the stroke corner-join style.
func (c *Canvas) SetLineJoin(join stroke.LineJoin) { c.state.lineJoin = join }

// SetMiterLimit sets the miter-to-bevel fallback threshold.
func (c *Canvas) SetMiterLimit(limit float64) { c.state.miterLimit = limit }

// SetLineDash sets the dash array future strokes use; an empty or
// all-zero array disables dashing.
func (c *Canvas) SetLineDash(segments []float64) { c.state.dash.Array = segments }

// SetLineDashOffset sets the dash pattern's starting phase.
func (c *Canvas) SetLineDashOffset(offset float64) { c.state.dash.Offset = offset }

// SetFillRule sets the winding rule future FillPath/ClipPath calls use.
func (c *Canvas) SetFillRule(rule outline.FillRule) { c.state.fillRule = rule }

// SetFillPaint sets the paint future FillPath/FillRect calls use.
func (c *Canvas) SetFillPaint(p paint.Paint) { c.state.fillPaint = p }

// SetStrokePaint sets the paint future StrokePath/StrokeRect calls use.
func (c *Canvas) SetStrokePaint(p paint.Paint) { c.state.strokePaint = p }

// SetShadowColor sets the drop shadow color; future FillPath/StrokePath
// calls attach it to their DrawPath whenever it is non-transparent and
// shadow_blur is positive, for a renderer's blur-and-composite pass to
// consume (see applyShadow).
func (c *Canvas) SetShadowColor(col paint.Color) { c.state.shadowColor = col }

// SetShadowBlur sets the drop shadow's Gaussian blur radius.
func (c *Canvas) SetShadowBlur(radius float64) { c.state.shadowBlur = radius }

// SetShadowOffset sets the drop shadow's offset from the source shape.
func (c *Canvas) SetShadowOffset(offset geom.Vec2) { c.state.shadowOffset = offset }

// SetGlobalAlpha sets the alpha multiplier applied to every
// subsequent draw's paint.
func (c *Canvas) SetGlobalAlpha(alpha float64) { c.state.globalAlpha = alpha }

// SetGlobalCompositeOperation sets the Porter-Duff operator future
// draws composite with.
func (c *Canvas) SetGlobalCompositeOperation(mode blend.BlendMode) { c.state.composite = mode }

// SetTransform replaces the active transform with m.
func (c *Canvas) SetTransform(m geom.Affine) { c.state.transform = m }

// GetTransform returns the active transform.
func (c *Canvas) GetTransform() geom.Affine { return c.state.transform }

// Transform composes m onto the active transform: subsequent drawing
// is first transformed by m, then by whatever transform was already
// active, matching the teacher's own compose-not-replace Transform.
func (c *Canvas) Transform(m geom.Affine) {
	c.state.transform = c.state.transform.Multiply(m)
}

// Translate composes a translation onto the active transform.
func (c *Canvas) Translate(tx, ty float64) {
	c.Transform(geom.Translation(tx, ty))
}

// Scale composes a scale onto the active transform.
func (c *Canvas) Scale(sx, sy float64) {
	c.Transform(geom.Scaling(sx, sy))
}
