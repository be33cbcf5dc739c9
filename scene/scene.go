// Package scene assembles a frame's draw and clip paths, render
// target stack, and paint palette into the immutable structure the
// backends tile and render.
package scene

import (
	"fmt"

	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
)

// ClipID references a clip path registered with a Scene. A zero value
// means "no clip".
type ClipID uint32

// RenderTargetID identifies a render target pushed onto a scene's
// target stack.
type RenderTargetID uint32

// ClipPath is a path used to mask the coverage of later draws.
type ClipPath struct {
	Outline  *outline.Outline
	FillRule outline.FillRule
	Clip     ClipID // parent clip to intersect with, 0 if none
}

// DrawPath is one filled path with its paint, fill rule, optional
// clip, and blend mode.
type DrawPath struct {
	Outline   *outline.Outline
	Paint     paint.PaintID
	FillRule  outline.FillRule
	Clip      ClipID
	BlendMode blend.BlendMode

	// ShadowColor, ShadowBlur, and ShadowOffset describe an optional
	// drop shadow rendered beneath this path: a blurred, offset,
	// flat-colored silhouette of the same outline. ShadowColor.A == 0
	// (the zero value) means no shadow.
	ShadowColor  paint.Color
	ShadowBlur   float64
	ShadowOffset geom.Vec2
}

// ItemKind identifies which variant a DisplayItem holds.
type ItemKind uint8

const (
	ItemDrawPaths ItemKind = iota
	ItemPushRenderTarget
	ItemPopRenderTarget
)

// RenderTargetDesc describes a render target pushed mid-scene, e.g.
// for a canvas layer or a filter's intermediate surface.
type RenderTargetDesc struct {
	ID     RenderTargetID
	Width  int
	Height int
}

// DisplayItem is one entry in a scene's command list: a batch of draw
// paths, or a render-target push/pop marking a nested drawing scope.
type DisplayItem struct {
	Kind         ItemKind
	Paths        []DrawPath
	RenderTarget RenderTargetDesc
}

// Scene is the immutable-once-built unit of work handed to a backend:
// a view box, a deduplicated paint palette, a clip-path table, and an
// ordered list of display items.
type Scene struct {
	ViewBox geom.Rect
	Palette *paint.Palette

	clips    []ClipPath
	items    []DisplayItem
	rtStack  []RenderTargetID
	nextRT   RenderTargetID
	epoch    uint64
	hasBatch bool // whether items[len(items)-1] is an open ItemDrawPaths batch
}

// New returns an empty scene with the given initial view box.
func New(viewBox geom.Rect) *Scene {
	return &Scene{
		ViewBox: viewBox,
		Palette: paint.NewPalette(),
		clips:   []ClipPath{{}}, // index 0 reserved for ClipID zero == no clip
	}
}

// SetViewBox replaces the scene's view box, bumping its epoch since
// everything built against the old view box is now stale.
func (s *Scene) SetViewBox(r geom.Rect) {
	s.ViewBox = r
	s.epoch++
}

// GetViewBox returns the scene's current view box.
func (s *Scene) GetViewBox() geom.Rect { return s.ViewBox }

// Epoch returns the scene's current epoch, incremented on any
// structural change (view box, appended sub-scene) that invalidates
// cached state derived from this scene, such as a damage tracker's
// previous-frame baseline.
func (s *Scene) Epoch() uint64 { return s.epoch }

// PushPaint registers a paint and returns its deduplicated id.
func (s *Scene) PushPaint(p paint.Paint) paint.PaintID {
	return s.Palette.Insert(p)
}

// PushClipPath registers a clip path, optionally intersected with an
// existing clip, and returns its id for use by later draw paths.
func (s *Scene) PushClipPath(o *outline.Outline, rule outline.FillRule, parent ClipID) ClipID {
	s.clips = append(s.clips, ClipPath{Outline: o, FillRule: rule, Clip: parent})
	return ClipID(len(s.clips) - 1)
}

// ClipPathByID returns the clip path registered under id.
func (s *Scene) ClipPathByID(id ClipID) (ClipPath, bool) {
	if id == 0 || int(id) >= len(s.clips) {
		return ClipPath{}, false
	}
	return s.clips[id], true
}

// PushDrawPath appends a draw path to the current batch, opening a new
// ItemDrawPaths batch if the previous item was a render target
// push/pop.
func (s *Scene) PushDrawPath(path DrawPath) {
	if !s.hasBatch {
		s.items = append(s.items, DisplayItem{Kind: ItemDrawPaths})
		s.hasBatch = true
	}
	last := &s.items[len(s.items)-1]
	last.Paths = append(last.Paths, path)
}

// PushRenderTarget opens a new render target of the given size and
// returns its id; subsequent draws target it until PopRenderTarget.
func (s *Scene) PushRenderTarget(width, height int) RenderTargetID {
	s.nextRT++
	id := s.nextRT
	s.items = append(s.items, DisplayItem{
		Kind:         ItemPushRenderTarget,
		RenderTarget: RenderTargetDesc{ID: id, Width: width, Height: height},
	})
	s.hasBatch = false
	s.rtStack = append(s.rtStack, id)
	return id
}

// PopRenderTarget closes the most recently pushed render target.
func (s *Scene) PopRenderTarget() error {
	if len(s.rtStack) == 0 {
		return fmt.Errorf("scene: pop_render_target with no render target pushed")
	}
	s.rtStack = s.rtStack[:len(s.rtStack)-1]
	s.items = append(s.items, DisplayItem{Kind: ItemPopRenderTarget})
	s.hasBatch = false
	return nil
}

// AppendScene merges other's items, clips, and palette into s,
// remapping paint and clip ids as needed so the merged scene's ids
// remain internally consistent. Bumps s's epoch.
func (s *Scene) AppendScene(other *Scene) {
	paintRemap := make(map[paint.PaintID]paint.PaintID, other.Palette.Len())
	for i := 0; i < other.Palette.Len(); i++ {
		old := paint.PaintID(i)
		paintRemap[old] = s.Palette.Insert(other.Palette.Get(old))
	}

	clipBase := ClipID(len(s.clips) - 1) // clip 0 is shared "no clip"
	for i := 1; i < len(other.clips); i++ {
		c := other.clips[i]
		if c.Clip != 0 {
			c.Clip += clipBase
		}
		s.clips = append(s.clips, c)
	}

	for _, item := range other.items {
		ni := item
		if item.Kind == ItemDrawPaths {
			ni.Paths = make([]DrawPath, len(item.Paths))
			for i, p := range item.Paths {
				np := p
				np.Paint = paintRemap[p.Paint]
				if p.Clip != 0 {
					np.Clip = p.Clip + clipBase
				}
				ni.Paths[i] = np
			}
		}
		s.items = append(s.items, ni)
		s.hasBatch = ni.Kind == ItemDrawPaths
	}
	s.epoch++
}

// Items returns the scene's finalized display item list.
func (s *Scene) Items() []DisplayItem { return s.items }

// Build finalizes the scene: it returns s unchanged, or an error if a
// pushed render target was never popped.
func (s *Scene) Build() (*Scene, error) {
	if len(s.rtStack) != 0 {
		return nil, fmt.Errorf("scene: build with %d unbalanced render target(s) still pushed", len(s.rtStack))
	}
	return s, nil
}
