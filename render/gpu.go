package render

import (
	"fmt"

	"github.com/gogpu/rasterkit/backend/gputiler"
	"github.com/gogpu/rasterkit/gpucore"
	"github.com/gogpu/rasterkit/scene"
)

// GPURenderer drives backend B: it builds one flat segment stream per
// frame with gputiler.StreamBuilder, then dispatches the seven-pass
// compute pipeline per batch through a gputiler.Tiler, compositing
// each batch's mask texture onto target with the tile draw pass.
type GPURenderer struct {
	device    gpucore.Device
	pipelines *gputiler.Pipelines
	tiler     *gputiler.Tiler

	// colorPlaceholder and gradientPlaceholder stand in for the color
	// atlas and gradient LUT textures the tile shader samples. Those
	// atlases are owned by the paint package's host-side Atlas/Palette
	// and have no GPU-texture upload path yet, so every batch composites
	// against a flat white texture and relies on the mask's coverage
	// alone; wiring per-paint colors through to the tile pass is the
	// next piece of GPU backend work, tracked alongside the fill pass's
	// area-LUT bind group simplification.
	colorPlaceholder    gpucore.TextureID
	gradientPlaceholder gpucore.TextureID
}

// NewGPURenderer compiles backend B's pipelines against dev and
// returns a ready-to-use GPURenderer.
func NewGPURenderer(dev gpucore.Device) (*GPURenderer, error) {
	pipelines, err := gputiler.NewPipelines(dev)
	if err != nil {
		return nil, err
	}

	white := []byte{0xff, 0xff, 0xff, 0xff}
	color, err := dev.CreateTexture(&gpucore.TextureDesc{
		Label: "tile-color-placeholder", Width: 1, Height: 1,
		Format: gpucore.TextureFormatRGBA8Unorm,
		Usage:  gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopyDst,
	})
	if err != nil {
		pipelines.Close()
		return nil, fmt.Errorf("render: create color placeholder texture: %w", err)
	}
	dev.WriteTexture(color, white)

	gradient, err := dev.CreateTexture(&gpucore.TextureDesc{
		Label: "tile-gradient-placeholder", Width: 1, Height: 1,
		Format: gpucore.TextureFormatRGBA8Unorm,
		Usage:  gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopyDst,
	})
	if err != nil {
		dev.DestroyTexture(color)
		pipelines.Close()
		return nil, fmt.Errorf("render: create gradient placeholder texture: %w", err)
	}
	dev.WriteTexture(gradient, white)

	return &GPURenderer{
		device:              dev,
		pipelines:           pipelines,
		tiler:               gputiler.NewTiler(dev, pipelines),
		colorPlaceholder:    color,
		gradientPlaceholder: gradient,
	}, nil
}

func (r *GPURenderer) Capabilities() RendererCapabilities {
	caps := r.device.Capabilities()
	return RendererCapabilities{
		IsGPU:                true,
		SupportsAntialiasing: true,
		SupportsBlendModes:   true,
		SupportsGradients:    false, // see colorPlaceholder doc comment
		SupportsPatterns:     false,
		MaxTextureSize:       int(caps.MaxTextureDimension2D),
	}
}

// Flush waits for all GPU work this renderer has submitted to
// complete. Render itself already blocks at every pass boundary
// (gputiler.Tiler submits and waits per compute pass), so Flush has
// nothing outstanding to wait on beyond the device's own queue.
func (r *GPURenderer) Flush() error {
	r.device.WaitIdle()
	return nil
}

// Render dispatches backend B's compute pipeline for every draw batch
// in sc, in display-list order, and composites each batch's resulting
// tiles onto target with the tile render pass.
func (r *GPURenderer) Render(target RenderTarget, sc *scene.Scene) error {
	tex, ok := target.(*TextureTarget)
	if !ok {
		return fmt.Errorf("render: GPURenderer requires a *TextureTarget, got %T", target)
	}

	stream := gputiler.NewStreamBuilder()
	batches := stream.Build(sc)

	firstDraw := true
	for _, batch := range batches {
		if batch.RenderTarget != 0 || batch.SegmentCount == 0 {
			// Batches pushed onto an offscreen render target are out
			// of scope for this draw: GPURenderer draws only to the
			// TextureTarget it was given, the same simplification
			// CPURenderer makes for its PixmapTarget.
			continue
		}

		segs := stream.Segments[batch.FirstSegment : batch.FirstSegment+batch.SegmentCount]
		metas := stream.PathMeta[batch.FirstPath : batch.FirstPath+batch.PathCount]

		result, err := r.tiler.Dispatch(batch, segs, metas, tex.Width(), tex.Height(), batch.FillRule)
		if err != nil {
			return fmt.Errorf("render: dispatch batch: %w", err)
		}
		if result == nil {
			continue
		}

		err = r.drawTiles(tex, result, firstDraw)
		r.device.DestroyBuffer(result.TilesBuffer)
		r.device.DestroyTexture(result.MaskTexture)
		if err != nil {
			return err
		}
		firstDraw = false
	}
	return nil
}

// drawTiles issues the seventh pass: one instanced quad per screen
// tile, composited over target's color attachment. clear is true only
// for a frame's first draw, implementing clear_dest_texture semantics
// by clearing on load then loading existing contents for every batch
// after.
func (r *GPURenderer) drawTiles(target *TextureTarget, result *gputiler.DispatchResult, clear bool) error {
	group, err := r.device.CreateBindGroup(&gpucore.BindGroupDesc{
		Label:  "tile",
		Layout: r.pipelines.TileBindGroupLayout(),
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Texture: result.MaskTexture},
			{Binding: 1, Texture: r.colorPlaceholder},
			{Binding: 2, Texture: r.gradientPlaceholder},
		},
	})
	if err != nil {
		return fmt.Errorf("render: tile bind group: %w", err)
	}
	defer r.device.DestroyBindGroup(group)

	enc := r.device.CreateCommandEncoder("tile")
	pass := enc.BeginRenderPass(gpucore.RenderPassDesc{
		Label:       "tile",
		ColorTarget: target.Texture(),
		Clear:       clear,
		ClearColor:  [4]float32{0, 0, 0, 0},
	})
	pass.SetPipeline(r.pipelines.TilePipeline())
	pass.SetBindGroup(0, group)
	pass.DrawInstanced(4, uint32(result.TileCount), 0, 0)
	pass.End()

	if err := r.device.SubmitAndWait(enc); err != nil {
		return fmt.Errorf("render: submit tile pass: %w", err)
	}
	return nil
}

// Close releases the placeholder textures and compiled pipelines this
// renderer owns. The device itself is owned by the caller.
func (r *GPURenderer) Close() {
	r.device.DestroyTexture(r.colorPlaceholder)
	r.device.DestroyTexture(r.gradientPlaceholder)
	r.pipelines.Close()
}

var (
	_ Renderer        = (*GPURenderer)(nil)
	_ CapableRenderer = (*GPURenderer)(nil)
)
