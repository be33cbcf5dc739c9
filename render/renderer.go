// Package render orchestrates a built Scene through one of the two
// rasterization backends (the host-parallel CPU tiler, or the GPU
// compute pipeline) onto a RenderTarget.
package render

import "github.com/gogpu/rasterkit/scene"

// Renderer executes a built Scene against a target.
//
// Renderers are stateless between Render calls in the sense that the
// same renderer can draw different scenes to different targets in
// sequence; per-frame transient state (tile buffers, the mask
// texture) is allocated and freed within a single Render call.
//
// Thread Safety: a Renderer is not safe for concurrent use from
// multiple goroutines; the scene builder itself is also
// single-threaded per spec's concurrency model.
type Renderer interface {
	// Render draws sc to target, consuming clear_dest_texture on the
	// first draw and loading existing contents for subsequent batches
	// within the same call.
	Render(target RenderTarget, sc *scene.Scene) error

	// Flush ensures all pending GPU work submitted by the last Render
	// call has completed. CPU renderers implement this as a no-op,
	// since CPURenderer.Render already runs synchronously.
	Flush() error
}

// RendererCapabilities describes what a renderer supports, so callers
// choosing between backend A and backend B can decide without a type
// assertion on the concrete renderer type.
type RendererCapabilities struct {
	IsGPU                bool
	SupportsAntialiasing bool
	SupportsBlendModes   bool
	SupportsGradients    bool
	SupportsPatterns     bool
	MaxTextureSize       int
}

// CapableRenderer is implemented by renderers that can report their
// capabilities; both CPURenderer and GPURenderer implement it.
type CapableRenderer interface {
	Renderer
	Capabilities() RendererCapabilities
}
