package gpucore

// Device abstracts over different GPU backend implementations so the
// tiling backends can record and submit work without knowing whether
// they are driving gogpu/wgpu, a native HAL, or a test double.
//
// Implementations must be safe for concurrent use from multiple
// goroutines.
//
// Resource lifecycle: resources are created via Create* methods and
// must be explicitly destroyed via the matching Destroy* method.
// Destroying a resource while a submitted command encoder still
// references it is undefined behavior; IDs must not be reused after
// destruction.
type Device interface {
	// Capabilities reports the device's fixed limits, queried once at
	// startup.
	Capabilities() AdapterCapabilities

	// CreateShaderModule creates a shader module from SPIR-V bytecode
	// (compiled ahead of time by naga from WGSL or GLSL source).
	CreateShaderModule(spirv []uint32, label string) (ShaderModuleID, error)
	DestroyShaderModule(id ShaderModuleID)

	// CreateBuffer creates a GPU buffer of size bytes for the given
	// usage, backed by the requested memory kind.
	CreateBuffer(size int, usage BufferUsage, memory MemoryKind) (BufferID, error)
	DestroyBuffer(id BufferID)

	// WriteBuffer uploads data to a buffer at the given byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// ReadBuffer downloads size bytes from a buffer at the given byte
	// offset. This may stall the CPU on a GPU fence; it is the
	// synchronization point the renderer uses to read back
	// indirect-draw-params after dice/bin to detect overflow.
	ReadBuffer(id BufferID, offset, size uint64) ([]byte, error)

	// CreateTexture creates a 2D texture in TextureLayoutUndefined.
	CreateTexture(desc *TextureDesc) (TextureID, error)
	DestroyTexture(id TextureID)

	// WriteTexture uploads data matching the texture's format and
	// dimensions.
	WriteTexture(id TextureID, data []byte)

	// ReadTexture downloads a texture's full contents. May stall.
	ReadTexture(id TextureID) ([]byte, error)

	// TransitionTexture records a layout transition, validating that
	// from matches the texture's last known layout.
	TransitionTexture(id TextureID, from, to TextureLayout) error

	// CreateBindGroupLayout / CreatePipelineLayout / CreateBindGroup
	// describe the shape and contents of shader resource bindings.
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)
	DestroyBindGroupLayout(id BindGroupLayoutID)
	CreatePipelineLayout(layouts []BindGroupLayoutID) (PipelineLayoutID, error)
	DestroyPipelineLayout(id PipelineLayoutID)
	CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error)
	DestroyBindGroup(id BindGroupID)

	// CreateComputePipeline compiles a compute pipeline from a single
	// shader module; used for backend B's six compute passes.
	CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error)
	DestroyComputePipeline(id ComputePipelineID)

	// CreateRenderPipeline compiles a render pipeline from a
	// vertex+fragment shader pair; used for the tile program's final
	// composite draw.
	CreateRenderPipeline(desc *RenderPipelineDesc) (RenderPipelineID, error)
	DestroyRenderPipeline(id RenderPipelineID)

	// CreateCommandEncoder begins recording a new command buffer.
	CreateCommandEncoder(label string) CommandEncoder

	// SubmitAndWait submits a recorded encoder and blocks until the
	// GPU has finished executing it. Backend B calls it after every
	// compute pass and after each tile draw.
	SubmitAndWait(enc CommandEncoder) error

	// SubmitAsync submits a recorded encoder without blocking; done is
	// invoked (on an implementation-defined goroutine) once the GPU
	// has finished, or with a non-nil error if submission failed.
	SubmitAsync(enc CommandEncoder, done func(error))

	// CreateSwapChain creates a presentable swap chain sized to the
	// given dimensions and format.
	CreateSwapChain(width, height int, format TextureFormat) (SwapChain, error)

	// WaitIdle waits for all outstanding GPU work to complete. Use
	// sparingly; this is a full GPU-CPU synchronization.
	WaitIdle()
}

// SwapChain presents rendered frames to a surface.
type SwapChain interface {
	// AcquireNextTexture returns the texture to render the next frame
	// into, in TextureLayoutColorAttachment.
	AcquireNextTexture() (TextureID, error)

	// Present transitions the acquired texture to TextureLayoutPresentSrc
	// and hands it to the presentation engine.
	Present() error

	// Resize recreates the swap chain's textures at a new size,
	// e.g. on window resize.
	Resize(width, height int) error
}

// RenderPassDesc describes the color attachment a render pass writes.
type RenderPassDesc struct {
	Label       string
	ColorTarget TextureID
	// Clear, when true, clears ColorTarget to ClearColor before the
	// pass; when false, the pass loads existing contents. This is how
	// the renderer implements clear_dest_texture semantics: true only
	// on a batch's first draw of the frame.
	Clear      bool
	ClearColor [4]float32
}

// CommandEncoder records a sequence of GPU commands for later
// submission. An encoder is single-use: once submitted it must be
// discarded.
type CommandEncoder interface {
	// BeginRenderPass starts a render pass against desc.ColorTarget.
	// The returned encoder must be ended with End() before any other
	// pass is begun on the same CommandEncoder.
	BeginRenderPass(desc RenderPassDesc) RenderPassEncoder

	// BeginComputePass starts a compute pass. The returned encoder
	// must be ended with End() before any other pass is begun.
	BeginComputePass(label string) ComputePassEncoder

	// WriteBuffer records a buffer upload as part of this command
	// buffer, ordered relative to the passes recorded around it.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// WriteTexture records a texture upload as part of this command
	// buffer.
	WriteTexture(id TextureID, data []byte)
}

// RenderPassEncoder records draw commands within one render pass.
type RenderPassEncoder interface {
	SetPipeline(id RenderPipelineID)
	SetVertexBuffer(slot uint32, buffer BufferID, offset uint64)
	SetBindGroup(index uint32, group BindGroupID)

	// Draw issues a non-instanced draw call.
	Draw(vertexCount, firstVertex uint32)

	// DrawInstanced issues an instanced draw call, used by the tile
	// program to draw one instanced quad per visible screen tile.
	DrawInstanced(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End finishes the render pass. The encoder cannot be used again.
	End()
}

// ComputePassEncoder records dispatch commands within one compute pass.
//
// Usage:
//  1. Obtain via CommandEncoder.BeginComputePass
//  2. SetPipeline, SetBindGroup
//  3. Dispatch one or more times
//  4. End()
type ComputePassEncoder interface {
	SetPipeline(id ComputePipelineID)
	SetBindGroup(index uint32, group BindGroupID)

	// Dispatch dispatches x*y*z workgroups. Total invocations equal
	// x*y*z times the pipeline's declared workgroup size.
	Dispatch(x, y, z uint32)

	// End finishes the compute pass. The encoder cannot be used again.
	End()
}
