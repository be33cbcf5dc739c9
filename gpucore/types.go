package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Device implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	BufferUsageMapRead  BufferUsage = 1 << 0
	BufferUsageMapWrite BufferUsage = 1 << 1
	BufferUsageCopySrc  BufferUsage = 1 << 2
	BufferUsageCopyDst  BufferUsage = 1 << 3
	BufferUsageIndex    BufferUsage = 1 << 4
	BufferUsageVertex   BufferUsage = 1 << 5
	BufferUsageUniform  BufferUsage = 1 << 6
	BufferUsageStorage  BufferUsage = 1 << 7
	BufferUsageIndirect BufferUsage = 1 << 8
)

// MemoryKind selects where a buffer's backing storage lives.
type MemoryKind uint8

const (
	// MemoryDeviceLocal is fast device-local memory, not host-visible.
	MemoryDeviceLocal MemoryKind = iota
	// MemoryHostVisibleCoherent is mappable and stays coherent with the
	// device without an explicit flush, at the cost of bandwidth.
	MemoryHostVisibleCoherent
)

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats. RGBA8Unorm/BGRA8Unorm/their sRGB variants and RGBA16Float
// are the swap-chain and render-attachment formats; the R8/R32/RG32/RGBA32
// float formats back the mask, gradient LUT, and coverage-accumulation
// textures that never touch a swap chain.
const (
	TextureFormatRGBA8Unorm TextureFormat = iota + 1
	TextureFormatRGBA8UnormSRGB
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSRGB
	TextureFormatRGBA16Float
	TextureFormatR8Unorm
	TextureFormatR32Float
	TextureFormatRG32Float
	TextureFormatRGBA32Float
)

// TextureLayout is a texture's current access/transition state, matching
// the layout transitions a real device must expose before a texture can
// be sampled, written, or presented.
type TextureLayout uint32

const (
	TextureLayoutUndefined TextureLayout = iota
	TextureLayoutShaderReadOnly
	TextureLayoutGeneral
	TextureLayoutColorAttachment
	TextureLayoutTransferSrc
	TextureLayoutTransferDst
	TextureLayoutPresentSrc
)

// FilterMode selects how a sampled texture interpolates between texels.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc          TextureUsage = 1 << 0
	TextureUsageCopyDst          TextureUsage = 1 << 1
	TextureUsageTextureBinding   TextureUsage = 1 << 2
	TextureUsageStorageBinding   TextureUsage = 1 << 3
	TextureUsageRenderAttachment TextureUsage = 1 << 4
)

// TextureDesc describes a 2D texture to create.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	Format TextureFormat
	Usage  TextureUsage
}

// BindingType specifies the type of a shader binding.
type BindingType uint32

const (
	BindingTypeUniformBuffer BindingType = iota + 1
	BindingTypeStorageBuffer
	BindingTypeReadOnlyStorageBuffer
	BindingTypeSampler
	BindingTypeSampledTexture
	BindingTypeStorageTexture
)

// ComputePipelineDesc describes a compute pipeline compiled from a single
// shader module.
type ComputePipelineDesc struct {
	Label        string
	Layout       PipelineLayoutID
	ShaderModule ShaderModuleID
	EntryPoint   string
}

// VertexStepMode selects whether a vertex buffer advances per vertex or
// per instance.
type VertexStepMode uint8

const (
	VertexStepPerVertex VertexStepMode = iota
	VertexStepPerInstance
)

// VertexFormat names the scalar/vector layout of one vertex attribute.
type VertexFormat uint32

const (
	VertexFormatFloat32 VertexFormat = iota + 1
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
	VertexFormatUint32x2
)

// VertexAttribute describes one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Location uint32
	Offset   uint64
	Format   VertexFormat
}

// VertexBufferLayout describes one bound vertex buffer's stride and the
// attributes read from it.
type VertexBufferLayout struct {
	Stride     uint64
	StepMode   VertexStepMode
	Attributes []VertexAttribute
}

// BlendFactor names a Porter-Duff blend factor. The device surface only
// needs to express the two factors the tile program actually issues;
// everything else is resolved on the CPU or in the compute pipeline
// before the render pass.
type BlendFactor uint8

const (
	BlendFactorOne BlendFactor = iota
	BlendFactorOneMinusSrcAlpha
)

// BlendComponent describes one channel (color or alpha) of a blend state.
type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
}

// BlendState describes the fixed-function blend stage of a render
// pipeline.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// RenderPipelineDesc describes a render pipeline compiled from a vertex
// and fragment shader module pair.
type RenderPipelineDesc struct {
	Label          string
	Layout         PipelineLayoutID
	VertexModule   ShaderModuleID
	VertexEntry    string
	FragmentModule ShaderModuleID
	FragmentEntry  string
	VertexBuffers  []VertexBufferLayout
	ColorFormat    TextureFormat
	Blend          *BlendState // nil disables blending (opaque overwrite)
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	Binding        uint32
	Type           BindingType
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	Binding uint32
	Buffer  BufferID
	Offset  uint64
	Size    uint64
	Texture TextureID
}

// BindGroupDesc describes a bind group.
type BindGroupDesc struct {
	Label   string
	Layout  BindGroupLayoutID
	Entries []BindGroupEntry
}

// AdapterCapabilities describes a device's fixed limits, queried once at
// startup so the tiling backends can size their dispatches and buffers
// within what the hardware actually supports.
type AdapterCapabilities struct {
	SupportsCompute bool

	MaxWorkgroupSizeX uint32
	MaxWorkgroupSizeY uint32
	MaxWorkgroupSizeZ uint32

	MaxWorkgroupInvocations uint32

	MaxBufferSize               uint64
	MaxStorageBufferBindingSize uint64

	MaxComputeWorkgroupsPerDimension uint32

	MaxTextureDimension2D uint32
}
