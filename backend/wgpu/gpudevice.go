package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rasterkit/gpucore"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// Device implements gpucore.Device against github.com/gogpu/wgpu's core
// bindings. It owns the logical device and queue obtained from
// newLogicalDevice/deviceQueueOf and translates gpucore's generic
// resource descriptors into the corresponding core/types calls, the
// way the teacher's own backend/wgpu package sketched (as TODO-commented
// calls against core.CreateBindGroupLayout/CreateComputePipeline/
// CreateBindGroup) before wiring them up for real.
type Device struct {
	adapter core.AdapterID
	device  core.DeviceID
	queue   core.QueueID
	caps    gpucore.AdapterCapabilities

	mu        sync.Mutex
	texLayout map[gpucore.TextureID]gpucore.TextureLayout
	host      gpucontext.DeviceProvider
}

// Open selects adapterID, creates a logical device and queue, and
// queries its limits into a gpucore.AdapterCapabilities.
func Open(adapterID core.AdapterID, label string) (*Device, error) {
	logAdapterSelection(adapterID)

	deviceID, err := newLogicalDevice(adapterID, label)
	if err != nil {
		return nil, err
	}
	queueID, err := deviceQueueOf(deviceID)
	if err != nil {
		_ = dropDevice(deviceID)
		return nil, err
	}

	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		_ = dropDevice(deviceID)
		return nil, fmt.Errorf("wgpu: query device limits: %w", err)
	}

	return &Device{
		adapter: adapterID,
		device:  deviceID,
		queue:   queueID,
		caps:    capabilitiesFromLimits(limits),
		texLayout: make(map[gpucore.TextureID]gpucore.TextureLayout),
	}, nil
}

func capabilitiesFromLimits(l types.Limits) gpucore.AdapterCapabilities {
	return gpucore.AdapterCapabilities{
		SupportsCompute:                  true,
		MaxWorkgroupSizeX:                l.MaxComputeWorkgroupSizeX,
		MaxWorkgroupSizeY:                l.MaxComputeWorkgroupSizeY,
		MaxWorkgroupSizeZ:                l.MaxComputeWorkgroupSizeZ,
		MaxWorkgroupInvocations:          l.MaxComputeInvocationsPerWorkgroup,
		MaxBufferSize:                    l.MaxBufferSize,
		MaxStorageBufferBindingSize:      l.MaxStorageBufferBindingSize,
		MaxComputeWorkgroupsPerDimension: l.MaxComputeWorkgroupsPerDimension,
		MaxTextureDimension2D:            l.MaxTextureDimension2D,
	}
}

// Close releases the device and its adapter. The Device must not be
// used afterward.
func (d *Device) Close() error {
	if err := dropDevice(d.device); err != nil {
		return err
	}
	return dropAdapter(d.adapter)
}

// BindHost associates this device with a host application's shared
// gpucontext.DeviceProvider for diagnostic purposes: a host embedding
// this backend inside its own GPU context (rather than letting Open
// pick an adapter) calls BindHost once after construction so log
// output can distinguish an owned adapter from a borrowed one.
func (d *Device) BindHost(handle gpucontext.DeviceProvider) {
	d.mu.Lock()
	d.host = handle
	d.mu.Unlock()
	describeHostDevice(handle)
}

func (d *Device) Capabilities() gpucore.AdapterCapabilities { return d.caps }

func (d *Device) CreateShaderModule(spirv []uint32, label string) (gpucore.ShaderModuleID, error) {
	id, err := core.CreateShaderModule(d.device, &types.ShaderModuleDescriptor{
		Label: label,
		Code:  spirv,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create shader module %q: %w", label, err)
	}
	return gpucore.ShaderModuleID(id.Raw()), nil
}

func (d *Device) DestroyShaderModule(id gpucore.ShaderModuleID) {
	_ = core.ShaderModuleDrop(core.ShaderModuleIDFromRaw(uint64(id)))
}

func (d *Device) CreateBuffer(size int, usage gpucore.BufferUsage, memory gpucore.MemoryKind) (gpucore.BufferID, error) {
	id, err := core.CreateBuffer(d.device, &types.BufferDescriptor{
		Size:           uint64(size),
		Usage:          bufferUsageFlags(usage),
		MappedAtCreation: memory == gpucore.MemoryHostVisibleCoherent,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	return gpucore.BufferID(id.Raw()), nil
}

func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	_ = core.BufferDrop(core.BufferIDFromRaw(uint64(id)))
}

func (d *Device) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	_ = core.QueueWriteBuffer(d.queue, core.BufferIDFromRaw(uint64(id)), offset, data)
}

func (d *Device) ReadBuffer(id gpucore.BufferID, offset, size uint64) ([]byte, error) {
	data, err := core.BufferReadSync(d.device, core.BufferIDFromRaw(uint64(id)), offset, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: read buffer: %w", err)
	}
	return data, nil
}

func (d *Device) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	id, err := core.CreateTexture(d.device, &types.TextureDescriptor{
		Label:  desc.Label,
		Width:  uint32(desc.Width),
		Height: uint32(desc.Height),
		Format: textureFormatOf(desc.Format),
		Usage:  textureUsageFlags(desc.Usage),
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	tid := gpucore.TextureID(id.Raw())
	d.mu.Lock()
	d.texLayout[tid] = gpucore.TextureLayoutUndefined
	d.mu.Unlock()
	return tid, nil
}

func (d *Device) DestroyTexture(id gpucore.TextureID) {
	_ = core.TextureDrop(core.TextureIDFromRaw(uint64(id)))
	d.mu.Lock()
	delete(d.texLayout, id)
	d.mu.Unlock()
}

func (d *Device) WriteTexture(id gpucore.TextureID, data []byte) {
	_ = core.QueueWriteTexture(d.queue, core.TextureIDFromRaw(uint64(id)), data)
}

func (d *Device) ReadTexture(id gpucore.TextureID) ([]byte, error) {
	data, err := core.TextureReadSync(d.device, core.TextureIDFromRaw(uint64(id)))
	if err != nil {
		return nil, fmt.Errorf("wgpu: read texture: %w", err)
	}
	return data, nil
}

func (d *Device) TransitionTexture(id gpucore.TextureID, from, to gpucore.TextureLayout) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.texLayout[id]
	if !ok {
		return fmt.Errorf("wgpu: transition unknown texture %d", id)
	}
	if cur != from {
		return fmt.Errorf("wgpu: transition texture %d: expected current layout %v, got %v", id, from, cur)
	}
	d.texLayout[id] = to
	return nil
}

func (d *Device) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	entries := make([]types.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = types.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: types.ShaderStageCompute | types.ShaderStageFragment | types.ShaderStageVertex,
		}
		switch e.Type {
		case gpucore.BindingTypeUniformBuffer:
			entries[i].Buffer = &types.BufferBindingLayout{Type: types.BufferBindingTypeUniform, MinBindingSize: e.MinBindingSize}
		case gpucore.BindingTypeStorageBuffer:
			entries[i].Buffer = &types.BufferBindingLayout{Type: types.BufferBindingTypeStorage, MinBindingSize: e.MinBindingSize}
		case gpucore.BindingTypeReadOnlyStorageBuffer:
			entries[i].Buffer = &types.BufferBindingLayout{Type: types.BufferBindingTypeReadOnlyStorage, MinBindingSize: e.MinBindingSize}
		case gpucore.BindingTypeSampler:
			entries[i].Sampler = &types.SamplerBindingLayout{Type: types.SamplerBindingTypeFiltering}
		case gpucore.BindingTypeSampledTexture:
			entries[i].Texture = &types.TextureBindingLayout{SampleType: types.TextureSampleTypeFloat, ViewDimension: types.TextureViewDimension2D}
		case gpucore.BindingTypeStorageTexture:
			entries[i].StorageTexture = &types.StorageTextureBindingLayout{ViewDimension: types.TextureViewDimension2D}
		}
	}
	id, err := core.CreateBindGroupLayout(d.device, &types.BindGroupLayoutDescriptor{Label: desc.Label, Entries: entries})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create bind group layout %q: %w", desc.Label, err)
	}
	return gpucore.BindGroupLayoutID(id.Raw()), nil
}

func (d *Device) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	_ = core.BindGroupLayoutDrop(core.BindGroupLayoutIDFromRaw(uint64(id)))
}

func (d *Device) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	ids := make([]core.BindGroupLayoutID, len(layouts))
	for i, l := range layouts {
		ids[i] = core.BindGroupLayoutIDFromRaw(uint64(l))
	}
	id, err := core.CreatePipelineLayout(d.device, &types.PipelineLayoutDescriptor{BindGroupLayouts: ids})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	return gpucore.PipelineLayoutID(id.Raw()), nil
}

func (d *Device) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	_ = core.PipelineLayoutDrop(core.PipelineLayoutIDFromRaw(uint64(id)))
}

func (d *Device) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	entries := make([]types.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = types.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  core.BufferIDFromRaw(uint64(e.Buffer)),
			Offset:  e.Offset,
			Size:    e.Size,
			Texture: core.TextureIDFromRaw(uint64(e.Texture)),
		}
	}
	id, err := core.CreateBindGroup(d.device, &types.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  core.BindGroupLayoutIDFromRaw(uint64(desc.Layout)),
		Entries: entries,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create bind group %q: %w", desc.Label, err)
	}
	return gpucore.BindGroupID(id.Raw()), nil
}

func (d *Device) DestroyBindGroup(id gpucore.BindGroupID) {
	_ = core.BindGroupDrop(core.BindGroupIDFromRaw(uint64(id)))
}

func (d *Device) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	id, err := core.CreateComputePipeline(d.device, &types.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: core.PipelineLayoutIDFromRaw(uint64(desc.Layout)),
		Compute: types.ProgrammableStageDescriptor{
			Module:     core.ShaderModuleIDFromRaw(uint64(desc.ShaderModule)),
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create compute pipeline %q: %w", desc.Label, err)
	}
	return gpucore.ComputePipelineID(id.Raw()), nil
}

func (d *Device) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	_ = core.ComputePipelineDrop(core.ComputePipelineIDFromRaw(uint64(id)))
}

func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	buffers := make([]types.VertexBufferLayout, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		attrs := make([]types.VertexAttribute, len(vb.Attributes))
		for j, a := range vb.Attributes {
			attrs[j] = types.VertexAttribute{ShaderLocation: a.Location, Offset: a.Offset, Format: vertexFormatOf(a.Format)}
		}
		buffers[i] = types.VertexBufferLayout{
			ArrayStride: vb.Stride,
			StepMode:    vertexStepModeOf(vb.StepMode),
			Attributes:  attrs,
		}
	}

	var blend *types.BlendState
	if desc.Blend != nil {
		blend = &types.BlendState{
			Color: types.BlendComponent{SrcFactor: blendFactorOf(desc.Blend.Color.SrcFactor), DstFactor: blendFactorOf(desc.Blend.Color.DstFactor), Operation: types.BlendOperationAdd},
			Alpha: types.BlendComponent{SrcFactor: blendFactorOf(desc.Blend.Alpha.SrcFactor), DstFactor: blendFactorOf(desc.Blend.Alpha.DstFactor), Operation: types.BlendOperationAdd},
		}
	}

	id, err := core.CreateRenderPipeline(d.device, &types.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: core.PipelineLayoutIDFromRaw(uint64(desc.Layout)),
		Vertex: types.VertexState{
			Module:     core.ShaderModuleIDFromRaw(uint64(desc.VertexModule)),
			EntryPoint: desc.VertexEntry,
			Buffers:    buffers,
		},
		Fragment: &types.FragmentState{
			Module:     core.ShaderModuleIDFromRaw(uint64(desc.FragmentModule)),
			EntryPoint: desc.FragmentEntry,
			Targets: []types.ColorTargetState{
				{Format: textureFormatOf(desc.ColorFormat), Blend: blend},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create render pipeline %q: %w", desc.Label, err)
	}
	return gpucore.RenderPipelineID(id.Raw()), nil
}

func (d *Device) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	_ = core.RenderPipelineDrop(core.RenderPipelineIDFromRaw(uint64(id)))
}

func (d *Device) CreateCommandEncoder(label string) gpucore.CommandEncoder {
	id, err := core.CreateCommandEncoder(d.device, &types.CommandEncoderDescriptor{Label: label})
	if err != nil {
		// core.CommandEncoderID is a value type; an encoder that failed
		// to allocate records its error and surfaces it on Submit rather
		// than forcing every recording call to return one.
		return &commandEncoder{device: d, err: fmt.Errorf("wgpu: create command encoder %q: %w", label, err)}
	}
	return &commandEncoder{device: d, id: id}
}

func (d *Device) SubmitAndWait(enc gpucore.CommandEncoder) error {
	ce, ok := enc.(*commandEncoder)
	if !ok {
		return fmt.Errorf("wgpu: SubmitAndWait called with a foreign CommandEncoder")
	}
	if ce.err != nil {
		return ce.err
	}
	buf, err := core.CommandEncoderFinish(ce.id)
	if err != nil {
		return fmt.Errorf("wgpu: finish command encoder: %w", err)
	}
	if err := core.QueueSubmit(d.queue, []core.CommandBufferID{buf}); err != nil {
		return fmt.Errorf("wgpu: submit command buffer: %w", err)
	}
	return core.QueueWaitIdle(d.queue)
}

func (d *Device) SubmitAsync(enc gpucore.CommandEncoder, done func(error)) {
	go func() { done(d.SubmitAndWait(enc)) }()
}

func (d *Device) CreateSwapChain(width, height int, format gpucore.TextureFormat) (gpucore.SwapChain, error) {
	return nil, fmt.Errorf("wgpu: CreateSwapChain requires a platform surface handle, use OpenSwapChain")
}

func (d *Device) WaitIdle() {
	_ = core.QueueWaitIdle(d.queue)
}

func bufferUsageFlags(u gpucore.BufferUsage) types.BufferUsage {
	var out types.BufferUsage
	if u&gpucore.BufferUsageMapRead != 0 {
		out |= types.BufferUsageMapRead
	}
	if u&gpucore.BufferUsageMapWrite != 0 {
		out |= types.BufferUsageMapWrite
	}
	if u&gpucore.BufferUsageCopySrc != 0 {
		out |= types.BufferUsageCopySrc
	}
	if u&gpucore.BufferUsageCopyDst != 0 {
		out |= types.BufferUsageCopyDst
	}
	if u&gpucore.BufferUsageIndex != 0 {
		out |= types.BufferUsageIndex
	}
	if u&gpucore.BufferUsageVertex != 0 {
		out |= types.BufferUsageVertex
	}
	if u&gpucore.BufferUsageUniform != 0 {
		out |= types.BufferUsageUniform
	}
	if u&gpucore.BufferUsageStorage != 0 {
		out |= types.BufferUsageStorage
	}
	if u&gpucore.BufferUsageIndirect != 0 {
		out |= types.BufferUsageIndirect
	}
	return out
}

func textureUsageFlags(u gpucore.TextureUsage) types.TextureUsage {
	var out types.TextureUsage
	if u&gpucore.TextureUsageCopySrc != 0 {
		out |= types.TextureUsageCopySrc
	}
	if u&gpucore.TextureUsageCopyDst != 0 {
		out |= types.TextureUsageCopyDst
	}
	if u&gpucore.TextureUsageTextureBinding != 0 {
		out |= types.TextureUsageTextureBinding
	}
	if u&gpucore.TextureUsageStorageBinding != 0 {
		out |= types.TextureUsageStorageBinding
	}
	if u&gpucore.TextureUsageRenderAttachment != 0 {
		out |= types.TextureUsageRenderAttachment
	}
	return out
}

func textureFormatOf(f gpucore.TextureFormat) types.TextureFormat {
	switch f {
	case gpucore.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm
	case gpucore.TextureFormatRGBA8UnormSRGB:
		return types.TextureFormatRGBA8UnormSrgb
	case gpucore.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	case gpucore.TextureFormatBGRA8UnormSRGB:
		return types.TextureFormatBGRA8UnormSrgb
	case gpucore.TextureFormatRGBA16Float:
		return types.TextureFormatRGBA16Float
	case gpucore.TextureFormatR8Unorm:
		return types.TextureFormatR8Unorm
	case gpucore.TextureFormatR32Float:
		return types.TextureFormatR32Float
	case gpucore.TextureFormatRG32Float:
		return types.TextureFormatRG32Float
	case gpucore.TextureFormatRGBA32Float:
		return types.TextureFormatRGBA32Float
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

func vertexFormatOf(f gpucore.VertexFormat) types.VertexFormat {
	switch f {
	case gpucore.VertexFormatFloat32:
		return types.VertexFormatFloat32
	case gpucore.VertexFormatFloat32x2:
		return types.VertexFormatFloat32x2
	case gpucore.VertexFormatFloat32x3:
		return types.VertexFormatFloat32x3
	case gpucore.VertexFormatFloat32x4:
		return types.VertexFormatFloat32x4
	case gpucore.VertexFormatUint32:
		return types.VertexFormatUint32
	case gpucore.VertexFormatUint32x2:
		return types.VertexFormatUint32x2
	default:
		return types.VertexFormatFloat32
	}
}

func vertexStepModeOf(m gpucore.VertexStepMode) types.VertexStepMode {
	if m == gpucore.VertexStepPerInstance {
		return types.VertexStepModeInstance
	}
	return types.VertexStepModeVertex
}

func blendFactorOf(f gpucore.BlendFactor) types.BlendFactor {
	if f == gpucore.BlendFactorOneMinusSrcAlpha {
		return types.BlendFactorOneMinusSrcAlpha
	}
	return types.BlendFactorOne
}

var _ gpucore.Device = (*Device)(nil)
