package wgpu

import (
	"fmt"

	"github.com/gogpu/rasterkit/gpucore"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// commandEncoder implements gpucore.CommandEncoder against a single
// core.CommandEncoderID. A nil id with a non-nil err means allocation
// failed in CreateCommandEncoder; every recording call becomes a no-op
// so callers can keep recording against a uniform interface and the
// error only surfaces once, at Submit.
type commandEncoder struct {
	device *Device
	id     core.CommandEncoderID
	err    error
}

func (e *commandEncoder) BeginRenderPass(desc gpucore.RenderPassDesc) gpucore.RenderPassEncoder {
	if e.err != nil {
		return &renderPassEncoder{err: e.err}
	}
	pass, err := core.CommandEncoderBeginRenderPass(e.id, &types.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []types.RenderPassColorAttachment{
			{
				View:       core.TextureIDFromRaw(uint64(desc.ColorTarget)),
				LoadOp:     loadOpOf(desc.Clear),
				StoreOp:    types.StoreOpStore,
				ClearValue: types.Color{R: float64(desc.ClearColor[0]), G: float64(desc.ClearColor[1]), B: float64(desc.ClearColor[2]), A: float64(desc.ClearColor[3])},
			},
		},
	})
	if err != nil {
		e.err = fmt.Errorf("wgpu: begin render pass %q: %w", desc.Label, err)
		return &renderPassEncoder{err: e.err}
	}
	return &renderPassEncoder{pass: pass}
}

func (e *commandEncoder) BeginComputePass(label string) gpucore.ComputePassEncoder {
	if e.err != nil {
		return &computePassEncoder{err: e.err}
	}
	pass, err := core.CommandEncoderBeginComputePass(e.id, &types.ComputePassDescriptor{Label: label})
	if err != nil {
		e.err = fmt.Errorf("wgpu: begin compute pass %q: %w", label, err)
		return &computePassEncoder{err: e.err}
	}
	return &computePassEncoder{pass: pass}
}

func (e *commandEncoder) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	if e.err != nil {
		return
	}
	if err := core.CommandEncoderWriteBuffer(e.id, core.BufferIDFromRaw(uint64(id)), offset, data); err != nil {
		e.err = fmt.Errorf("wgpu: record buffer write: %w", err)
	}
}

func (e *commandEncoder) WriteTexture(id gpucore.TextureID, data []byte) {
	if e.err != nil {
		return
	}
	if err := core.CommandEncoderWriteTexture(e.id, core.TextureIDFromRaw(uint64(id)), data); err != nil {
		e.err = fmt.Errorf("wgpu: record texture write: %w", err)
	}
}

func loadOpOf(clear bool) types.LoadOp {
	if clear {
		return types.LoadOpClear
	}
	return types.LoadOpLoad
}

type renderPassEncoder struct {
	pass core.RenderPassID
	err  error
}

func (p *renderPassEncoder) SetPipeline(id gpucore.RenderPipelineID) {
	if p.err != nil {
		return
	}
	p.err = core.RenderPassSetPipeline(p.pass, core.RenderPipelineIDFromRaw(uint64(id)))
}

func (p *renderPassEncoder) SetVertexBuffer(slot uint32, buffer gpucore.BufferID, offset uint64) {
	if p.err != nil {
		return
	}
	p.err = core.RenderPassSetVertexBuffer(p.pass, slot, core.BufferIDFromRaw(uint64(buffer)), offset)
}

func (p *renderPassEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	if p.err != nil {
		return
	}
	p.err = core.RenderPassSetBindGroup(p.pass, index, core.BindGroupIDFromRaw(uint64(group)))
}

func (p *renderPassEncoder) Draw(vertexCount, firstVertex uint32) {
	p.DrawInstanced(vertexCount, 1, firstVertex, 0)
}

func (p *renderPassEncoder) DrawInstanced(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if p.err != nil {
		return
	}
	p.err = core.RenderPassDraw(p.pass, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPassEncoder) End() {
	if p.err != nil {
		return
	}
	_ = core.RenderPassEnd(p.pass)
}

type computePassEncoder struct {
	pass core.ComputePassID
	err  error
}

func (p *computePassEncoder) SetPipeline(id gpucore.ComputePipelineID) {
	if p.err != nil {
		return
	}
	p.err = core.ComputePassSetPipeline(p.pass, core.ComputePipelineIDFromRaw(uint64(id)))
}

func (p *computePassEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	if p.err != nil {
		return
	}
	p.err = core.ComputePassSetBindGroup(p.pass, index, core.BindGroupIDFromRaw(uint64(group)))
}

func (p *computePassEncoder) Dispatch(x, y, z uint32) {
	if p.err != nil {
		return
	}
	p.err = core.ComputePassDispatchWorkgroups(p.pass, x, y, z)
}

func (p *computePassEncoder) End() {
	if p.err != nil {
		return
	}
	_ = core.ComputePassEnd(p.pass)
}

// swapChain implements gpucore.SwapChain against a platform surface
// obtained outside this package (windowing is out of scope here; the
// surface handle comes from whatever native window layer the embedding
// application uses).
type swapChain struct {
	device  *Device
	surface core.SurfaceID
	chain   core.SwapChainID
	format  gpucore.TextureFormat
}

// OpenSwapChain creates a presentable swap chain against an
// already-created native surface. gpucore.Device.CreateSwapChain
// cannot do this itself since it has no portable way to obtain a
// surface handle; callers that need presentation go through this
// package-level constructor instead.
func OpenSwapChain(d *Device, surface core.SurfaceID, width, height int, format gpucore.TextureFormat) (gpucore.SwapChain, error) {
	chain, err := core.CreateSwapChain(d.device, surface, &types.SwapChainDescriptor{
		Usage:  types.TextureUsageRenderAttachment,
		Format: textureFormatOf(format),
		Width:  uint32(width),
		Height: uint32(height),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create swap chain: %w", err)
	}
	return &swapChain{device: d, surface: surface, chain: chain, format: format}, nil
}

func (s *swapChain) AcquireNextTexture() (gpucore.TextureID, error) {
	tex, err := core.SwapChainGetCurrentTexture(s.chain)
	if err != nil {
		return 0, fmt.Errorf("wgpu: acquire swap chain texture: %w", err)
	}
	return gpucore.TextureID(tex.Raw()), nil
}

func (s *swapChain) Present() error {
	if err := core.SwapChainPresent(s.chain); err != nil {
		return fmt.Errorf("wgpu: present swap chain: %w", err)
	}
	return nil
}

func (s *swapChain) Resize(width, height int) error {
	chain, err := core.CreateSwapChain(s.device.device, s.surface, &types.SwapChainDescriptor{
		Usage:  types.TextureUsageRenderAttachment,
		Format: textureFormatOf(s.format),
		Width:  uint32(width),
		Height: uint32(height),
	})
	if err != nil {
		return fmt.Errorf("wgpu: resize swap chain: %w", err)
	}
	s.chain = chain
	return nil
}
