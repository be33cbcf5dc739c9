package gputiler

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/rasterkit/gpucore"
)

//go:embed shaders/dice.wgsl
var diceWGSL string

//go:embed shaders/bound.wgsl
var boundWGSL string

//go:embed shaders/bin.wgsl
var binWGSL string

//go:embed shaders/propagate.wgsl
var propagateWGSL string

//go:embed shaders/fill.wgsl
var fillWGSL string

//go:embed shaders/sort.wgsl
var sortWGSL string

//go:embed shaders/tile.wgsl
var tileWGSL string

// Pipelines holds every shader module and compiled pipeline the six
// compute passes plus the final tile draw need, compiled once per
// Device and reused across every frame's dispatches.
type Pipelines struct {
	device gpucore.Device

	diceLayout      gpucore.BindGroupLayoutID
	boundLayout     gpucore.BindGroupLayoutID
	binLayout       gpucore.BindGroupLayoutID
	propagateLayout gpucore.BindGroupLayoutID
	fillLayout      gpucore.BindGroupLayoutID
	sortLayout      gpucore.BindGroupLayoutID
	tileLayout      gpucore.BindGroupLayoutID

	dice      gpucore.ComputePipelineID
	bound     gpucore.ComputePipelineID
	bin       gpucore.ComputePipelineID
	propagate gpucore.ComputePipelineID
	fill      gpucore.ComputePipelineID
	sort      gpucore.ComputePipelineID
	tile      gpucore.RenderPipelineID

	modules []gpucore.ShaderModuleID
	layouts []gpucore.BindGroupLayoutID
	pLayout gpucore.PipelineLayoutID
}

// NewPipelines compiles every backend-B shader to SPIR-V via naga and
// compiles the resulting compute/render pipelines against dev.
func NewPipelines(dev gpucore.Device) (*Pipelines, error) {
	p := &Pipelines{device: dev}

	stages := []struct {
		name    string
		source  string
		entries []gpucore.BindGroupLayoutEntry
		target  *gpucore.ComputePipelineID
		layout  *gpucore.BindGroupLayoutID
	}{
		{"dice", diceWGSL, storageEntries(3), &p.dice, &p.diceLayout},
		{"bound", boundWGSL, storageEntries(2), &p.bound, &p.boundLayout},
		{"bin", binWGSL, storageEntries(4, gpucore.BindingTypeUniformBuffer), &p.bin, &p.binLayout},
		{"propagate", propagateWGSL, storageEntries(3, gpucore.BindingTypeUniformBuffer, gpucore.BindingTypeUniformBuffer), &p.propagate, &p.propagateLayout},
		{"fill", fillWGSL, storageEntries(2), &p.fill, &p.fillLayout},
		{"sort", sortWGSL, storageEntries(2), &p.sort, &p.sortLayout},
	}

	for _, st := range stages {
		module, err := compileModule(dev, st.source, st.name)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.modules = append(p.modules, module)

		layout, err := dev.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{Label: st.name, Entries: st.entries})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("gputiler: %s bind group layout: %w", st.name, err)
		}
		p.layouts = append(p.layouts, layout)
		*st.layout = layout

		pl, err := dev.CreatePipelineLayout([]gpucore.BindGroupLayoutID{layout})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("gputiler: %s pipeline layout: %w", st.name, err)
		}

		pipeline, err := dev.CreateComputePipeline(&gpucore.ComputePipelineDesc{
			Label:        st.name,
			Layout:       pl,
			ShaderModule: module,
			EntryPoint:   "main",
		})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("gputiler: %s compute pipeline: %w", st.name, err)
		}
		*st.target = pipeline
	}

	if err := p.buildTilePipeline(dev); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Pipelines) buildTilePipeline(dev gpucore.Device) error {
	module, err := compileModule(dev, tileWGSL, "tile")
	if err != nil {
		return err
	}
	p.modules = append(p.modules, module)

	layout, err := dev.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "tile",
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeSampledTexture},
			{Binding: 1, Type: gpucore.BindingTypeSampledTexture},
			{Binding: 2, Type: gpucore.BindingTypeSampledTexture},
			{Binding: 3, Type: gpucore.BindingTypeSampler},
		},
	})
	if err != nil {
		return fmt.Errorf("gputiler: tile bind group layout: %w", err)
	}
	p.layouts = append(p.layouts, layout)
	p.tileLayout = layout

	pl, err := dev.CreatePipelineLayout([]gpucore.BindGroupLayoutID{layout})
	if err != nil {
		return fmt.Errorf("gputiler: tile pipeline layout: %w", err)
	}
	p.pLayout = pl

	rp, err := dev.CreateRenderPipeline(&gpucore.RenderPipelineDesc{
		Label:          "tile",
		Layout:         pl,
		VertexModule:   module,
		VertexEntry:    "vs_main",
		FragmentModule: module,
		FragmentEntry:  "fs_main",
		ColorFormat:    gpucore.TextureFormatRGBA8Unorm,
		Blend: &gpucore.BlendState{
			Color: gpucore.BlendComponent{SrcFactor: gpucore.BlendFactorOne, DstFactor: gpucore.BlendFactorOneMinusSrcAlpha},
			Alpha: gpucore.BlendComponent{SrcFactor: gpucore.BlendFactorOne, DstFactor: gpucore.BlendFactorOneMinusSrcAlpha},
		},
	})
	if err != nil {
		return fmt.Errorf("gputiler: tile render pipeline: %w", err)
	}
	p.tile = rp
	return nil
}

// TilePipeline returns the compiled render pipeline the tile draw
// pass issues its instanced quad draw against.
func (p *Pipelines) TilePipeline() gpucore.RenderPipelineID { return p.tile }

// TileBindGroupLayout returns the bind group layout the tile draw
// pass's mask/color/gradient textures and sampler bind against.
func (p *Pipelines) TileBindGroupLayout() gpucore.BindGroupLayoutID { return p.tileLayout }

// Close destroys every pipeline, layout, and shader module this
// Pipelines owns. Safe to call on a partially constructed value, since
// NewPipelines calls it on its own error paths.
func (p *Pipelines) Close() {
	dev := p.device
	if p.dice != 0 {
		dev.DestroyComputePipeline(p.dice)
	}
	if p.bound != 0 {
		dev.DestroyComputePipeline(p.bound)
	}
	if p.bin != 0 {
		dev.DestroyComputePipeline(p.bin)
	}
	if p.propagate != 0 {
		dev.DestroyComputePipeline(p.propagate)
	}
	if p.fill != 0 {
		dev.DestroyComputePipeline(p.fill)
	}
	if p.sort != 0 {
		dev.DestroyComputePipeline(p.sort)
	}
	if p.tile != 0 {
		dev.DestroyRenderPipeline(p.tile)
	}
	if p.pLayout != 0 {
		dev.DestroyPipelineLayout(p.pLayout)
	}
	for _, l := range p.layouts {
		dev.DestroyBindGroupLayout(l)
	}
	for _, m := range p.modules {
		dev.DestroyShaderModule(m)
	}
}

// compileModule cross-compiles WGSL source to SPIR-V via naga, the way
// the teacher's own GPU fine rasterizer compiles its fine.wgsl shader,
// and loads the result as a shader module.
func compileModule(dev gpucore.Device, source, label string) (gpucore.ShaderModuleID, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return 0, fmt.Errorf("gputiler: compile %s.wgsl: %w", label, err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	module, err := dev.CreateShaderModule(spirv, label)
	if err != nil {
		return 0, fmt.Errorf("gputiler: create %s shader module: %w", label, err)
	}
	return module, nil
}

// storageEntries builds a bind group layout entry list of n
// read/write storage buffers at bindings 0..n-1, with any extras
// appended at the following bindings using the given binding types
// (uniform buffers for small fixed-size configuration structs).
func storageEntries(n int, extras ...gpucore.BindingType) []gpucore.BindGroupLayoutEntry {
	entries := make([]gpucore.BindGroupLayoutEntry, 0, n+len(extras))
	for i := 0; i < n; i++ {
		entries = append(entries, gpucore.BindGroupLayoutEntry{Binding: uint32(i), Type: gpucore.BindingTypeStorageBuffer})
	}
	for i, t := range extras {
		entries = append(entries, gpucore.BindGroupLayoutEntry{Binding: uint32(n + i), Type: t})
	}
	return entries
}
