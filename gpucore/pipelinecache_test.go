package gpucore

import (
	"fmt"
	"path/filepath"
	"testing"
)

// countingDevice implements Device just enough to exercise
// PipelineCache; every method other than the pipeline-creation ones
// panics if called, since the cache never needs them.
type countingDevice struct {
	computeCalls int
	renderCalls  int
	failCompute  bool
}

func (d *countingDevice) Capabilities() AdapterCapabilities { panic("unused") }
func (d *countingDevice) CreateShaderModule(spirv []uint32, label string) (ShaderModuleID, error) {
	panic("unused")
}
func (d *countingDevice) DestroyShaderModule(id ShaderModuleID) { panic("unused") }
func (d *countingDevice) CreateBuffer(size int, usage BufferUsage, memory MemoryKind) (BufferID, error) {
	panic("unused")
}
func (d *countingDevice) DestroyBuffer(id BufferID)                         { panic("unused") }
func (d *countingDevice) WriteBuffer(id BufferID, offset uint64, data []byte) { panic("unused") }
func (d *countingDevice) ReadBuffer(id BufferID, offset, size uint64) ([]byte, error) {
	panic("unused")
}
func (d *countingDevice) CreateTexture(desc *TextureDesc) (TextureID, error) { panic("unused") }
func (d *countingDevice) DestroyTexture(id TextureID)                       { panic("unused") }
func (d *countingDevice) WriteTexture(id TextureID, data []byte)            { panic("unused") }
func (d *countingDevice) ReadTexture(id TextureID) ([]byte, error)          { panic("unused") }
func (d *countingDevice) TransitionTexture(id TextureID, from, to TextureLayout) error {
	panic("unused")
}
func (d *countingDevice) CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error) {
	panic("unused")
}
func (d *countingDevice) DestroyBindGroupLayout(id BindGroupLayoutID) { panic("unused") }
func (d *countingDevice) CreatePipelineLayout(layouts []BindGroupLayoutID) (PipelineLayoutID, error) {
	panic("unused")
}
func (d *countingDevice) DestroyPipelineLayout(id PipelineLayoutID) { panic("unused") }
func (d *countingDevice) CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error) {
	panic("unused")
}
func (d *countingDevice) DestroyBindGroup(id BindGroupID) { panic("unused") }

func (d *countingDevice) CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error) {
	d.computeCalls++
	if d.failCompute {
		return 0, fmt.Errorf("compile failed")
	}
	return ComputePipelineID(d.computeCalls), nil
}
func (d *countingDevice) DestroyComputePipeline(id ComputePipelineID) { panic("unused") }

func (d *countingDevice) CreateRenderPipeline(desc *RenderPipelineDesc) (RenderPipelineID, error) {
	d.renderCalls++
	return RenderPipelineID(d.renderCalls), nil
}
func (d *countingDevice) DestroyRenderPipeline(id RenderPipelineID) { panic("unused") }

func (d *countingDevice) CreateCommandEncoder(label string) CommandEncoder { panic("unused") }
func (d *countingDevice) SubmitAndWait(enc CommandEncoder) error          { panic("unused") }
func (d *countingDevice) SubmitAsync(enc CommandEncoder, done func(error)) { panic("unused") }
func (d *countingDevice) CreateSwapChain(width, height int, format TextureFormat) (SwapChain, error) {
	panic("unused")
}
func (d *countingDevice) WaitIdle() { panic("unused") }

func TestPipelineCacheReusesComputePipeline(t *testing.T) {
	dev := &countingDevice{}
	c := NewPipelineCache(dev, "test-gpu-v1")
	desc := &ComputePipelineDesc{Label: "dice", EntryPoint: "main"}

	id1, err := c.GetOrCreateCompute(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := c.GetOrCreateCompute(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected cached pipeline id, got %d then %d", id1, id2)
	}
	if dev.computeCalls != 1 {
		t.Fatalf("expected 1 compile call, got %d", dev.computeCalls)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got hits=%d misses=%d", hits, misses)
	}
}

func TestPipelineCacheDistinguishesDescriptors(t *testing.T) {
	dev := &countingDevice{}
	c := NewPipelineCache(dev, "test-gpu-v1")

	if _, err := c.GetOrCreateCompute(&ComputePipelineDesc{Label: "dice", ShaderModule: 1, EntryPoint: "main"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrCreateCompute(&ComputePipelineDesc{Label: "bin", ShaderModule: 2, EntryPoint: "main"}); err != nil {
		t.Fatal(err)
	}
	if dev.computeCalls != 2 {
		t.Fatalf("expected 2 distinct compiles for 2 distinct shader modules, got %d", dev.computeCalls)
	}
}

func TestPipelineCachePropagatesCreateError(t *testing.T) {
	dev := &countingDevice{failCompute: true}
	c := NewPipelineCache(dev, "test-gpu-v1")
	if _, err := c.GetOrCreateCompute(&ComputePipelineDesc{Label: "dice"}); err == nil {
		t.Fatalf("expected compile error to propagate")
	}
}

func TestPipelineCacheSaveLoadManifestRoundTrips(t *testing.T) {
	dev := &countingDevice{}
	c := NewPipelineCache(dev, "test-gpu-v1")
	if _, err := c.GetOrCreateCompute(&ComputePipelineDesc{Label: "dice"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrCreateRender(&RenderPipelineDesc{Label: "tile", VertexEntry: "vs", FragmentEntry: "fs"}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "pipelines.toml")
	if err := c.SaveManifest(path); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	capability, computeHashes, renderHashes, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if capability != "test-gpu-v1" {
		t.Fatalf("capability = %q, want test-gpu-v1", capability)
	}
	if len(computeHashes) != 1 || len(renderHashes) != 1 {
		t.Fatalf("expected 1 compute hash and 1 render hash, got %d and %d", len(computeHashes), len(renderHashes))
	}
}
