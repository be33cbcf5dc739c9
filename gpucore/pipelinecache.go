package gpucore

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"os"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/toml"
)

// PipelineCache caches compiled compute and render pipelines by
// descriptor hash, so repeated requests for the same shader + layout
// combination (e.g. the Bin pipeline, requested once per batch) reuse
// one compiled pipeline instead of recompiling every frame.
//
// Thread safety: PipelineCache is safe for concurrent use. It uses a
// RWMutex with double-check locking: a fast read-locked lookup on the
// common hit path, falling back to a write-locked create-and-insert on
// miss.
type PipelineCache struct {
	mu     sync.RWMutex
	device Device

	// capability identifies the device this cache was built for (e.g.
	// adapter name + driver version). A manifest saved under one
	// capability string is never warmed against a different one, since
	// compiled pipeline validity is tied to the exact device.
	capability string

	compute map[uint64]ComputePipelineID
	render  map[uint64]RenderPipelineID

	hits   uint64
	misses uint64
}

// NewPipelineCache returns an empty cache bound to device and tagged
// with a capability string distinguishing this device/driver from
// others a saved manifest might have been produced on.
func NewPipelineCache(device Device, capability string) *PipelineCache {
	return &PipelineCache{
		device:     device,
		capability: capability,
		compute:    make(map[uint64]ComputePipelineID),
		render:     make(map[uint64]RenderPipelineID),
	}
}

// HashComputeDesc returns a stable hash of a compute pipeline
// descriptor's identity: its shader module, pipeline layout, and entry
// point. The label is not part of the identity.
func HashComputeDesc(desc *ComputePipelineDesc) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "compute|%d|%d|%s", desc.ShaderModule, desc.Layout, desc.EntryPoint)
	return h.Sum64()
}

// HashRenderDesc returns a stable hash of a render pipeline
// descriptor's identity.
func HashRenderDesc(desc *RenderPipelineDesc) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "render|%d|%s|%d|%s|%d", desc.VertexModule, desc.VertexEntry,
		desc.FragmentModule, desc.FragmentEntry, desc.ColorFormat)
	return h.Sum64()
}

// GetOrCreateCompute returns a cached compute pipeline matching desc,
// compiling and inserting one if none exists yet.
func (c *PipelineCache) GetOrCreateCompute(desc *ComputePipelineDesc) (ComputePipelineID, error) {
	if desc == nil {
		return 0, fmt.Errorf("gpucore: nil compute pipeline descriptor")
	}
	key := HashComputeDesc(desc)

	c.mu.RLock()
	if id, ok := c.compute[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return id, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.compute[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return id, nil
	}

	id, err := c.device.CreateComputePipeline(desc)
	if err != nil {
		return 0, fmt.Errorf("gpucore: compile compute pipeline %q: %w", desc.Label, err)
	}
	c.compute[key] = id
	atomic.AddUint64(&c.misses, 1)
	return id, nil
}

// GetOrCreateRender returns a cached render pipeline matching desc,
// compiling and inserting one if none exists yet.
func (c *PipelineCache) GetOrCreateRender(desc *RenderPipelineDesc) (RenderPipelineID, error) {
	if desc == nil {
		return 0, fmt.Errorf("gpucore: nil render pipeline descriptor")
	}
	key := HashRenderDesc(desc)

	c.mu.RLock()
	if id, ok := c.render[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return id, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.render[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return id, nil
	}

	id, err := c.device.CreateRenderPipeline(desc)
	if err != nil {
		return 0, fmt.Errorf("gpucore: compile render pipeline %q: %w", desc.Label, err)
	}
	c.render[key] = id
	atomic.AddUint64(&c.misses, 1)
	return id, nil
}

// Stats returns cumulative hit/miss counts, for diagnostics.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// manifest is the on-disk record of which descriptor hashes were known
// to compile successfully on a given device capability string. It does
// not carry compiled bytecode (wgpu exposes no portable pipeline-cache
// blob through this module's bindings); its value is letting startup
// log how many of this run's pipelines are "known good" versus new,
// and giving an operator a stable file to diff across driver upgrades.
type manifest struct {
	Capability    string   `toml:"capability"`
	ComputeHashes []string `toml:"compute_hashes"`
	RenderHashes  []string `toml:"render_hashes"`
}

// SaveManifest writes the cache's current set of compiled descriptor
// hashes to path as TOML.
func (c *PipelineCache) SaveManifest(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := manifest{Capability: c.capability}
	for key := range c.compute {
		m.ComputeHashes = append(m.ComputeHashes, hashHex(key))
	}
	for key := range c.render {
		m.RenderHashes = append(m.RenderHashes, hashHex(key))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gpucore: save pipeline cache manifest: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("gpucore: encode pipeline cache manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a previously saved manifest from path. Callers
// should compare the returned Capability against their current device
// before trusting the hash lists; a mismatch means the manifest was
// produced on different hardware or driver and should be discarded.
func LoadManifest(path string) (capability string, computeHashes, renderHashes []string, err error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return "", nil, nil, fmt.Errorf("gpucore: load pipeline cache manifest: %w", err)
	}
	return m.Capability, m.ComputeHashes, m.RenderHashes, nil
}

func hashHex(h uint64) string {
	b := []byte{
		byte(h >> 56), byte(h >> 48), byte(h >> 40), byte(h >> 32),
		byte(h >> 24), byte(h >> 16), byte(h >> 8), byte(h),
	}
	return hex.EncodeToString(b)
}
