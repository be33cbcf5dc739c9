// Package memory implements the transient GPU buffer pool: scratch
// storage (fill vertex buffers, tile metadata, indirect draw params)
// that backends allocate once per frame and return afterward, sized
// in power-of-two classes so repeated requests of similar size reuse
// the same underlying allocation instead of round-tripping to the
// device every frame.
package memory

import (
	"fmt"
	"sync"
	"time"
)

// Tag identifies the purpose a buffer was allocated for (e.g. "fills",
// "tiles", "indirect-params"), so the pool never hands a buffer
// tagged for one purpose to a request for another even if their sizes
// happen to match.
type Tag string

// sizeClassLimit is the largest size that gets rounded up to a
// power-of-two class; requests above this are tracked at their exact
// size instead, since doubling would waste an unreasonable amount of
// device memory for a one-off large allocation.
const sizeClassLimit = 16 << 20 // 16MB

// reuseCooldown is how long a freed buffer must sit idle before it is
// eligible for reuse, giving in-flight GPU work enough time to finish
// reading it without an explicit fence wait on the hot path.
const reuseCooldown = 15 * time.Millisecond

// evictionDecay is how long an idle buffer may sit in the pool before
// Evict reclaims it.
const evictionDecay = 250 * time.Millisecond

// classSize rounds n up to its size class: the next power of two, or
// n itself if n exceeds sizeClassLimit.
func classSize(n int) int {
	if n <= 0 {
		return 0
	}
	if n > sizeClassLimit {
		return n
	}
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BufferID is an opaque handle to a pooled allocation. Callers never
// see the raw backing slice directly through the pool API beyond
// Bytes, which keeps the pool free to move, resize, or evict buffers
// between uses.
type BufferID uint64

type entry struct {
	id      BufferID
	tag     Tag
	size    int
	data    []byte
	freedAt time.Time
	inUse   bool
}

// Allocator is a thread-safe pool of tagged, size-classed transient
// buffers.
type Allocator struct {
	mu      sync.Mutex
	byClass map[classKey][]*entry
	byID    map[BufferID]*entry
	nextID  BufferID
}

type classKey struct {
	tag  Tag
	size int
}

// NewAllocator returns an empty transient buffer pool.
func NewAllocator() *Allocator {
	return &Allocator{
		byClass: make(map[classKey][]*entry),
		byID:    make(map[BufferID]*entry),
	}
}

// Acquire returns a buffer of at least minSize bytes tagged tag,
// reusing a pooled buffer from the same size class if one has
// finished its reuse cooldown, or allocating a new one otherwise.
func (a *Allocator) Acquire(tag Tag, minSize int) BufferID {
	size := classSize(minSize)
	key := classKey{tag: tag, size: size}
	now := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	free := a.byClass[key]
	for i, e := range free {
		if e.inUse {
			continue
		}
		if now.Sub(e.freedAt) < reuseCooldown {
			continue
		}
		e.inUse = true
		a.byClass[key] = append(free[:i], free[i+1:]...)
		return e.id
	}

	a.nextID++
	e := &entry{
		id:    a.nextID,
		tag:   tag,
		size:  size,
		data:  make([]byte, size),
		inUse: true,
	}
	a.byID[e.id] = e
	return e.id
}

// Release returns a buffer to the pool, starting its reuse cooldown.
func (a *Allocator) Release(id BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.byID[id]
	if !ok || !e.inUse {
		return
	}
	e.inUse = false
	e.freedAt = time.Now()
	key := classKey{tag: e.tag, size: e.size}
	a.byClass[key] = append(a.byClass[key], e)
}

// Bytes returns the backing storage for a live buffer. The returned
// slice is only valid until the buffer is released.
func (a *Allocator) Bytes(id BufferID) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.byID[id]
	if !ok {
		return nil, fmt.Errorf("memory: unknown buffer id %d", id)
	}
	return e.data, nil
}

// Evict reclaims any free buffer that has been idle longer than
// evictionDecay, releasing its backing storage entirely. Intended to
// be called periodically (e.g. once per frame) rather than on every
// Release, so a burst of same-size requests within one frame keeps
// reusing its buffers instead of churning allocations.
func (a *Allocator) Evict(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	evicted := 0
	for key, free := range a.byClass {
		kept := free[:0]
		for _, e := range free {
			if now.Sub(e.freedAt) >= evictionDecay {
				delete(a.byID, e.id)
				evicted++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(a.byClass, key)
		} else {
			a.byClass[key] = kept
		}
	}
	return evicted
}

// InUseCount returns the number of buffers currently checked out,
// useful for tests and diagnostics.
func (a *Allocator) InUseCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, e := range a.byID {
		if e.inUse {
			n++
		}
	}
	return n
}
