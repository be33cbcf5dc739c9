package memory

import (
	"testing"
	"time"
)

func TestClassSizeRoundsToPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {1000, 1024}, {1 << 20, 1 << 20}, {(1 << 20) + 1, 1 << 21},
	}
	for _, c := range cases {
		if got := classSize(c.in); got != c.want {
			t.Errorf("classSize(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestClassSizeExactAboveLimit(t *testing.T) {
	n := sizeClassLimit + 1
	if got := classSize(n); got != n {
		t.Fatalf("classSize(%d) = %d, want exact %d above the size-class limit", n, got, n)
	}
}

func TestAcquireDoesNotReuseWithinCooldown(t *testing.T) {
	a := NewAllocator()
	id1 := a.Acquire("fills", 100)
	a.Release(id1)

	// Immediately after release, the buffer is within its cooldown and
	// must not be handed back out; a fresh buffer should be allocated.
	id2 := a.Acquire("fills", 100)
	if id2 == id1 {
		t.Fatalf("expected a fresh buffer within the reuse cooldown window")
	}
	a.Release(id2)
}

func TestEvictReclaimsIdleBuffers(t *testing.T) {
	a := NewAllocator()
	id := a.Acquire("tiles", 64)
	a.Release(id)

	if n := a.Evict(time.Now()); n != 0 {
		t.Fatalf("expected no eviction immediately after release, got %d", n)
	}

	future := time.Now().Add(evictionDecay + time.Millisecond)
	if n := a.Evict(future); n != 1 {
		t.Fatalf("expected 1 eviction after the decay window, got %d", n)
	}
	if _, err := a.Bytes(id); err == nil {
		t.Fatalf("expected evicted buffer id to be unknown")
	}
}

func TestAcquireDistinguishesTags(t *testing.T) {
	a := NewAllocator()
	id := a.Acquire("fills", 64)
	a.Release(id)
	other := a.Acquire("tiles", 64)
	if other == id {
		t.Fatalf("a request for a different tag must not reuse another tag's buffer")
	}
}

func TestInUseCount(t *testing.T) {
	a := NewAllocator()
	id1 := a.Acquire("fills", 64)
	_ = a.Acquire("fills", 64)
	if a.InUseCount() != 2 {
		t.Fatalf("expected 2 in-use buffers, got %d", a.InUseCount())
	}
	a.Release(id1)
	if a.InUseCount() != 1 {
		t.Fatalf("expected 1 in-use buffer after release, got %d", a.InUseCount())
	}
}
