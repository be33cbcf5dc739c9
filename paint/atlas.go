package paint

import "github.com/gogpu/rasterkit/geom"

// nodeType is the state of one quadtree node in an Atlas.
type nodeType uint8

const (
	emptyLeaf nodeType = iota
	fullLeaf
	parentNode
)

// node is one cell of the atlas quadtree. A parent's four children
// tile its square into equal quadrants in the order
// (top-left, top-right, bottom-left, bottom-right).
type node struct {
	kind     nodeType
	children *[4]node
}

// Atlas is a power-of-two square texture region carved up by a
// quadtree allocator: Allocate finds the smallest free square of at
// least the requested size, and Free returns a previously allocated
// square to the pool, merging adjacent empty siblings back together.
//
// This mirrors the atlas allocation strategy used to pack gradient
// ramps, glyph bitmaps, and pattern images into a single paint
// texture without fragmenting it over the lifetime of a scene.
type Atlas struct {
	root       node
	size       uint32
	AllocCount int
}

// NewAtlas returns an atlas covering a size x size square. size must
// be a power of two.
func NewAtlas(size uint32) *Atlas {
	return &Atlas{size: size}
}

// Size returns the atlas's total edge length.
func (a *Atlas) Size() uint32 { return a.size }

// Allocate reserves the smallest available square of at least
// requestedSize (rounded up to a power of two by the caller) and
// returns its origin and ok=true, or ok=false if the atlas has no
// room left.
func (a *Atlas) Allocate(requestedSize uint32) (origin geom.RectI, ok bool) {
	rect, found := allocateNode(&a.root, geom.RectI{}, a.size, requestedSize)
	if found {
		a.AllocCount++
	}
	return rect, found
}

func allocateNode(n *node, thisOrigin geom.RectI, thisSize, requestedSize uint32) (geom.RectI, bool) {
	if n.kind == fullLeaf {
		return geom.RectI{}, false
	}
	if thisSize < requestedSize {
		return geom.RectI{}, false
	}

	if n.kind == emptyLeaf {
		if thisSize == requestedSize {
			n.kind = fullLeaf
			return geom.RectI{
				MinX: thisOrigin.MinX, MinY: thisOrigin.MinY,
				MaxX: thisOrigin.MinX + int32(thisSize), MaxY: thisOrigin.MinY + int32(thisSize),
			}, true
		}
		n.kind = parentNode
		n.children = &[4]node{}
	}

	kidSize := thisSize / 2
	ox, oy := thisOrigin.MinX, thisOrigin.MinY
	origins := [4][2]int32{
		{ox, oy},
		{ox + int32(kidSize), oy},
		{ox, oy + int32(kidSize)},
		{ox + int32(kidSize), oy + int32(kidSize)},
	}
	for i := range n.children {
		childOrigin := geom.RectI{MinX: origins[i][0], MinY: origins[i][1]}
		if r, ok := allocateNode(&n.children[i], childOrigin, kidSize, requestedSize); ok {
			return r, true
		}
	}
	mergeIfNecessary(n)
	return geom.RectI{}, false
}

// Free returns the square at origin with the given size back to the
// pool, merging siblings into an empty parent when all four become
// free.
func (a *Atlas) Free(origin geom.RectI, size uint32) {
	freeNode(&a.root, geom.RectI{}, a.size, origin, size)
	a.AllocCount--
}

func freeNode(n *node, thisOrigin geom.RectI, thisSize uint32, requestedOrigin geom.RectI, requestedSize uint32) {
	if thisSize <= requestedSize {
		if thisSize == requestedSize && thisOrigin.MinX == requestedOrigin.MinX && thisOrigin.MinY == requestedOrigin.MinY {
			n.kind = emptyLeaf
			n.children = nil
		}
		return
	}

	childSize := thisSize / 2
	centerX := thisOrigin.MinX + int32(childSize)
	centerY := thisOrigin.MinY + int32(childSize)

	var childIndex int
	childOrigin := thisOrigin
	switch {
	case requestedOrigin.MinY < centerY && requestedOrigin.MinX < centerX:
		childIndex = 0
	case requestedOrigin.MinY < centerY:
		childIndex = 1
		childOrigin.MinX += int32(childSize)
	case requestedOrigin.MinX < centerX:
		childIndex = 2
		childOrigin.MinY += int32(childSize)
	default:
		childIndex = 3
		childOrigin.MinX += int32(childSize)
		childOrigin.MinY += int32(childSize)
	}

	if n.kind != parentNode {
		return // malformed free request against a non-parent: ignore
	}
	freeNode(&n.children[childIndex], childOrigin, childSize, requestedOrigin, requestedSize)
	mergeIfNecessary(n)
}

func mergeIfNecessary(n *node) {
	if n.kind != parentNode {
		return
	}
	for i := range n.children {
		if n.children[i].kind != emptyLeaf {
			return
		}
	}
	n.kind = emptyLeaf
	n.children = nil
}

// IsEmpty reports whether the atlas has no live allocations, i.e. the
// root has merged all the way back to a single empty leaf.
func (a *Atlas) IsEmpty() bool {
	return a.root.kind == emptyLeaf
}
