package cputiler

import (
	"testing"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

// square builds a closed axis-aligned square contour wound
// clockwise in screen space (y grows downward).
func square(x0, y0, x1, y1 float64) *outline.Outline {
	c := outline.NewContour()
	c.MoveTo(geom.Pt(x0, y0))
	c.LineTo(geom.Pt(x1, y0))
	c.LineTo(geom.Pt(x1, y1))
	c.LineTo(geom.Pt(x0, y1))
	c.Close()
	o := outline.NewOutline()
	o.PushContour(c)
	return o
}

func viewBox(w, h float64) geom.Rect {
	return geom.NewRect(0, 0, w, h)
}

func TestBuildTileGridCoversBounds(t *testing.T) {
	o := square(0, 0, 48, 48)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))

	if got, want := bp.Bounds.Width(), int32(3); got != want {
		t.Fatalf("tile bounds width = %d, want %d", got, want)
	}
	if got, want := bp.Bounds.Height(), int32(3); got != want {
		t.Fatalf("tile bounds height = %d, want %d", got, want)
	}
	if len(bp.Tiles) != 9 {
		t.Fatalf("len(Tiles) = %d, want 9", len(bp.Tiles))
	}
}

func TestBuildInteriorTileIsSolid(t *testing.T) {
	// A square spanning tiles (0,0)-(2,2) (48x48 at 16px tiles): its
	// middle tile (1,1) covers 16..32 on both axes, touches no edge,
	// and is fully interior.
	o := square(0, 0, 48, 48)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))

	center, ok := bp.tileIndex(1, 1)
	if !ok {
		t.Fatal("expected tile (1,1) to be in bounds")
	}
	if bp.Tiles[center].Kind != KindSolid {
		t.Fatalf("center tile kind = %v, want KindSolid", bp.Tiles[center].Kind)
	}
}

func TestBuildExteriorTileIsEmpty(t *testing.T) {
	// A right triangle with legs along the axes: its bounding box has a
	// far corner the hypotenuse never reaches, so that tile stays empty
	// even though it lies within the path's own tile-space bounds.
	c := outline.NewContour()
	c.MoveTo(geom.Pt(0, 0))
	c.LineTo(geom.Pt(48, 0))
	c.LineTo(geom.Pt(0, 48))
	c.Close()
	o := outline.NewOutline()
	o.PushContour(c)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))

	idx, ok := bp.tileIndex(2, 2)
	if !ok {
		t.Fatal("expected tile (2,2) to be in bounds")
	}
	if bp.Tiles[idx].Kind != KindEmpty {
		t.Fatalf("far corner tile kind = %v, want KindEmpty", bp.Tiles[idx].Kind)
	}

	near, ok := bp.tileIndex(0, 0)
	if !ok {
		t.Fatal("expected tile (0,0) to be in bounds")
	}
	if bp.Tiles[near].Kind != KindSolid {
		t.Fatalf("right-angle corner tile kind = %v, want KindSolid", bp.Tiles[near].Kind)
	}
}

func TestBuildBoundaryTileIsAlpha(t *testing.T) {
	// A square whose left edge crosses the middle of tile column 0.
	o := square(8, 0, 40, 32)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))

	idx, ok := bp.tileIndex(0, 0)
	if !ok {
		t.Fatal("expected tile (0,0) to be in bounds")
	}
	if bp.Tiles[idx].Kind != KindAlpha {
		t.Fatalf("boundary tile kind = %v, want KindAlpha", bp.Tiles[idx].Kind)
	}
	if bp.Tiles[idx].FillCount == 0 {
		t.Fatal("boundary tile should have at least one fill")
	}
}

func TestBuildEmptyOutlineProducesNoTiles(t *testing.T) {
	o := outline.NewOutline()
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))
	if len(bp.Tiles) != 0 {
		t.Fatalf("len(Tiles) = %d, want 0 for an empty outline", len(bp.Tiles))
	}
}

func TestBuildEvenOddVsNonZeroOnOverlappingSquares(t *testing.T) {
	// Two same-direction overlapping squares: nonzero winding in the
	// overlap is 2 (filled), even-odd winding in the overlap is 2%2=0
	// (a hole).
	o := outline.NewOutline()
	outer := outline.NewContour()
	outer.MoveTo(geom.Pt(0, 0))
	outer.LineTo(geom.Pt(48, 0))
	outer.LineTo(geom.Pt(48, 48))
	outer.LineTo(geom.Pt(0, 48))
	outer.Close()
	o.PushContour(outer)

	inner := outline.NewContour()
	inner.MoveTo(geom.Pt(16, 16))
	inner.LineTo(geom.Pt(32, 16))
	inner.LineTo(geom.Pt(32, 32))
	inner.LineTo(geom.Pt(16, 32))
	inner.Close()
	o.PushContour(inner)

	nz := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))
	eo := Build(2, o, outline.FillEvenOdd, 1, 0, 0, viewBox(64, 64))

	idx, ok := nz.tileIndex(1, 1)
	if !ok {
		t.Fatal("expected tile (1,1) in bounds")
	}
	if nz.Tiles[idx].Kind != KindSolid {
		t.Fatalf("nonzero overlap tile kind = %v, want KindSolid", nz.Tiles[idx].Kind)
	}
	idx2, ok := eo.tileIndex(1, 1)
	if !ok {
		t.Fatal("expected tile (1,1) in bounds")
	}
	if eo.Tiles[idx2].Kind != KindEmpty {
		t.Fatalf("even-odd overlap tile kind = %v, want KindEmpty", eo.Tiles[idx2].Kind)
	}
}

func TestCompactFillsIndexesMatchTileCounts(t *testing.T) {
	o := square(8, 8, 40, 40)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, viewBox(64, 64))
	total := 0
	for _, t := range bp.Tiles {
		if t.Kind == KindAlpha {
			total += t.FillCount
		}
	}

	CompactFills(bp)

	for _, tile := range bp.Tiles {
		if tile.Kind != KindAlpha {
			continue
		}
		if tile.FillStart < 0 || tile.FillStart+tile.FillCount > len(bp.Fills) {
			t.Fatalf("tile fill range [%d,%d) out of bounds for %d fills",
				tile.FillStart, tile.FillStart+tile.FillCount, len(bp.Fills))
		}
	}
	if len(bp.Fills) != total {
		t.Fatalf("compacted fill count = %d, want %d", len(bp.Fills), total)
	}
}
