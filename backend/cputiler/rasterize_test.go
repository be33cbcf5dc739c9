package cputiler

import (
	"testing"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

func TestRasterizeTileSplitsCleanlyOnPixelBoundary(t *testing.T) {
	// A single downward edge at x=8 spanning the tile's full height:
	// pixels left of it are outside (winding 0), pixels at or right of
	// it are inside (winding 1).
	fills := []Fill{
		{From: geom.Pt(8, 0), To: geom.Pt(8, TileHeight)},
	}
	cov := rasterizeTile(fills, 0, outline.FillNonZero)

	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			got := cov[y*TileWidth+x]
			want := float32(0)
			if x >= 8 {
				want = 1
			}
			if got != want {
				t.Fatalf("cov[%d,%d] = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRasterizeTileHalfCoverageAtSubpixelEdge(t *testing.T) {
	// Edge at x=8.5 cuts pixel column 8 exactly in half: 2 of the 4
	// subsamples per row land right of the edge.
	fills := []Fill{
		{From: geom.Pt(8.5, 0), To: geom.Pt(8.5, TileHeight)},
	}
	cov := rasterizeTile(fills, 0, outline.FillNonZero)

	for y := 0; y < TileHeight; y++ {
		got := cov[y*TileWidth+8]
		if got != 0.5 {
			t.Fatalf("cov[8,%d] = %v, want 0.5", y, got)
		}
	}
}

func TestRasterizeTileOppositeEdgesCancelOutsideSpan(t *testing.T) {
	// A downward edge at x=4 and an upward edge at x=12 bracket a
	// filled band; everything outside the band has winding 0.
	fills := []Fill{
		{From: geom.Pt(4, 0), To: geom.Pt(4, TileHeight)},
		{From: geom.Pt(12, TileHeight), To: geom.Pt(12, 0)},
	}
	cov := rasterizeTile(fills, 0, outline.FillNonZero)

	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			got := cov[y*TileWidth+x]
			inBand := x >= 4 && x < 12
			if inBand && got != 1 {
				t.Fatalf("cov[%d,%d] = %v, want 1 (inside band)", x, y, got)
			}
			if !inBand && got != 0 {
				t.Fatalf("cov[%d,%d] = %v, want 0 (outside band)", x, y, got)
			}
		}
	}
}

func TestRasterizeTileEmptyFillListIgnoresBackdrop(t *testing.T) {
	cov := rasterizeTile(nil, 1, outline.FillNonZero)
	for i, v := range cov {
		if v != 0 {
			t.Fatalf("cov[%d] = %v, want 0 for an all-empty fill list regardless of backdrop", i, v)
		}
	}
}

func TestCrossingsAtIgnoresHorizontalEdges(t *testing.T) {
	fills := []Fill{{From: geom.Pt(0, 4), To: geom.Pt(10, 4)}}
	if got := crossingsAt(fills, 4); len(got) != 0 {
		t.Fatalf("expected horizontal edge to contribute no crossings, got %d", len(got))
	}
}

func TestIsFilledNonZeroVsEvenOdd(t *testing.T) {
	cases := []struct {
		winding float64
		nonZero bool
		evenOdd bool
	}{
		{0, false, false},
		{1, true, true},
		{2, true, false},
		{-1, true, true},
	}
	for _, c := range cases {
		if got := isFilled(c.winding, outline.FillNonZero); got != c.nonZero {
			t.Errorf("isFilled(%v, NonZero) = %v, want %v", c.winding, got, c.nonZero)
		}
		if got := isFilled(c.winding, outline.FillEvenOdd); got != c.evenOdd {
			t.Errorf("isFilled(%v, EvenOdd) = %v, want %v", c.winding, got, c.evenOdd)
		}
	}
}

func TestRasterizeAllSkipsSolidAndEmptyTiles(t *testing.T) {
	c := outline.NewContour()
	c.MoveTo(geom.Pt(8, 0))
	c.LineTo(geom.Pt(40, 0))
	c.LineTo(geom.Pt(40, 32))
	c.LineTo(geom.Pt(8, 32))
	c.Close()
	o := outline.NewOutline()
	o.PushContour(c)
	bp := Build(1, o, outline.FillNonZero, 1, 0, 0, geom.NewRect(0, 0, 64, 64))

	coverages := RasterizeAll(bp, outline.FillNonZero)
	for idx, tile := range bp.Tiles {
		_, has := coverages[idx]
		if tile.Kind == KindAlpha && !has {
			t.Fatalf("tile %d is alpha but has no coverage buffer", idx)
		}
		if tile.Kind != KindAlpha && has {
			t.Fatalf("tile %d is %v but has a coverage buffer", idx, tile.Kind)
		}
		if has && len(coverages[idx]) != TileWidth*TileHeight {
			t.Fatalf("tile %d coverage buffer has len %d, want %d", idx, len(coverages[idx]), TileWidth*TileHeight)
		}
	}
}
