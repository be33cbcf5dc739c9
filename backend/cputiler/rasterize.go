package cputiler

import (
	"sort"

	"github.com/gogpu/rasterkit/outline"
)

// superSample is the number of sample points per pixel edge used by
// the fine rasterizer, so each pixel is resolved from superSample^2
// in/out samples.
const superSample = 4

// RasterizeAll computes per-pixel coverage for every alpha tile in bp,
// returning a map from tile index (row-major within bp.Tiles) to a
// TileWidth*TileHeight coverage buffer with values in [0,1].
//
// This is backend A's fine rasterization step, the CPU-side
// counterpart of backend B's area-LUT-sampled trapezoid shader (spec
// section 4.3's Fill pass): for each alpha tile, resolve winding at a
// supersampled grid and average down to per-pixel coverage. Solid and
// empty tiles need no per-pixel work and are not present in the
// returned map.
func RasterizeAll(bp *BuiltPath, fillRule outline.FillRule) map[int][]float32 {
	byTile := make(map[int][]Fill, len(bp.Fills))
	for _, f := range bp.Fills {
		idx, ok := bp.tileIndex(f.TileX, f.TileY)
		if !ok {
			continue
		}
		byTile[idx] = append(byTile[idx], f)
	}

	out := make(map[int][]float32, len(byTile))
	for idx, t := range bp.Tiles {
		if t.Kind != KindAlpha {
			continue
		}
		out[idx] = rasterizeTile(byTile[idx], t.Backdrop, fillRule)
	}
	return out
}

type crossing struct {
	x    float64
	sign float64
}

// rasterizeTile resolves one tile's coverage by supersampling: for
// each of TileHeight*superSample sub-scanlines, it finds every fill
// edge's x-intersection and signed winding contribution (the sign of
// the edge's vertical direction, the standard nonzero-winding scanline
// rule), starting from the tile's backdrop winding, then samples the
// resulting step function at TileWidth*superSample x positions.
func rasterizeTile(fills []Fill, backdrop int32, fillRule outline.FillRule) []float32 {
	const w, h = TileWidth, TileHeight
	coverage := make([]float32, w*h)
	if len(fills) == 0 {
		return coverage
	}

	samplesPerPixel := float64(superSample * superSample)
	step := 1.0 / float64(superSample)

	for py := 0; py < h; py++ {
		for sy := 0; sy < superSample; sy++ {
			y := float64(py) + step*(float64(sy)+0.5)
			crossings := crossingsAt(fills, y)
			sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

			ci := 0
			winding := float64(backdrop)
			for px := 0; px < w; px++ {
				for sx := 0; sx < superSample; sx++ {
					x := float64(px) + step*(float64(sx)+0.5)
					for ci < len(crossings) && crossings[ci].x <= x {
						winding += crossings[ci].sign
						ci++
					}
					if isFilled(winding, fillRule) {
						coverage[py*w+px]++
					}
				}
			}
		}
	}

	for i := range coverage {
		coverage[i] /= float32(samplesPerPixel)
	}
	return coverage
}

func crossingsAt(fills []Fill, y float64) []crossing {
	var out []crossing
	for _, f := range fills {
		y0, y1 := f.From.Y, f.To.Y
		if y0 == y1 {
			continue
		}
		sign := 1.0
		lo, hi := y0, y1
		if y0 > y1 {
			sign = -1.0
			lo, hi = y1, y0
		}
		if y < lo || y >= hi {
			continue
		}
		t := (y - f.From.Y) / (f.To.Y - f.From.Y)
		x := f.From.X + t*(f.To.X-f.From.X)
		out = append(out, crossing{x: x, sign: sign})
	}
	return out
}

func isFilled(winding float64, rule outline.FillRule) bool {
	if rule == outline.FillEvenOdd {
		return int64(winding)%2 != 0
	}
	return winding != 0
}
