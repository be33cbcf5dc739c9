package cputiler

import (
	"testing"

	"github.com/gogpu/rasterkit/internal/parallel"
	"github.com/gogpu/rasterkit/outline"
)

func inputsFixture() []PathInput {
	var inputs []PathInput
	for i := uint32(0); i < 12; i++ {
		off := float64(i) * 4
		inputs = append(inputs, PathInput{
			PathID:   i,
			Outline:  square(off, off, off+40, off+40),
			FillRule: outline.FillNonZero,
			ZOrder:   int32(i),
		})
	}
	return inputs
}

func TestBuildAllSequentialMatchesParallel(t *testing.T) {
	vb := viewBox(128, 128)
	seq := BuildAll(inputsFixture(), vb, nil)

	pool := parallel.NewWorkerPool(4)
	defer pool.Close()
	par := BuildAll(inputsFixture(), vb, pool)

	if len(seq) != len(par) {
		t.Fatalf("len(seq)=%d len(par)=%d", len(seq), len(par))
	}
	for i := range seq {
		if len(seq[i].Tiles) != len(par[i].Tiles) {
			t.Fatalf("path %d: tile count mismatch seq=%d par=%d", i, len(seq[i].Tiles), len(par[i].Tiles))
		}
		for j := range seq[i].Tiles {
			if seq[i].Tiles[j].Kind != par[i].Tiles[j].Kind {
				t.Fatalf("path %d tile %d: kind mismatch seq=%v par=%v", i, j, seq[i].Tiles[j].Kind, par[i].Tiles[j].Kind)
			}
			if seq[i].Tiles[j].Backdrop != par[i].Tiles[j].Backdrop {
				t.Fatalf("path %d tile %d: backdrop mismatch seq=%d par=%d", i, j, seq[i].Tiles[j].Backdrop, par[i].Tiles[j].Backdrop)
			}
		}
	}
}

func TestBuildAllEmptyInput(t *testing.T) {
	if got := BuildAll(nil, viewBox(64, 64), nil); len(got) != 0 {
		t.Fatalf("expected 0 results for empty input, got %d", len(got))
	}
}

func TestBuildAllPreservesOrder(t *testing.T) {
	inputs := inputsFixture()
	results := BuildAll(inputs, viewBox(128, 128), nil)
	for i, bp := range results {
		if bp.PathID != inputs[i].PathID {
			t.Fatalf("result %d has PathID %d, want %d", i, bp.PathID, inputs[i].PathID)
		}
	}
}
