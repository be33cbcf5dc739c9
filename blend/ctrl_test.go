package blend

import "testing"

func TestCtrlRoundTrip(t *testing.T) {
	c := EncodeCtrl(BlendMultiply, true, false)
	mode, srcIn, destIn := DecodeCtrl(c)
	if mode != BlendMultiply || !srcIn || destIn {
		t.Fatalf("round trip mismatch: mode=%v srcIn=%v destIn=%v", mode, srcIn, destIn)
	}
}

func TestCanvasModesCoversSixteen(t *testing.T) {
	if len(CanvasModes) != 16 {
		t.Fatalf("expected 16 canvas composite modes, got %d", len(CanvasModes))
	}
	seen := map[BlendMode]bool{}
	for _, m := range CanvasModes {
		if seen[m] {
			t.Fatalf("duplicate mode %v in CanvasModes", m)
		}
		seen[m] = true
		if GetBlendFunc(m) == nil {
			t.Fatalf("mode %v has no blend function", m)
		}
	}
}
