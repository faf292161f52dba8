package noise

import "testing"

func TestPerlinDeterministic(t *testing.T) {
	a := NewPerlin(42)
	b := NewPerlin(42)
	for i := 0; i < 20; i++ {
		x, z := float32(i)*0.37, float32(i)*1.91
		if a.Eval2(x, z) != b.Eval2(x, z) {
			t.Fatalf("Eval2(%v,%v) differs between two Perlin(42) instances", x, z)
		}
	}
}

func TestPerlinDistinctSeedsDiffer(t *testing.T) {
	a := NewPerlin(1)
	b := NewPerlin(2)
	same := true
	for i := 0; i < 50; i++ {
		x, z := float32(i)*0.5, float32(i)*0.3
		if a.Eval2(x, z) != b.Eval2(x, z) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("distinct seeds produced identical noise across 50 samples")
	}
}

func TestPerlinEval2BoundedRoughly(t *testing.T) {
	p := NewPerlin(7)
	for i := 0; i < 200; i++ {
		v := p.Eval2(float32(i)*0.13, float32(i)*0.07)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("Eval2 = %v, want roughly within [-1.5,1.5]", v)
		}
	}
}

func TestOctavesNormalized2InRange(t *testing.T) {
	o := NewOctaves(99, 5, 0.5, 2.0)
	for i := 0; i < 200; i++ {
		v := o.Normalized2(float32(i)*3.1, float32(i)*1.7, 400)
		if v < 0 || v > 1 {
			t.Fatalf("Normalized2 = %v, out of [0,1]", v)
		}
	}
}

func TestSmoothstepEndpoints(t *testing.T) {
	if got := Smoothstep(-1); got < -1.001 || got > -0.999 {
		t.Fatalf("Smoothstep(-1) = %v, want -1", got)
	}
	if got := Smoothstep(1); got < 0.999 || got > 1.001 {
		t.Fatalf("Smoothstep(1) = %v, want 1", got)
	}
}

func TestRemap(t *testing.T) {
	if got := Remap(0.5, 0, 1, 0, 10); got != 5 {
		t.Fatalf("Remap(0.5,0,1,0,10) = %v, want 5", got)
	}
}

func TestWhiteDeterministic(t *testing.T) {
	w := NewWhite(123)
	v1 := w.Sample2(4, 5)
	v2 := w.Sample2(4, 5)
	if v1 != v2 {
		t.Fatalf("White.Sample2 not deterministic: %v != %v", v1, v2)
	}
	if v1 < 0 || v1 >= 1 {
		t.Fatalf("Sample2 = %v, want [0,1)", v1)
	}
}

func TestWhiteOffsetDiffersFromBase(t *testing.T) {
	w := NewWhite(123)
	derived := w.WithOffset(7)
	same := true
	for x := int32(0); x < 30; x++ {
		if w.Sample2(x, 0) != derived.Sample2(x, 0) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("WithOffset produced an identical stream to the base")
	}
}
