package window

import (
	"math"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			coeffs := Generate(typ, 32)
			if len(coeffs) != 32 {
				t.Fatalf("len = %d, want 32", len(coeffs))
			}

			for i, v := range coeffs {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("index %d: non-finite coefficient %v", i, v)
				}
			}
		})
	}
}

func TestGenerateInvalid(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Error("zero length must return nil")
	}

	if Generate(TypeHann, -4) != nil {
		t.Error("negative length must return nil")
	}

	if Generate(Type(99), 8) != nil {
		t.Error("unknown type must return nil")
	}
}

func TestGenerateSingleSample(t *testing.T) {
	coeffs := Generate(TypeHann, 1)
	if len(coeffs) != 1 || coeffs[0] != 1 {
		t.Fatalf("length-1 window = %v, want [1]", coeffs)
	}
}

func TestHannSymmetric(t *testing.T) {
	coeffs := Generate(TypeHann, 33)

	if coeffs[0] != 0 {
		t.Errorf("symmetric hann start = %v, want 0", coeffs[0])
	}

	mid := coeffs[16]
	if math.Abs(mid-1) > 1e-12 {
		t.Errorf("symmetric hann peak = %v, want 1", mid)
	}

	for i := range coeffs {
		if math.Abs(coeffs[i]-coeffs[len(coeffs)-1-i]) > 1e-12 {
			t.Fatalf("asymmetry at index %d", i)
		}
	}
}

// The periodic Hann window is exactly w[n] = 0.5 - 0.5*cos(2*pi*n/N), so its
// DFT content sits entirely in bins 0, 1, and N-1. Verify by direct DFT.
func TestHannPeriodicBinLimited(t *testing.T) {
	const n = 32

	coeffs := Generate(TypeHann, n, WithPeriodic())

	for k := 2; k < n-1; k++ {
		var re, im float64
		for i := range coeffs {
			phi := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += coeffs[i] * math.Cos(phi)
			im += coeffs[i] * math.Sin(phi)
		}

		if math.Hypot(re, im) > 1e-10 {
			t.Fatalf("bin %d carries energy %v, want 0", k, math.Hypot(re, im))
		}
	}
}

func TestApply(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 0.5, 0.5}

	out, err := Apply(samples, coeffs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []float64{0.5, 1, 1.5, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}

	if samples[0] != 1 {
		t.Error("Apply must not mutate input")
	}
}

func TestApplyInPlace(t *testing.T) {
	samples := []float64{1, 2}
	if err := ApplyInPlace(samples, []float64{2, 2}); err != nil {
		t.Fatalf("ApplyInPlace: %v", err)
	}

	if samples[0] != 2 || samples[1] != 4 {
		t.Fatalf("got %v, want [2 4]", samples)
	}
}

func TestApplyErrors(t *testing.T) {
	if _, err := Apply([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("length mismatch must fail")
	}

	if _, err := Apply(nil, nil); err == nil {
		t.Error("empty input must fail")
	}

	if err := ApplyInPlace([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("in-place length mismatch must fail")
	}
}
