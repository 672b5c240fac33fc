package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"inside range", 0.5, 0, 1, 0.5},
		{"below min", -2, 0, 1, 0},
		{"above max", 3, 0, 1, 1},
		{"swapped bounds", 0.25, 1, 0, 0.25},
		{"at boundary", 1, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.want {
				t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Error("values within eps should compare equal")
	}

	if NearlyEqual(1.0, 1.1, 1e-6) {
		t.Error("values outside eps should not compare equal")
	}

	if !NearlyEqual(1e9, 1e9*(1+1e-13), 1e-12) {
		t.Error("relative comparison should apply at large magnitudes")
	}

	if !NearlyEqual(0, 0, 0) {
		t.Error("zero eps should fall back to default epsilon")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || !IsFinite(0) || !IsFinite(-math.MaxFloat64) {
		t.Error("ordinary values must be finite")
	}

	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("NaN and Inf must not be finite")
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{1, 2, 3}) {
		t.Error("finite slice reported non-finite")
	}

	if AllFinite([]float64{1, math.NaN(), 3}) {
		t.Error("NaN element not detected")
	}

	if !AllFinite(nil) {
		t.Error("empty slice must be finite")
	}
}
