package stft

import (
	"math"
	"testing"

	"github.com/cwbudde/docvec/dsp/window"
	"github.com/cwbudde/docvec/internal/testutil"
)

const roundTripEps = 1e-9

func TestNewDefaults(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if tr.FrameSize() != DefaultFrameSize {
		t.Errorf("FrameSize = %d, want %d", tr.FrameSize(), DefaultFrameSize)
	}

	if tr.HopSize() != DefaultHopSize {
		t.Errorf("HopSize = %d, want %d", tr.HopSize(), DefaultHopSize)
	}

	if tr.Bins() != DefaultFrameSize/2+1 {
		t.Errorf("Bins = %d, want %d", tr.Bins(), DefaultFrameSize/2+1)
	}

	if tr.WindowType() != window.TypeHann {
		t.Errorf("WindowType = %v, want hann", tr.WindowType())
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"frame size not power of two", []Option{WithFrameSize(33)}},
		{"frame size too small", []Option{WithFrameSize(4)}},
		{"zero hop", []Option{WithHopSize(0)}},
		{"hop >= frame", []Option{WithFrameSize(32), WithHopSize(32)}},
		{"unknown window", []Option{WithWindowType(window.Type(99))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		signal []float64
	}{
		{"sine", testutil.DeterministicSine(0.07, 1, 200)},
		{"noise", testutil.DeterministicNoise(7, 1, 157)},
		{"constant", testutil.DC(0.25, 96)},
		{"single sample", []float64{0.5}},
		{"shorter than frame", testutil.DeterministicNoise(3, 1, 5)},
		{"exactly one frame", testutil.DeterministicNoise(11, 1, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tr.Forward(tt.signal)
			if err != nil {
				t.Fatalf("Forward: %v", err)
			}

			got, err := tr.Inverse(spec)
			if err != nil {
				t.Fatalf("Inverse: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, got, tt.signal, roundTripEps)
		})
	}
}

func TestRoundTripOtherWindows(t *testing.T) {
	signal := testutil.DeterministicNoise(21, 1, 120)

	for _, typ := range []window.Type{window.TypeRectangular, window.TypeHamming, window.TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			tr, err := New(WithWindowType(typ))
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			spec, err := tr.Forward(signal)
			if err != nil {
				t.Fatalf("Forward: %v", err)
			}

			got, err := tr.Inverse(spec)
			if err != nil {
				t.Fatalf("Inverse: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, got, signal, roundTripEps)
		})
	}
}

func TestLowpassFullCutoffIsIdentity(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	signal := testutil.DeterministicNoise(5, 1, 150)

	spec, err := tr.Forward(signal)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	filtered, err := spec.Lowpass(1.0)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	got, err := tr.Inverse(filtered)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, signal, roundTripEps)
}

func TestLowpassZeroCutoffSmoothes(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	signal := testutil.DeterministicSine(0.45, 1, 160)

	spec, err := tr.Forward(signal)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	filtered, err := spec.Lowpass(0.0)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	got, err := tr.Inverse(filtered)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	testutil.RequireFinite(t, got)

	if pp := peakToPeak(got); pp > 0.2*peakToPeak(signal) {
		t.Errorf("DC-only reconstruction still swings %v, input swings %v", pp, peakToPeak(signal))
	}
}

func TestLowpassPreservesConstant(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	signal := testutil.DC(0.75, 100)

	spec, err := tr.Forward(signal)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	filtered, err := spec.Lowpass(0.5)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	got, err := tr.Inverse(filtered)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, signal, roundTripEps)
}

func TestLowpassDoesNotMutateReceiver(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := tr.Forward(testutil.DeterministicNoise(9, 1, 80))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	before := spec.Frame(0)

	if _, err := spec.Lowpass(0.25); err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	after := spec.Frame(0)
	for k := range before {
		if before[k] != after[k] {
			t.Fatalf("bin %d changed from %v to %v", k, before[k], after[k])
		}
	}
}

func TestLowpassZeroesHighBins(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := tr.Forward(testutil.DeterministicNoise(13, 1, 80))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	filtered, err := spec.Lowpass(0.5)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	cut := spec.Bins() / 2
	for frame := range filtered.FrameCount() {
		for k := cut; k < filtered.Bins(); k++ {
			if filtered.At(frame, k) != 0 {
				t.Fatalf("frame %d bin %d = %v, want 0", frame, k, filtered.At(frame, k))
			}
		}

		if filtered.At(frame, 0) != spec.At(frame, 0) {
			t.Fatalf("frame %d DC bin changed", frame)
		}
	}
}

func TestLowpassInvalidCutoff(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := tr.Forward(testutil.DC(1, 40))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for _, cutoff := range []float64{-0.1, 1.5, math.NaN()} {
		if _, err := spec.Lowpass(cutoff); err == nil {
			t.Errorf("cutoff %v: expected error", cutoff)
		}
	}
}

func TestForwardEmptySignal(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := tr.Forward(nil); err == nil {
		t.Error("empty signal must fail")
	}
}

func TestInverseFramingMismatch(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	other, err := New(WithFrameSize(64), WithHopSize(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := other.Forward(testutil.DC(1, 100))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	if _, err := tr.Inverse(spec); err == nil {
		t.Error("mismatched framing must fail")
	}

	if _, err := tr.Inverse(nil); err == nil {
		t.Error("nil spectrogram must fail")
	}
}

func TestCloneIsDeep(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := tr.Forward(testutil.DC(1, 40))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	clone := spec.Clone()
	clone.frames[0][0] = complex(99, 0)

	if spec.frames[0][0] == complex(99, 0) {
		t.Error("clone shares frame storage with original")
	}
}

func peakToPeak(data []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return hi - lo
}
