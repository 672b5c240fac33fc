// Package stft provides a forward/inverse short-time Fourier transform over
// real-valued sample sequences, with a one-sided spectrogram representation
// and lowpass filtering on the frequency-bin axis.
package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/docvec/dsp/window"
)

const (
	// DefaultFrameSize is the analysis frame length in samples.
	DefaultFrameSize = 32
	// DefaultHopSize is the analysis hop in samples.
	DefaultHopSize = 4

	minFrameSize = 8
	normFloor    = 1e-12
)

// Transform performs overlap-add STFT analysis and synthesis.
//
// The input signal is extended by half a frame of edge-replicated samples on
// each side and the right edge is padded further so every frame lies fully
// inside the extended signal. Synthesis divides by the accumulated squared
// window, so Inverse(Forward(x)) reproduces x exactly up to floating-point
// rounding for any window type and hop.
//
// A Transform is immutable after construction and safe for concurrent use.
type Transform struct {
	frameSize  int
	hopSize    int
	windowType window.Type
	coeffs     []float64
	plan       *algofft.Plan[complex128]
}

// Option configures a Transform.
type Option func(*Transform)

// WithFrameSize sets the analysis frame length. size must be a power of two
// and >= 8.
func WithFrameSize(size int) Option {
	return func(t *Transform) {
		t.frameSize = size
	}
}

// WithHopSize sets the analysis hop in samples. hop must be in [1, frameSize).
func WithHopSize(hop int) Option {
	return func(t *Transform) {
		t.hopSize = hop
	}
}

// WithWindowType sets the analysis/synthesis window.
func WithWindowType(typ window.Type) Option {
	return func(t *Transform) {
		t.windowType = typ
	}
}

// New creates a Transform with frame size 32, hop size 4, and a periodic
// Hann window unless overridden by options.
func New(opts ...Option) (*Transform, error) {
	t := &Transform{
		frameSize:  DefaultFrameSize,
		hopSize:    DefaultHopSize,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.frameSize < minFrameSize || !isPowerOf2(t.frameSize) {
		return nil, fmt.Errorf("stft: frame size must be power-of-two and >= %d: %d", minFrameSize, t.frameSize)
	}

	if t.hopSize <= 0 || t.hopSize >= t.frameSize {
		return nil, fmt.Errorf("stft: hop size must be in [1, %d): %d", t.frameSize, t.hopSize)
	}

	plan, err := algofft.NewPlan64(t.frameSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	t.plan = plan

	coeffs := window.Generate(t.windowType, t.frameSize, window.WithPeriodic())
	if len(coeffs) != t.frameSize {
		return nil, fmt.Errorf("stft: window generation failed for type %v size %d", t.windowType, t.frameSize)
	}

	t.coeffs = coeffs

	return t, nil
}

// FrameSize returns the analysis frame length in samples.
func (t *Transform) FrameSize() int { return t.frameSize }

// HopSize returns the analysis hop in samples.
func (t *Transform) HopSize() int { return t.hopSize }

// WindowType returns the analysis/synthesis window type.
func (t *Transform) WindowType() window.Type { return t.windowType }

// Bins returns the number of one-sided frequency bins per frame.
func (t *Transform) Bins() int { return t.frameSize/2 + 1 }

// Forward computes the one-sided spectrogram of signal.
func (t *Transform) Forward(signal []float64) (*Spectrogram, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("stft: signal must not be empty")
	}

	padded := t.extend(signal)
	frameCount := (len(padded)-t.frameSize)/t.hopSize + 1
	bins := t.Bins()

	buf := make([]complex128, t.frameSize)
	frames := make([][]complex128, frameCount)

	for frame := range frameCount {
		pos := frame * t.hopSize

		for i := range t.frameSize {
			buf[i] = complex(padded[pos+i]*t.coeffs[i], 0)
		}

		err := t.plan.Forward(buf, buf)
		if err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
		}

		frames[frame] = make([]complex128, bins)
		copy(frames[frame], buf[:bins])
	}

	return &Spectrogram{
		frames:    frames,
		frameSize: t.frameSize,
		hopSize:   t.hopSize,
		signalLen: len(signal),
	}, nil
}

// Inverse reconstructs the time-domain signal from spec.
//
// The result has length spec.SignalLen. Without intermediate filtering it
// matches the Forward input elementwise to within floating-point tolerance.
func (t *Transform) Inverse(spec *Spectrogram) ([]float64, error) {
	if spec == nil || len(spec.frames) == 0 {
		return nil, fmt.Errorf("stft: spectrogram must not be empty")
	}

	if spec.frameSize != t.frameSize || spec.hopSize != t.hopSize {
		return nil, fmt.Errorf("stft: spectrogram framing %d/%d does not match transform %d/%d",
			spec.frameSize, spec.hopSize, t.frameSize, t.hopSize)
	}

	half := t.frameSize / 2
	outLen := (len(spec.frames)-1)*t.hopSize + t.frameSize
	wet := make([]float64, outLen)
	norm := make([]float64, outLen)

	syn := make([]complex128, t.frameSize)
	timeFrame := make([]complex128, t.frameSize)

	for frame, bins := range spec.frames {
		if len(bins) != half+1 {
			return nil, fmt.Errorf("stft: frame %d has %d bins, want %d", frame, len(bins), half+1)
		}

		syn[0] = complex(real(bins[0]), 0)
		syn[half] = complex(real(bins[half]), 0)

		for k := 1; k < half; k++ {
			syn[k] = bins[k]
			syn[t.frameSize-k] = complex(real(bins[k]), -imag(bins[k]))
		}

		err := t.plan.Inverse(timeFrame, syn)
		if err != nil {
			return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
		}

		pos := frame * t.hopSize
		for i := range t.frameSize {
			w := t.coeffs[i]
			wet[pos+i] += real(timeFrame[i]) * w
			norm[pos+i] += w * w
		}
	}

	pad := t.frameSize / 2
	out := make([]float64, spec.signalLen)

	for i := range out {
		sample := wet[pad+i]
		if norm[pad+i] > normFloor {
			sample /= norm[pad+i]
		}

		out[i] = sample
	}

	return out, nil
}

// extend pads signal with edge-replicated samples: half a frame on the left,
// and enough on the right that the padded length minus one frame is a whole
// number of hops.
func (t *Transform) extend(signal []float64) []float64 {
	pad := t.frameSize / 2

	total := len(signal) + 2*pad
	if rem := (total - t.frameSize) % t.hopSize; rem != 0 {
		total += t.hopSize - rem
	}

	padded := make([]float64, total)

	for i := range pad {
		padded[i] = signal[0]
	}

	copy(padded[pad:], signal)

	last := signal[len(signal)-1]
	for i := pad + len(signal); i < total; i++ {
		padded[i] = last
	}

	return padded
}

func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
