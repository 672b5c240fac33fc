// Package window generates window functions for short-time transform framing.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// String returns the lowercase window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
//
// The periodic Hann window is bin-limited: its DFT occupies only the DC bin
// and the two adjacent bins, which keeps constant signals constant through
// spectral filtering.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns length coefficients of the given window type.
// It returns nil when length is not positive or the type is unknown.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if length == 1 {
		return []float64{1}
	}

	denom := float64(length - 1)
	if cfg.periodic {
		denom = float64(length)
	}

	out := make([]float64, length)

	switch t {
	case TypeRectangular:
		for i := range out {
			out[i] = 1
		}
	case TypeHann:
		for i := range out {
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case TypeHamming:
		for i := range out {
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case TypeBlackman:
		for i := range out {
			phi := 2 * math.Pi * float64(i) / denom
			out[i] = 0.42 - 0.5*math.Cos(phi) + 0.08*math.Cos(2*phi)
		}
	default:
		return nil
	}

	return out
}

// Apply multiplies samples by coeffs into a new slice.
// Both slices must have the same length.
func Apply(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	if len(samples) == 0 {
		return nil, errEmptyCoeffs
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyInPlace multiplies samples by coeffs in place.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	if len(samples) == 0 {
		return errEmptyCoeffs
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}
