// Package aggregate collapses a document's chunk embedding matrix into a
// single vector by spectral smoothing along the chunk axis followed by
// time-domain averaging.
package aggregate

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/docvec/dsp/core"
	"github.com/cwbudde/docvec/dsp/stft"
)

var (
	// ErrInvalidArgument reports a malformed embedding matrix or option.
	ErrInvalidArgument = errors.New("aggregate: invalid argument")
	// ErrNonFinite reports non-finite values coming out of the transform.
	ErrNonFinite = errors.New("aggregate: non-finite transform output")
)

// DefaultCutoff is the default lowpass cutoff fraction.
const DefaultCutoff = 0.5

// Averager smooths each embedding dimension independently: forward STFT of
// the chunk-index signal, lowpass on the frequency-bin axis, inverse STFT,
// arithmetic mean.
//
// Documents with fewer chunks than one analysis frame skip the spectral path
// and fall back to the plain column mean.
//
// An Averager is immutable after construction and safe for concurrent use.
type Averager struct {
	transform *stft.Transform
	cutoff    float64
	filter    bool
}

// Option configures an Averager.
type Option func(*Averager)

// WithCutoff sets the lowpass cutoff fraction in [0, 1].
func WithCutoff(cutoff float64) Option {
	return func(a *Averager) {
		a.cutoff = cutoff
	}
}

// WithFilter enables or disables the lowpass stage. With the filter disabled
// the result equals the plain column mean.
func WithFilter(enabled bool) Option {
	return func(a *Averager) {
		a.filter = enabled
	}
}

// WithTransform replaces the default chunk-axis transform (frame size 32,
// hop 4, periodic Hann).
func WithTransform(t *stft.Transform) Option {
	return func(a *Averager) {
		a.transform = t
	}
}

// New creates an Averager with filtering enabled at cutoff 0.5.
func New(opts ...Option) (*Averager, error) {
	a := &Averager{
		cutoff: DefaultCutoff,
		filter: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !core.IsFinite(a.cutoff) || a.cutoff < 0 || a.cutoff > 1 {
		return nil, fmt.Errorf("%w: cutoff must be in [0, 1]: %f", ErrInvalidArgument, a.cutoff)
	}

	if a.transform == nil {
		t, err := stft.New()
		if err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}

		a.transform = t
	}

	return a, nil
}

// Cutoff returns the lowpass cutoff fraction.
func (a *Averager) Cutoff() float64 { return a.cutoff }

// FilterEnabled reports whether the lowpass stage is active.
func (a *Averager) FilterEnabled() bool { return a.filter }

// Transform returns the chunk-axis transform.
func (a *Averager) Transform() *stft.Transform { return a.transform }

// Aggregate reduces an N x D embedding matrix (one row per chunk, in chunk
// order) to a single D-length vector. The matrix must be rectangular, finite,
// and non-empty; rows from different documents must never be mixed.
func (a *Averager) Aggregate(embeddings [][]float64) ([]float64, error) {
	if err := validateMatrix(embeddings); err != nil {
		return nil, err
	}

	if !a.filter || len(embeddings) < a.transform.FrameSize() {
		return columnMean(embeddings), nil
	}

	dims := len(embeddings[0])
	out := make([]float64, dims)
	column := make([]float64, len(embeddings))

	for d := range dims {
		for i := range embeddings {
			column[i] = embeddings[i][d]
		}

		spec, err := a.transform.Forward(column)
		if err != nil {
			return nil, fmt.Errorf("aggregate: dimension %d: %w", d, err)
		}

		spec, err = spec.Lowpass(a.cutoff)
		if err != nil {
			return nil, fmt.Errorf("aggregate: dimension %d: %w", d, err)
		}

		recon, err := a.transform.Inverse(spec)
		if err != nil {
			return nil, fmt.Errorf("aggregate: dimension %d: %w", d, err)
		}

		if !core.AllFinite(recon) {
			return nil, fmt.Errorf("%w: dimension %d", ErrNonFinite, d)
		}

		sum := 0.0
		for _, v := range recon {
			sum += v
		}

		out[d] = sum / float64(len(recon))
	}

	return out, nil
}

// Mean returns the plain per-dimension arithmetic mean of the matrix, the
// unfiltered baseline the spectral path is compared against.
func Mean(embeddings [][]float64) ([]float64, error) {
	if err := validateMatrix(embeddings); err != nil {
		return nil, err
	}

	return columnMean(embeddings), nil
}

func columnMean(embeddings [][]float64) []float64 {
	acc := make([]float64, len(embeddings[0]))
	for _, row := range embeddings {
		vecmath.AddBlockInPlace(acc, row)
	}

	vecmath.ScaleBlock(acc, acc, 1/float64(len(embeddings)))

	return acc
}

func validateMatrix(embeddings [][]float64) error {
	if len(embeddings) == 0 {
		return fmt.Errorf("%w: embedding matrix must not be empty", ErrInvalidArgument)
	}

	dims := len(embeddings[0])
	if dims == 0 {
		return fmt.Errorf("%w: embedding vectors must not be empty", ErrInvalidArgument)
	}

	for i, row := range embeddings {
		if len(row) != dims {
			return fmt.Errorf("%w: embedding %d has %d dimensions, want %d", ErrInvalidArgument, i, len(row), dims)
		}

		if !core.AllFinite(row) {
			return fmt.Errorf("%w: embedding %d contains non-finite values", ErrInvalidArgument, i)
		}
	}

	return nil
}
