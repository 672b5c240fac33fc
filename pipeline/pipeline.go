// Package pipeline runs the per-document aggregation flow over a corpus:
// segment into word windows, embed each window, spectrally average the
// embedding matrix into one vector per document.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/docvec/aggregate"
	"github.com/cwbudde/docvec/corpus"
	"github.com/cwbudde/docvec/embedding"
	"github.com/cwbudde/docvec/segment"
)

// DefaultWorkers is the default bound on concurrently processed documents.
const DefaultWorkers = 4

// Result is the outcome for one document. Vector is nil when Err is set.
type Result struct {
	ID     string
	Label  string
	Vector []float64
	Err    error
}

// ProgressReporter receives progress updates while a corpus is processed.
type ProgressReporter interface {
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Pipeline aggregates documents against an embedding provider. Documents are
// independent, so a corpus is processed by a bounded worker pool with no
// shared mutable state between documents.
type Pipeline struct {
	provider   embedding.Provider
	averager   *aggregate.Averager
	windowSize int
	overlap    float64
	workers    int
	progress   ProgressReporter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWindowSize sets the segmenter window length in words.
func WithWindowSize(size int) Option {
	return func(p *Pipeline) {
		p.windowSize = size
	}
}

// WithOverlap sets the segmenter overlap fraction in [0, 1].
func WithOverlap(frac float64) Option {
	return func(p *Pipeline) {
		p.overlap = frac
	}
}

// WithAverager replaces the default spectral averager.
func WithAverager(a *aggregate.Averager) Option {
	return func(p *Pipeline) {
		p.averager = a
	}
}

// WithWorkers bounds the number of concurrently processed documents.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithProgress sets a progress reporter called after each finished document.
func WithProgress(reporter ProgressReporter) Option {
	return func(p *Pipeline) {
		p.progress = reporter
	}
}

// New creates a Pipeline with window size 40, overlap 0.5, and four workers.
func New(provider embedding.Provider, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, fmt.Errorf("pipeline: provider must not be nil")
	}

	p := &Pipeline{
		provider:   provider,
		windowSize: segment.DefaultWindowSize,
		overlap:    segment.DefaultOverlapFraction,
		workers:    DefaultWorkers,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.windowSize <= 0 {
		return nil, fmt.Errorf("pipeline: window size must be positive: %d", p.windowSize)
	}

	if math.IsNaN(p.overlap) || p.overlap < 0 || p.overlap > 1 {
		return nil, fmt.Errorf("pipeline: overlap must be in [0, 1]: %f", p.overlap)
	}

	if p.workers < 1 {
		return nil, fmt.Errorf("pipeline: workers must be >= 1: %d", p.workers)
	}

	if p.averager == nil {
		a, err := aggregate.New()
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		p.averager = a
	}

	return p, nil
}

// Process runs one document through segment, embed, and aggregate.
func (p *Pipeline) Process(ctx context.Context, doc corpus.Document) ([]float64, error) {
	chunks, err := segment.Split(doc.Text, p.windowSize, p.overlap)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document %q has no words", segment.ErrInvalidArgument, doc.ID)
	}

	vectors, err := p.provider.Embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	vec, err := p.averager.Aggregate(vectors)
	if err != nil {
		return nil, err
	}

	return vec, nil
}

// Run processes every document and returns one Result per document, in
// input order. A failing document is recorded in its Result and never aborts
// the others. Cancelling ctx stops scheduling; unprocessed documents report
// the context error.
func (p *Pipeline) Run(ctx context.Context, docs []corpus.Document) []Result {
	results := make([]Result, len(docs))

	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, doc := range docs {
		results[i] = Result{ID: doc.ID, Label: doc.Label}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
			} else {
				vec, err := p.Process(ctx, doc)
				results[i].Vector = vec
				results[i].Err = err
			}

			if p.progress != nil {
				p.progress.OnProgress(int(done.Add(1)), len(docs))
			}

			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	return results
}
