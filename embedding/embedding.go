// Package embedding defines the contract for external text embedding
// providers.
package embedding

import (
	"context"
	"fmt"
)

// Provider generates embeddings from text.
//
// Embed returns one vector per input text, in input order. All vectors from
// one provider share the same dimensionality.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	ModelName() string
	Dimensions() int
}

// ProviderError reports a failed embedding request. Status holds the HTTP
// status code when one was received, zero otherwise.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding provider %s: status %d: %v", e.Provider, e.Status, e.Err)
	}

	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Err }
