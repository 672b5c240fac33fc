package aggregate_test

import (
	"fmt"

	"github.com/cwbudde/docvec/aggregate"
)

func ExampleAverager_Aggregate() {
	a, err := aggregate.New(aggregate.WithCutoff(0.5))
	if err != nil {
		panic(err)
	}

	// A document whose 40 chunks all embed to the same vector aggregates to
	// that vector: lowpass smoothing cannot move a constant sequence.
	embeddings := make([][]float64, 40)
	for i := range embeddings {
		embeddings[i] = []float64{0.25, -0.5}
	}

	vec, err := a.Aggregate(embeddings)
	if err != nil {
		panic(err)
	}

	fmt.Printf("[%.2f %.2f]\n", vec[0], vec[1])
	// Output:
	// [0.25 -0.50]
}
