package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates one period-locked sine wave sampled at unit
// rate with the given cycles-per-sample frequency.
func DeterministicSine(freq, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freq

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// ConstantMatrix returns rows copies of vector v, the embedding matrix of a
// document whose chunks all embed identically.
func ConstantMatrix(v []float64, rows int) [][]float64 {
	out := make([][]float64, rows)

	for i := range out {
		out[i] = make([]float64, len(v))
		copy(out[i], v)
	}

	return out
}

// DeterministicMatrix returns a rows x cols matrix of seeded uniform noise
// in [-1, 1], standing in for a chunk embedding matrix.
func DeterministicMatrix(seed int64, rows, cols int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, rows)

	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = rng.Float64()*2 - 1
		}
	}

	return out
}

// Column extracts column d of a row-major matrix.
func Column(m [][]float64, d int) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		out[i] = m[i][d]
	}

	return out
}
