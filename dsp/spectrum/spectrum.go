// Package spectrum computes magnitude and power quantities over complex
// frequency bins and spectrograms.
package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/docvec/dsp/stft"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)

	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Uses SIMD-optimized implementations when available. Scratch buffers are
// pooled internally, so in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)

	return out
}

// AveragePowerPerBin returns the mean of |X[k]|^2 across all frames of spec,
// one value per frequency bin. This is the energy profile of the chunk-axis
// signal: a sequence dominated by slow drift concentrates energy in the low
// bins.
func AveragePowerPerBin(spec *stft.Spectrogram) []float64 {
	if spec == nil || spec.FrameCount() == 0 {
		return nil
	}

	out := make([]float64, spec.Bins())

	for frame := range spec.FrameCount() {
		p := Power(spec.Frame(frame))
		vecmath.AddBlockInPlace(out, p)
	}

	scale := 1.0 / float64(spec.FrameCount())
	vecmath.ScaleBlock(out, out, scale)

	return out
}
