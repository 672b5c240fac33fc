package stft

import (
	"fmt"
	"math"
)

// Spectrogram holds the one-sided STFT of a real signal: one slice of
// complex bins per analysis frame, plus the framing needed for synthesis.
type Spectrogram struct {
	frames    [][]complex128
	frameSize int
	hopSize   int
	signalLen int
}

// FrameCount returns the number of analysis frames.
func (s *Spectrogram) FrameCount() int { return len(s.frames) }

// Bins returns the number of one-sided frequency bins per frame.
func (s *Spectrogram) Bins() int { return s.frameSize/2 + 1 }

// SignalLen returns the length of the originating signal in samples.
func (s *Spectrogram) SignalLen() int { return s.signalLen }

// At returns the complex coefficient at the given frame and bin.
func (s *Spectrogram) At(frame, bin int) complex128 { return s.frames[frame][bin] }

// Frame returns a copy of the bins of one analysis frame.
func (s *Spectrogram) Frame(frame int) []complex128 {
	out := make([]complex128, len(s.frames[frame]))
	copy(out, s.frames[frame])

	return out
}

// Clone returns a deep copy of the spectrogram.
func (s *Spectrogram) Clone() *Spectrogram {
	frames := make([][]complex128, len(s.frames))
	for i, f := range s.frames {
		frames[i] = make([]complex128, len(f))
		copy(frames[i], f)
	}

	return &Spectrogram{
		frames:    frames,
		frameSize: s.frameSize,
		hopSize:   s.hopSize,
		signalLen: s.signalLen,
	}
}

// Lowpass returns a copy with every frequency bin at index >= floor(cutoff *
// binCount) zeroed in each frame. The cut index is clamped to >= 1, so the
// DC bin always survives. cutoff must be in [0, 1]. The receiver is never
// modified.
func (s *Spectrogram) Lowpass(cutoff float64) (*Spectrogram, error) {
	if math.IsNaN(cutoff) || cutoff < 0 || cutoff > 1 {
		return nil, fmt.Errorf("stft: lowpass cutoff must be in [0, 1]: %f", cutoff)
	}

	out := s.Clone()

	cut := int(cutoff * float64(s.Bins()))
	if cut < 1 {
		cut = 1
	}

	for _, frame := range out.frames {
		for k := cut; k < len(frame); k++ {
			frame[k] = 0
		}
	}

	return out, nil
}
