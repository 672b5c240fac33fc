// Package segment splits documents into overlapping word windows.
package segment

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidArgument reports malformed segmentation parameters.
var ErrInvalidArgument = errors.New("segment: invalid argument")

// DefaultWindowSize is the default chunk length in words.
const DefaultWindowSize = 40

// DefaultOverlapFraction is the default fraction of each window shared with
// its successor.
const DefaultOverlapFraction = 0.5

// Split cuts text into chunks of windowSize whitespace-separated words,
// advancing by floor(windowSize*(1-overlapFraction)) words per chunk. The
// stride is clamped to at least one word, so a full overlap cannot stall the
// scan. The final chunk may be shorter than windowSize words. Empty and
// whitespace-only chunks are dropped.
func Split(text string, windowSize int, overlapFraction float64) ([]string, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be a positive integer: %d", ErrInvalidArgument, windowSize)
	}

	if math.IsNaN(overlapFraction) || overlapFraction < 0 || overlapFraction > 1 {
		return nil, fmt.Errorf("%w: overlap fraction must be in [0, 1]: %f", ErrInvalidArgument, overlapFraction)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := int(float64(windowSize) * (1 - overlapFraction))
	if stride < 1 {
		stride = 1
	}

	chunks := make([]string, 0, (len(words)+stride-1)/stride)

	for i := 0; i < len(words); i += stride {
		end := i + windowSize
		if end > len(words) {
			end = len(words)
		}

		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
