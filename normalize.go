package wavesvg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Matrix holds decoded audio as one row per frame and one column per channel
type Matrix [][]float64

// MatrixFromInterleaved splits interleaved samples into frames.
// A trailing partial frame is dropped.
func MatrixFromInterleaved(data []float64, channels int) (Matrix, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count must be at least 1, got %d", ErrInvalidInput, channels)
	}

	frames := len(data) / channels
	m := make(Matrix, frames)
	for i := 0; i < frames; i++ {
		m[i] = data[i*channels : (i+1)*channels : (i+1)*channels]
	}
	return m, nil
}

// Flatten reduces every frame to the maximum value across its channels
func Flatten(m Matrix) ([]float64, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: no audio frames", ErrInvalidInput)
	}

	channels := len(m[0])
	out := make([]float64, len(m))
	for i, frame := range m {
		if len(frame) == 0 || len(frame) != channels {
			return nil, fmt.Errorf("%w: frame %d has %d channels, expected %d", ErrInvalidInput, i, len(frame), channels)
		}
		v := floats.Max(frame)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: frame %d is not a finite number", ErrInvalidInput, i)
		}
		out[i] = v
	}
	return out, nil
}

// Normalize returns a copy of samples scaled so that the largest absolute
// value is exactly 1.0
func Normalize(samples []float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}

	peak := math.Max(floats.Max(samples), -floats.Min(samples))
	if peak == 0 {
		return nil, ErrDegenerateInput
	}

	out := make([]float64, len(samples))
	if peak == 1 {
		copy(out, samples)
		return out, nil
	}
	// divide rather than scale by 1/peak so the peak lands on exactly 1.0
	for i, v := range samples {
		out[i] = v / peak
	}
	return out, nil
}

// Prepare flattens a multi-channel matrix and normalizes the result
func Prepare(m Matrix) ([]float64, error) {
	flat, err := Flatten(m)
	if err != nil {
		return nil, err
	}
	return Normalize(flat)
}
