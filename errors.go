package wavesvg

import "errors"

var (
	// ErrInvalidInput is returned when samples, bucket counts or dimensions
	// cannot produce a waveform. Nothing is computed when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput is returned when the audio is entirely silent and
	// normalization would divide by zero
	ErrDegenerateInput = errors.New("degenerate input: audio is silent")
)
