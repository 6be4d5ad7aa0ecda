package wavesvg

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// LegacyWindow is the fixed slice width waveform2svg used regardless of the
// bucket count
const LegacyWindow = 256

// Envelope holds the per-bucket maxima and minima of a sample sequence
type Envelope struct {
	Max []float64
	Min []float64

	// SamplesPerBucket is the step between consecutive buckets
	SamplesPerBucket int
}

// Len returns the number of buckets in the envelope
func (e *Envelope) Len() int {
	return len(e.Max)
}

// SamplesPerBucket returns ceil(numSamples / buckets), never less than 1
func SamplesPerBucket(numSamples, buckets int) int {
	if buckets < 1 {
		return 1
	}
	spb := (numSamples + buckets - 1) / buckets
	if spb < 1 {
		spb = 1
	}
	return spb
}

// ExtractEnvelope reduces samples into buckets of ceil(len/buckets) samples and
// records the maximum and minimum of each
func ExtractEnvelope(samples []float64, buckets int) (*Envelope, error) {
	if err := checkExtract(samples, buckets); err != nil {
		return nil, err
	}

	spb := SamplesPerBucket(len(samples), buckets)
	return extract(samples, spb, spb), nil
}

// ExtractEnvelopeWindow steps through samples like ExtractEnvelope but reduces a
// window of the given width at each step. With width == LegacyWindow this
// reproduces waveform2svg, where windows overlap or leave gaps whenever
// the step is not 256.
func ExtractEnvelopeWindow(samples []float64, buckets, width int) (*Envelope, error) {
	if err := checkExtract(samples, buckets); err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: window width must be at least 1, got %d", ErrInvalidInput, width)
	}

	spb := SamplesPerBucket(len(samples), buckets)
	return extract(samples, spb, width), nil
}

func checkExtract(samples []float64, buckets int) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidInput)
	}
	if buckets < 1 {
		return fmt.Errorf("%w: bucket count must be at least 1, got %d", ErrInvalidInput, buckets)
	}
	return nil
}

// extract assumes len(samples) > 0, step >= 1 and width >= 1
func extract(samples []float64, step, width int) *Envelope {
	n := (len(samples) + step - 1) / step
	env := &Envelope{
		Max:              make([]float64, 0, n),
		Min:              make([]float64, 0, n),
		SamplesPerBucket: step,
	}

	for i := 0; i < len(samples); i += step {
		end := min(i+width, len(samples))
		bucket := samples[i:end]
		env.Max = append(env.Max, floats.Max(bucket))
		env.Min = append(env.Min, floats.Min(bucket))
	}
	return env
}

// Smooth returns a copy of the envelope with both edges passed through a
// hann-weighted moving average. Sizes below 3 return an unmodified copy.
func (e *Envelope) Smooth(size int) *Envelope {
	out := &Envelope{
		Max:              smooth(e.Max, size),
		Min:              smooth(e.Min, size),
		SamplesPerBucket: e.SamplesPerBucket,
	}

	// reflection at the edges can cross the two curves or leave [-1, 1]
	for i := range out.Max {
		out.Max[i] = clamp(out.Max[i])
		out.Min[i] = clamp(out.Min[i])
		if out.Max[i] < out.Min[i] {
			mid := (out.Max[i] + out.Min[i]) / 2
			out.Max[i], out.Min[i] = mid, mid
		}
	}
	return out
}

func smooth(x []float64, size int) []float64 {
	n := len(x)
	out := make([]float64, n)
	copy(out, x)

	if size > n {
		size = n
	}
	if size < 3 {
		return out
	}

	half := size / 2

	// odd reflection about the first and last values
	padded := make([]float64, n+size-1)
	for j := 1; j <= half; j++ {
		padded[half-j] = 2*x[0] - x[min(j, n-1)]
	}
	copy(padded[half:], x)
	for j := 1; j < size-half; j++ {
		padded[half+n-1+j] = 2*x[n-1] - x[max(n-1-j, 0)]
	}

	ones := make([]float64, size)
	floats.AddConst(1, ones)
	weights := window.Hann(ones)
	floats.Scale(1/floats.Sum(weights), weights)

	for i := 0; i < n; i++ {
		out[i] = floats.Dot(weights, padded[i:i+size])
	}
	return out
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
