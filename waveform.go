package wavesvg

import (
	"encoding/json"
	"fmt"
	"math"
)

// WaveformData represents the JSON output format compatible with audiowaveform
type WaveformData struct {
	Version         int     `json:"version"`
	Channels        int     `json:"channels"`
	SampleRate      int     `json:"sample_rate"`
	SamplesPerPixel int     `json:"samples_per_pixel"`
	Bits            int     `json:"bits"`
	Length          int     `json:"length"`
	Data            []int16 `json:"data"`
}

// WaveformData converts the envelope into audiowaveform's min/max pair layout.
// bits selects the integer range of the data array and must be 8 or 16.
func (e *Envelope) WaveformData(sampleRate, bits int) (*WaveformData, error) {
	var full float64
	switch bits {
	case 8:
		full = math.MaxInt8
	case 16:
		full = math.MaxInt16
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth: %d (supported: 8, 16)", ErrInvalidInput, bits)
	}
	if len(e.Max) != len(e.Min) {
		return nil, fmt.Errorf("%w: %d maxima but %d minima", ErrInvalidInput, len(e.Max), len(e.Min))
	}

	data := &WaveformData{
		Version:         2,
		Channels:        1, // channels are flattened before extraction
		SampleRate:      sampleRate,
		SamplesPerPixel: e.SamplesPerBucket,
		Bits:            bits,
		Length:          e.Len(),
		Data:            make([]int16, 0, 2*e.Len()),
	}
	for i := range e.Max {
		data.Data = append(data.Data,
			int16(math.Round(e.Min[i]*full)),
			int16(math.Round(e.Max[i]*full)),
		)
	}
	return data, nil
}

// GenerateJSON generates JSON output from waveform data
func GenerateJSON(data *WaveformData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}
