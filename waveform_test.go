package wavesvg

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestWaveformData(t *testing.T) {
	env := &Envelope{
		Max:              []float64{1, 0.5, 0},
		Min:              []float64{-1, -0.5, 0},
		SamplesPerBucket: 256,
	}

	data, err := env.WaveformData(44100, 16)
	if err != nil {
		t.Fatalf("WaveformData failed: %v", err)
	}

	if data.Version != 2 {
		t.Errorf("Expected version 2, got %d", data.Version)
	}
	if data.Channels != 1 {
		t.Errorf("Expected 1 channel, got %d", data.Channels)
	}
	if data.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", data.SampleRate)
	}
	if data.SamplesPerPixel != 256 {
		t.Errorf("Expected 256 samples per pixel, got %d", data.SamplesPerPixel)
	}
	if data.Length != 3 {
		t.Errorf("Expected length 3, got %d", data.Length)
	}

	// Data should be in min/max pairs
	want := []int16{-32767, 32767, -16384, 16384, 0, 0}
	if !slices.Equal(data.Data, want) {
		t.Errorf("Expected data %v, got %v", want, data.Data)
	}
}

func TestWaveformData8Bit(t *testing.T) {
	env := &Envelope{Max: []float64{1}, Min: []float64{-1}, SamplesPerBucket: 1}

	data, err := env.WaveformData(8000, 8)
	if err != nil {
		t.Fatalf("WaveformData failed: %v", err)
	}
	if !slices.Equal(data.Data, []int16{-127, 127}) {
		t.Errorf("Expected [-127 127], got %v", data.Data)
	}
}

func TestWaveformDataInvalidBits(t *testing.T) {
	env := &Envelope{Max: []float64{1}, Min: []float64{-1}}
	if _, err := env.WaveformData(8000, 24); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for 24 bits, got %v", err)
	}
}

func TestGenerateJSON(t *testing.T) {
	env := &Envelope{Max: []float64{0.5}, Min: []float64{-0.25}, SamplesPerBucket: 10}
	data, err := env.WaveformData(22050, 16)
	if err != nil {
		t.Fatalf("WaveformData failed: %v", err)
	}

	jsonData, err := GenerateJSON(data)
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	// Check for the audiowaveform field names
	for _, field := range []string{`"version"`, `"sample_rate"`, `"samples_per_pixel"`, `"data"`} {
		if !bytes.Contains(jsonData, []byte(field)) {
			t.Errorf("JSON missing %s field", field)
		}
	}

	var decoded WaveformData
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("Generated JSON does not parse: %v", err)
	}
	if decoded.Length != 1 || len(decoded.Data) != 2 {
		t.Errorf("Expected one min/max pair, got length %d and %d values", decoded.Length, len(decoded.Data))
	}
}
