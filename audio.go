package wavesvg

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// Audio is a decoded audio file
type Audio struct {
	Samples    Matrix // frames x channels, each value in [-1, 1]
	SampleRate int
	Channels   int
}

// Duration returns the length of the audio in seconds
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Slice returns the frames between start and end seconds. An end of 0 means
// the end of the audio. The returned Audio shares frames with a.
func (a *Audio) Slice(start, end float64) (*Audio, error) {
	total := len(a.Samples)
	startSample := int(start * float64(a.SampleRate))
	endSample := total
	if end > 0 {
		endSample = int(end * float64(a.SampleRate))
	}

	if startSample < 0 {
		startSample = 0
	}
	if endSample > total {
		endSample = total
	}
	if startSample >= endSample {
		return nil, fmt.Errorf("%w: invalid range: start must be before end", ErrInvalidInput)
	}

	return &Audio{
		Samples:    a.Samples[startSample:endSample],
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
	}, nil
}

// LoadAudio decodes an audio file, picking the decoder from the extension
func LoadAudio(filename string) (*Audio, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var audio *Audio
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".wav", ".wave":
		audio, err = DecodeWAV(file)
	case ".mp3":
		audio, err = DecodeMP3(file)
	case ".flac":
		audio, err = DecodeFLAC(file)
	case ".ogg", ".oga":
		audio, err = DecodeOgg(file)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .flac, .ogg)", ext)
	}
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// DecodeWAV reads an integer PCM WAV stream
func DecodeWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bits := int(dec.BitDepth)
	if bits == 0 {
		bits = 16
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	full := float64(int64(1) << (bits - 1))
	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		if bits == 8 {
			// 8-bit samples are unsigned (0-255)
			v -= 128
		}
		data[i] = float64(v) / full
	}

	m, err := MatrixFromInterleaved(data, channels)
	if err != nil {
		return nil, err
	}
	return &Audio{Samples: m, SampleRate: int(dec.SampleRate), Channels: channels}, nil
}

// DecodeMP3 reads an MPEG-1/2 layer 3 stream. The decoder always produces
// 16-bit stereo.
func DecodeMP3(r io.Reader) (*Audio, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 stream: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3 stream: %w", err)
	}

	const channels = 2
	data := make([]float64, len(pcm)/2)
	for i := range data {
		sample := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		data[i] = float64(sample) / 32768.0
	}

	m, err := MatrixFromInterleaved(data, channels)
	if err != nil {
		return nil, err
	}
	return &Audio{Samples: m, SampleRate: dec.SampleRate(), Channels: channels}, nil
}

// DecodeFLAC reads a FLAC stream frame by frame
func DecodeFLAC(r io.Reader) (*Audio, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC stream: %w", err)
	}

	channels := int(stream.Info.NChannels)
	full := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var data []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}
		if len(frame.Subframes) != channels {
			return nil, fmt.Errorf("FLAC frame has %d channels, expected %d", len(frame.Subframes), channels)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for _, sub := range frame.Subframes {
				data = append(data, float64(sub.Samples[i])/full)
			}
		}
	}

	m, err := MatrixFromInterleaved(data, channels)
	if err != nil {
		return nil, err
	}
	return &Audio{Samples: m, SampleRate: int(stream.Info.SampleRate), Channels: channels}, nil
}

// DecodeOgg reads an Ogg Vorbis stream
func DecodeOgg(r io.Reader) (*Audio, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis stream: %w", err)
	}

	data := make([]float64, len(samples))
	for i, v := range samples {
		data[i] = float64(v)
	}

	m, err := MatrixFromInterleaved(data, format.Channels)
	if err != nil {
		return nil, err
	}
	return &Audio{Samples: m, SampleRate: format.SampleRate, Channels: format.Channels}, nil
}
