package wavesvg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/schollz/wavesvg/internal/sink"
)

// RenderConfig holds the configuration for rendering a waveform document
type RenderConfig struct {
	buckets         int
	width           int
	height          int
	includeNegative bool
	allowSilence    bool
	window          int // 0 uses the bucket width
	smoothing       int
	start, end      float64
	bits            int
	svgOptions      []SVGOption
	plotFile        string
	plotOptions     []PlotOption
	s3              sink.S3Config
	s3Client        sink.PutObjectAPI
	logger          *zap.Logger
}

// Option is the type all render options need to adhere to
type Option func(*RenderConfig)

// OptionSetBuckets sets the number of buckets the samples are reduced to
func OptionSetBuckets(buckets int) Option {
	return func(c *RenderConfig) {
		c.buckets = buckets
	}
}

// OptionSetWidth sets the width of the document
func OptionSetWidth(width int) Option {
	return func(c *RenderConfig) {
		c.width = width
	}
}

// OptionSetHeight sets the height of the document
func OptionSetHeight(height int) Option {
	return func(c *RenderConfig) {
		c.height = height
	}
}

// OptionIncludeNegative enables or disables tracing the lower envelope
func OptionIncludeNegative(include bool) Option {
	return func(c *RenderConfig) {
		c.includeNegative = include
	}
}

// OptionAllowSilence renders silent audio as a flat midline instead of
// failing with ErrDegenerateInput
func OptionAllowSilence(allow bool) Option {
	return func(c *RenderConfig) {
		c.allowSilence = allow
	}
}

// OptionSetWindow reduces a fixed number of samples at every bucket step.
// Use LegacyWindow for the fixed 256-sample slices, 0 for the bucket width.
func OptionSetWindow(width int) Option {
	return func(c *RenderConfig) {
		c.window = width
	}
}

// OptionSetSmoothing smooths the envelope with a hann window of the given size
func OptionSetSmoothing(size int) Option {
	return func(c *RenderConfig) {
		c.smoothing = size
	}
}

// OptionSetRange limits Convert to the audio between start and end seconds.
// An end of 0 means the end of the file.
func OptionSetRange(start, end float64) Option {
	return func(c *RenderConfig) {
		c.start = start
		c.end = end
	}
}

// OptionSetBits sets the integer range of audiowaveform JSON output (8 or 16)
func OptionSetBits(bits int) Option {
	return func(c *RenderConfig) {
		c.bits = bits
	}
}

// OptionSetSVG applies presentation options to the SVG document
func OptionSetSVG(opts ...SVGOption) Option {
	return func(c *RenderConfig) {
		c.svgOptions = append(c.svgOptions, opts...)
	}
}

// OptionSetPlot makes Convert also save a styled preview to filename
func OptionSetPlot(filename string, opts ...PlotOption) Option {
	return func(c *RenderConfig) {
		c.plotFile = filename
		c.plotOptions = append(c.plotOptions, opts...)
	}
}

// OptionSetS3 configures uploads for s3://bucket/key destinations
func OptionSetS3(region, endpoint string, pathStyle bool) Option {
	return func(c *RenderConfig) {
		c.s3 = sink.S3Config{Region: region, Endpoint: endpoint, PathStyle: pathStyle}
	}
}

// OptionSetS3Client uploads through an existing S3 client
func OptionSetS3Client(client sink.PutObjectAPI) Option {
	return func(c *RenderConfig) {
		c.s3Client = client
	}
}

// OptionSetLogger sets the logger used by Convert
func OptionSetLogger(logger *zap.Logger) Option {
	return func(c *RenderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newRenderConfig(opts []Option) RenderConfig {
	config := RenderConfig{
		buckets:         512,
		width:           512,
		height:          100,
		includeNegative: true,
		bits:            16,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// RenderEnvelope flattens, normalizes and reduces the audio matrix
func RenderEnvelope(m Matrix, opts ...Option) (*Envelope, error) {
	config := newRenderConfig(opts)
	return config.envelope(m)
}

func (c *RenderConfig) envelope(m Matrix) (*Envelope, error) {
	samples, err := Prepare(m)
	if errors.Is(err, ErrDegenerateInput) && c.allowSilence {
		samples, err = Flatten(m)
	}
	if err != nil {
		return nil, err
	}

	var env *Envelope
	if c.window > 0 {
		env, err = ExtractEnvelopeWindow(samples, c.buckets, c.window)
	} else {
		env, err = ExtractEnvelope(samples, c.buckets)
	}
	if err != nil {
		return nil, err
	}

	if c.smoothing > 0 {
		env = env.Smooth(c.smoothing)
	}
	return env, nil
}

func (c *RenderConfig) polygon(env *Envelope) (*Polygon, error) {
	return BuildPolygon(env.Max, env.Min, PolygonConfig{
		Buckets:         c.buckets,
		IncludeNegative: c.includeNegative,
		Width:           c.width,
		Height:          c.height,
	})
}

// Render turns a decoded audio matrix into an SVG waveform document
func Render(m Matrix, opts ...Option) ([]byte, error) {
	config := newRenderConfig(opts)

	// dimensions are checked before any computation
	if config.width <= 0 || config.height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidInput, config.width, config.height)
	}

	env, err := config.envelope(m)
	if err != nil {
		return nil, err
	}
	poly, err := config.polygon(env)
	if err != nil {
		return nil, err
	}
	return MarshalSVG(poly, config.svgOptions...)
}

// Convert reads an audio file and writes its waveform to output. Outputs ending
// in .json get audiowaveform JSON, everything else an SVG document. output may
// be a local path or an s3://bucket/key URL.
func Convert(ctx context.Context, input, output string, opts ...Option) error {
	config := newRenderConfig(opts)
	log := config.logger.With(zap.String("input", input), zap.String("output", output))

	if config.width <= 0 || config.height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidInput, config.width, config.height)
	}

	var plotFormat string
	if config.plotFile != "" {
		var err error
		if plotFormat, err = PlotFormat(config.plotFile); err != nil {
			return err
		}
	}

	start := time.Now()
	audio, err := LoadAudio(input)
	if err != nil {
		return err
	}
	if config.start != 0 || config.end != 0 {
		if audio, err = audio.Slice(config.start, config.end); err != nil {
			return err
		}
	}
	log.Debug("audio decoded",
		zap.Int("frames", len(audio.Samples)),
		zap.Int("channels", audio.Channels),
		zap.Int("sample_rate", audio.SampleRate),
		zap.Duration("elapsed", time.Since(start)),
	)

	env, err := config.envelope(audio.Samples)
	if err != nil {
		return err
	}
	log.Debug("envelope extracted",
		zap.Int("buckets", env.Len()),
		zap.Int("samples_per_bucket", env.SamplesPerBucket),
	)

	var doc []byte
	if sink.DocumentExt(output) == ".json" {
		data, err := env.WaveformData(audio.SampleRate, config.bits)
		if err != nil {
			return err
		}
		if doc, err = GenerateJSON(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	} else {
		poly, err := config.polygon(env)
		if err != nil {
			return err
		}
		if doc, err = MarshalSVG(poly, config.svgOptions...); err != nil {
			return err
		}
	}

	out := sink.New(
		sink.WithS3Config(config.s3),
		sink.WithS3Client(config.s3Client),
		sink.WithLogger(config.logger),
	)
	if err := out.Save(ctx, output, doc); err != nil {
		return err
	}

	if config.plotFile != "" {
		plotOpts := append([]PlotOption{PlotOptionSetSampleRate(audio.SampleRate)}, config.plotOptions...)
		img, err := RenderPlot(env, plotFormat, plotOpts...)
		if err != nil {
			return err
		}
		if err := out.Save(ctx, config.plotFile, img); err != nil {
			return err
		}
	}

	log.Info("waveform written",
		zap.Int("bytes", len(doc)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
