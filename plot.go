package wavesvg

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotConfig holds the configuration for plotting a waveform preview
type PlotConfig struct {
	width           int
	height          int
	backgroundColor color.Color
	foregroundColor color.Color
	showTimestamp   bool
	hideYAxis       bool
	hideXAxis       bool
	title           string
	sampleRate      int // 0 labels the x-axis in buckets instead of seconds
}

// PlotOption is the type all plot options need to adhere to
type PlotOption func(*PlotConfig)

// PlotOptionSetWidth sets the width of the plot in pixels
func PlotOptionSetWidth(width int) PlotOption {
	return func(c *PlotConfig) {
		c.width = width
	}
}

// PlotOptionSetHeight sets the height of the plot in pixels
func PlotOptionSetHeight(height int) PlotOption {
	return func(c *PlotConfig) {
		c.height = height
	}
}

// PlotOptionSetBackgroundColor sets the background color using a hex color code
func PlotOptionSetBackgroundColor(hexColor string) PlotOption {
	return func(c *PlotConfig) {
		c.backgroundColor = hexToColor(hexColor)
	}
}

// PlotOptionSetForegroundColor sets the waveform color using a hex color code
func PlotOptionSetForegroundColor(hexColor string) PlotOption {
	return func(c *PlotConfig) {
		c.foregroundColor = hexToColor(hexColor)
	}
}

// PlotOptionShowTimestamp enables or disables the x-axis label and ticks
func PlotOptionShowTimestamp(show bool) PlotOption {
	return func(c *PlotConfig) {
		c.showTimestamp = show
	}
}

// PlotOptionHideYAxis enables or disables the y-axis display
func PlotOptionHideYAxis(hide bool) PlotOption {
	return func(c *PlotConfig) {
		c.hideYAxis = hide
	}
}

// PlotOptionHideXAxis enables or disables the x-axis display
func PlotOptionHideXAxis(hide bool) PlotOption {
	return func(c *PlotConfig) {
		c.hideXAxis = hide
	}
}

// PlotOptionSetTitle sets the title for the plot
func PlotOptionSetTitle(title string) PlotOption {
	return func(c *PlotConfig) {
		c.title = title
	}
}

// PlotOptionSetSampleRate labels the x-axis in seconds using the source sample rate
func PlotOptionSetSampleRate(sampleRate int) PlotOption {
	return func(c *PlotConfig) {
		if sampleRate > 0 {
			c.sampleRate = sampleRate
		}
	}
}

// hexToColor converts a hex color string to color.Color
// Supports formats: #RGB, #RRGGBB, RGB, RRGGBB
func hexToColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")

	// Default to black if invalid
	if len(hex) != 3 && len(hex) != 6 {
		return color.Black
	}

	// Expand 3-digit hex to 6-digit
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// plotFormats maps file extensions to gonum/plot output formats
var plotFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpg",
	".jpeg": "jpg",
	".svg":  "svg",
	".pdf":  "pdf",
}

// PlotFormat returns the gonum/plot format for a filename
func PlotFormat(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := plotFormats[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file format: %s (supported: .png, .jpg, .jpeg, .svg, .pdf)", ext)
	}
	return format, nil
}

// RenderPlot draws a styled preview of the envelope and encodes it in the
// given format (png, jpg, svg or pdf)
func RenderPlot(env *Envelope, format string, opts ...PlotOption) ([]byte, error) {
	if env == nil || env.Len() == 0 || len(env.Max) != len(env.Min) {
		return nil, fmt.Errorf("%w: empty envelope", ErrInvalidInput)
	}

	// Default configuration
	config := PlotConfig{
		width:           800,
		height:          400,
		backgroundColor: color.White,
		foregroundColor: color.RGBA{R: 0, G: 100, B: 200, A: 255}, // Blue
		showTimestamp:   true,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.width <= 0 || config.height <= 0 {
		return nil, fmt.Errorf("%w: plot dimensions must be positive, got %dx%d", ErrInvalidInput, config.width, config.height)
	}

	p := plot.New()
	p.BackgroundColor = config.backgroundColor
	p.Title.Text = config.title

	if config.showTimestamp {
		p.X.Label.Text = "Bucket"
		if config.sampleRate > 0 {
			p.X.Label.Text = "Time (seconds)"
		}
	}
	if !config.hideYAxis {
		p.Y.Label.Text = "Amplitude"
	}
	if !config.showTimestamp || config.hideXAxis {
		p.X.Label.Text = ""
		p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
		p.X.Tick.LineStyle.Width = 0
		p.X.LineStyle.Width = 0
	}
	if config.hideYAxis {
		p.Y.Label.Text = ""
		p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
		p.Y.Tick.LineStyle.Width = 0
		p.Y.LineStyle.Width = 0
	}

	xPos := func(i int) float64 {
		if config.sampleRate > 0 {
			return float64(i*env.SamplesPerBucket) / float64(config.sampleRate)
		}
		return float64(i)
	}

	// Upper envelope forward, lower envelope in reverse
	points := make(plotter.XYs, 0, 2*env.Len())
	for i, v := range env.Max {
		points = append(points, plotter.XY{X: xPos(i), Y: v})
	}
	for i := env.Len() - 1; i >= 0; i-- {
		points = append(points, plotter.XY{X: xPos(i), Y: env.Min[i]})
	}

	poly, err := plotter.NewPolygon(points)
	if err != nil {
		return nil, fmt.Errorf("failed to create polygon: %w", err)
	}
	poly.Color = config.foregroundColor
	poly.LineStyle.Width = vg.Points(0) // No outline
	p.Add(poly)

	p.X.Min = xPos(0)
	p.X.Max = xPos(env.Len())
	p.Y.Min = -1.0
	p.Y.Max = 1.0

	// Convert pixels to vg.Length (assuming 96 DPI)
	width := vg.Length(config.width) * vg.Inch / 96
	height := vg.Length(config.height) * vg.Inch / 96

	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s plot: %w", format, err)
	}
	return buf.Bytes(), nil
}

// SavePlot saves the envelope preview to an image file.
// The file format is determined by the filename extension.
func SavePlot(env *Envelope, filename string, opts ...PlotOption) error {
	format, err := PlotFormat(filename)
	if err != nil {
		return err
	}

	data, err := RenderPlot(env, format, opts...)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", strings.ToUpper(format), err)
	}
	return nil
}
