package wavesvg

import (
	"fmt"
	"slices"
)

// Point is a position in image space, y grows downward
type Point struct {
	X float64
	Y float64
}

// PolygonConfig holds the rendering parameters for BuildPolygon
type PolygonConfig struct {
	Buckets         int  // bucket count used for the x mapping
	IncludeNegative bool // trace the lower envelope back to the left edge
	Width           int
	Height          int
}

// Polygon is a closed outline of a waveform envelope. The last point connects
// back to the first.
type Polygon struct {
	Points []Point
	Width  int
	Height int

	upper int // number of upper-envelope points
}

// IsAnchor reports whether the point at index i is one of the two mid-height
// edge anchors
func (p *Polygon) IsAnchor(i int) bool {
	return i == 0 || i == p.upper+1
}

// BuildPolygon traces the upper envelope left to right between two mid-height
// anchors and, when requested, the lower envelope right to left
func BuildPolygon(maxAmps, minAmps []float64, cfg PolygonConfig) (*Polygon, error) {
	if len(maxAmps) != len(minAmps) {
		return nil, fmt.Errorf("%w: %d maxima but %d minima", ErrInvalidInput, len(maxAmps), len(minAmps))
	}
	if cfg.Buckets < 1 {
		return nil, fmt.Errorf("%w: bucket count must be at least 1, got %d", ErrInvalidInput, cfg.Buckets)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidInput, cfg.Width, cfg.Height)
	}

	width := float64(cfg.Width)
	mid := float64(cfg.Height) / 2
	buckets := float64(cfg.Buckets)

	size := len(maxAmps) + 2
	if cfg.IncludeNegative {
		size += len(minAmps)
	}

	poly := &Polygon{
		Points: make([]Point, 0, size),
		Width:  cfg.Width,
		Height: cfg.Height,
		upper:  len(maxAmps),
	}

	poly.Points = append(poly.Points, Point{X: 0, Y: mid})
	for i, amp := range maxAmps {
		poly.Points = append(poly.Points, Point{
			X: float64(i)/buckets*width + 0.5,
			Y: (1 - amp) * mid,
		})
	}
	poly.Points = append(poly.Points, Point{X: width, Y: mid})

	if cfg.IncludeNegative {
		reversed := slices.Clone(minAmps)
		slices.Reverse(reversed)
		for i, amp := range reversed {
			poly.Points = append(poly.Points, Point{
				X: width - (float64(i)/buckets*width + 0.5),
				Y: (1 - amp) * mid,
			})
		}
	}

	return poly, nil
}
