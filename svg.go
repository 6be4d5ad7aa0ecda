package wavesvg

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVGConfig holds optional presentation attributes for the SVG document
type SVGConfig struct {
	id       string
	fill     string
	stroke   string
	scalable bool
}

// SVGOption is the type all SVG document options need to adhere to
type SVGOption func(*SVGConfig)

// SVGOptionSetID sets the id attribute of the root element
func SVGOptionSetID(id string) SVGOption {
	return func(c *SVGConfig) {
		c.id = id
	}
}

// SVGOptionSetFill sets the polygon fill color (any SVG paint value)
func SVGOptionSetFill(fill string) SVGOption {
	return func(c *SVGConfig) {
		c.fill = fill
	}
}

// SVGOptionSetStroke sets the polygon outline color (any SVG paint value)
func SVGOptionSetStroke(stroke string) SVGOption {
	return func(c *SVGConfig) {
		c.stroke = stroke
	}
}

// SVGOptionScalable adds a viewBox and preserveAspectRatio="none" so the
// waveform stretches to whatever box it is displayed in
func SVGOptionScalable(scalable bool) SVGOption {
	return func(c *SVGConfig) {
		c.scalable = scalable
	}
}

// WriteSVG writes the polygon as a single <polygon> inside an <svg> element
// sized to the polygon's dimensions
func WriteSVG(w io.Writer, poly *Polygon, opts ...SVGOption) error {
	if poly == nil || len(poly.Points) == 0 {
		return fmt.Errorf("%w: empty polygon", ErrInvalidInput)
	}

	config := SVGConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	var rootAttrs []string
	if config.id != "" {
		rootAttrs = append(rootAttrs, attr("id", config.id))
	}
	if config.scalable {
		rootAttrs = append(rootAttrs,
			attr("preserveAspectRatio", "none"),
			attr("viewBox", fmt.Sprintf("0 0 %d %d", poly.Width, poly.Height)),
		)
	}

	var polyAttrs []string
	if config.fill != "" {
		polyAttrs = append(polyAttrs, attr("fill", config.fill))
	}
	if config.stroke != "" {
		polyAttrs = append(polyAttrs, attr("stroke", config.stroke))
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(poly.Width, poly.Height, rootAttrs...)
	// svgo only draws integer polygons, so the element is written directly
	fmt.Fprintf(canvas.Writer, "<polygon points=\"%s\"", PointsAttr(poly))
	for _, a := range polyAttrs {
		fmt.Fprintf(canvas.Writer, " %s", a)
	}
	fmt.Fprint(canvas.Writer, "/>\n")
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("failed to write SVG: %w", ew.err)
	}
	return nil
}

// MarshalSVG renders the polygon document into memory
func MarshalSVG(poly *Polygon, opts ...SVGOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, poly, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PointsAttr formats the polygon as space-separated "x,y" pairs. Anchors keep
// their shortest form, envelope points get two-decimal y values.
func PointsAttr(poly *Polygon) string {
	var b strings.Builder
	for i, p := range poly.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		if poly.IsAnchor(i) {
			b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
			continue
		}
		b.WriteString(strconv.FormatFloat(roundHundredths(p.X), 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}

// roundHundredths hides float noise such as 0.30000000000000004 in x values
func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// errWriter keeps the first write error, svgo does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
