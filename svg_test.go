package wavesvg

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

func examplePolygon(t *testing.T, negative bool) *Polygon {
	t.Helper()

	poly, err := BuildPolygon([]float64{1, 0, -1}, []float64{0, -0.5, -1}, PolygonConfig{
		Buckets:         3,
		IncludeNegative: negative,
		Width:           30,
		Height:          100,
	})
	if err != nil {
		t.Fatalf("BuildPolygon failed: %v", err)
	}
	return poly
}

func TestPointsAttr(t *testing.T) {
	got := PointsAttr(examplePolygon(t, false))
	want := "0,50 0.5,0.00 10.5,50.00 20.5,100.00 30,50"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got = PointsAttr(examplePolygon(t, true))
	want = "0,50 0.5,0.00 10.5,50.00 20.5,100.00 30,50 29.5,100.00 19.5,75.00 9.5,50.00"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestPointsAttrRoundsX(t *testing.T) {
	poly, err := BuildPolygon([]float64{0, 0, 0, 0}, []float64{0, 0, 0, 0}, PolygonConfig{
		Buckets: 10,
		Width:   3,
		Height:  7,
	})
	if err != nil {
		t.Fatalf("BuildPolygon failed: %v", err)
	}

	// 3/10*3 is 0.8999999999999999 in floating point
	want := "0,3.5 0.5,3.50 0.8,3.50 1.1,3.50 1.4,3.50 3,3.5"
	if got := PointsAttr(poly); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

type svgDoc struct {
	XMLName             xml.Name `xml:"svg"`
	Width               string   `xml:"width,attr"`
	Height              string   `xml:"height,attr"`
	ID                  string   `xml:"id,attr"`
	ViewBox             string   `xml:"viewBox,attr"`
	PreserveAspectRatio string   `xml:"preserveAspectRatio,attr"`
	Polygons            []struct {
		Points string `xml:"points,attr"`
		Fill   string `xml:"fill,attr"`
		Stroke string `xml:"stroke,attr"`
	} `xml:"polygon"`
}

func parseSVG(t *testing.T, data []byte) svgDoc {
	t.Helper()

	var doc svgDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to parse SVG: %v\n%s", err, data)
	}
	return doc
}

func TestMarshalSVG(t *testing.T) {
	data, err := MarshalSVG(examplePolygon(t, false))
	if err != nil {
		t.Fatalf("MarshalSVG failed: %v", err)
	}

	doc := parseSVG(t, data)
	if doc.Width != "30" || doc.Height != "100" {
		t.Errorf("Expected 30x100 document, got %sx%s", doc.Width, doc.Height)
	}
	if len(doc.Polygons) != 1 {
		t.Fatalf("Expected exactly one polygon, got %d", len(doc.Polygons))
	}
	if want := "0,50 0.5,0.00 10.5,50.00 20.5,100.00 30,50"; doc.Polygons[0].Points != want {
		t.Errorf("Expected points %q, got %q", want, doc.Polygons[0].Points)
	}
	if doc.ViewBox != "" || doc.ID != "" || doc.Polygons[0].Fill != "" {
		t.Error("Expected no presentation attributes by default")
	}
}

func TestMarshalSVGOptions(t *testing.T) {
	data, err := MarshalSVG(examplePolygon(t, true),
		SVGOptionSetID("waveform"),
		SVGOptionScalable(true),
		SVGOptionSetFill("#0064C8"),
		SVGOptionSetStroke(`"none"`),
	)
	if err != nil {
		t.Fatalf("MarshalSVG failed: %v", err)
	}

	doc := parseSVG(t, data)
	if doc.ID != "waveform" {
		t.Errorf("Expected id waveform, got %q", doc.ID)
	}
	if doc.ViewBox != "0 0 30 100" {
		t.Errorf("Expected viewBox \"0 0 30 100\", got %q", doc.ViewBox)
	}
	if doc.PreserveAspectRatio != "none" {
		t.Errorf("Expected preserveAspectRatio none, got %q", doc.PreserveAspectRatio)
	}
	if doc.Polygons[0].Fill != "#0064C8" {
		t.Errorf("Expected fill #0064C8, got %q", doc.Polygons[0].Fill)
	}
	if doc.Polygons[0].Stroke != `"none"` {
		t.Errorf("Expected escaped stroke to round-trip, got %q", doc.Polygons[0].Stroke)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteSVGReportsWriteErrors(t *testing.T) {
	err := WriteSVG(failingWriter{}, examplePolygon(t, false))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected write error, got %v", err)
	}
}

func TestWriteSVGEmptyPolygon(t *testing.T) {
	if err := WriteSVG(&strings.Builder{}, &Polygon{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
