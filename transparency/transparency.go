// Package transparency exposes the pipeline's intermediate artifacts to
// interested callers: block maps, the binarized raster, minutiae dumps and a
// vector plot. Artifacts are pushed through a caller-supplied inspector so
// rendering work only happens for keys the inspector asks for.
package transparency

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	svg "github.com/ajstarks/svgo"
)

// ContentInspector receives named artifacts from pipeline runs. Accepts is
// consulted first so implementations can filter by key before any rendering
// happens.
type ContentInspector interface {
	Accepts(key string) bool
	Accept(key, mime string, data []byte) error
}

// Logger fans pipeline artifacts out to an inspector. A nil *Logger is valid
// and drops everything, so library code can log unconditionally.
type Logger struct {
	inspector ContentInspector
}

// NewLogger wraps an inspector. A nil inspector yields a logger that drops
// everything.
func NewLogger(inspector ContentInspector) *Logger {
	return &Logger{inspector: inspector}
}

func (l *Logger) accepts(key string) bool {
	return l != nil && l.inspector != nil && l.inspector.Accepts(key)
}

// Text emits a preformatted text artifact.
func (l *Logger) Text(key, body string) {
	if !l.accepts(key) {
		return
	}
	l.inspector.Accept(key, "text/plain", []byte(body))
}

// IntGrid emits a block map as rows of space-separated integers.
func (l *Logger) IntGrid(key string, w, h int, cells []int) {
	if !l.accepts(key) || len(cells) != w*h {
		return
	}
	var buf bytes.Buffer
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%d", cells[y*w+x])
		}
		buf.WriteByte('\n')
	}
	l.inspector.Accept(key, "text/plain", buf.Bytes())
}

// BinaryImage emits a two-level raster as a PNG, ridge pixels black.
func (l *Logger) BinaryImage(key string, w, h int, bits []uint8) {
	if !l.accepts(key) || len(bits) != w*h {
		return
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range bits {
		if v == 0 {
			img.Pix[i] = 255
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	l.inspector.Accept(key, "image/png", buf.Bytes())
}

// MinutiaPoint is the rendering view of one minutia.
type MinutiaPoint struct {
	X, Y        int
	Degrees     float64
	Type        string
	Reliability float64
}

// Minutiae emits a minutiae list as one text row per point.
func (l *Logger) Minutiae(key string, pts []MinutiaPoint) {
	if !l.accepts(key) {
		return
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", len(pts))
	for _, p := range pts {
		fmt.Fprintf(&buf, "%d %d %.2f %.2f %s\n", p.X, p.Y, p.Degrees, p.Reliability, p.Type)
	}
	l.inspector.Accept(key, "text/plain", buf.Bytes())
}

// SVG emits a vector plot of the minutiae over a w×h canvas: a circle per
// point with a direction tick, ridge endings red and bifurcations blue.
func (l *Logger) SVG(key string, w, h int, pts []MinutiaPoint) {
	if !l.accepts(key) {
		return
	}
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:white")
	for _, p := range pts {
		color := "red"
		if p.Type == "bifurcation" {
			color = "blue"
		}
		rad := p.Degrees * math.Pi / 180
		tx := p.X + int(math.Round(8*math.Sin(rad)))
		ty := p.Y - int(math.Round(8*math.Cos(rad)))
		canvas.Circle(p.X, p.Y, 3, "fill:none;stroke:"+color)
		canvas.Line(p.X, p.Y, tx, ty, "stroke:"+color)
	}
	canvas.End()
	l.inspector.Accept(key, "image/svg+xml", buf.Bytes())
}
