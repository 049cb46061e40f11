package transparency

import (
	"bytes"
	"strings"
	"testing"
)

type recordingInspector struct {
	allow map[string]bool
	got   map[string][]byte
	mimes map[string]string
}

func newRecordingInspector(keys ...string) *recordingInspector {
	allow := make(map[string]bool)
	for _, k := range keys {
		allow[k] = true
	}
	return &recordingInspector{allow: allow, got: make(map[string][]byte), mimes: make(map[string]string)}
}

func (r *recordingInspector) Accepts(key string) bool { return r.allow[key] }

func (r *recordingInspector) Accept(key, mime string, data []byte) error {
	r.got[key] = append([]byte(nil), data...)
	r.mimes[key] = mime
	return nil
}

func TestAcceptsGatesRendering(t *testing.T) {
	insp := newRecordingInspector("wanted")
	l := NewLogger(insp)
	l.Text("wanted", "hello")
	l.Text("unwanted", "hidden")
	if string(insp.got["wanted"]) != "hello" {
		t.Errorf("wanted artifact = %q", insp.got["wanted"])
	}
	if _, ok := insp.got["unwanted"]; ok {
		t.Error("artifact emitted for a key the inspector rejected")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Text("key", "body")
	l.IntGrid("key", 1, 1, []int{0})
	l.BinaryImage("key", 1, 1, []uint8{1})
	l.Minutiae("key", nil)
	l.SVG("key", 10, 10, nil)
}

func TestIntGrid(t *testing.T) {
	insp := newRecordingInspector("grid")
	NewLogger(insp).IntGrid("grid", 3, 2, []int{0, -1, 2, 3, -2, 5})
	want := "0 -1 2\n3 -2 5\n"
	if string(insp.got["grid"]) != want {
		t.Errorf("grid = %q, want %q", insp.got["grid"], want)
	}
}

func TestBinaryImagePNG(t *testing.T) {
	insp := newRecordingInspector("bin")
	NewLogger(insp).BinaryImage("bin", 2, 2, []uint8{1, 0, 0, 1})
	data := insp.got["bin"]
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected PNG magic, got % x", data[:min(len(data), 4)])
	}
	if insp.mimes["bin"] != "image/png" {
		t.Errorf("mime = %q", insp.mimes["bin"])
	}
}

func TestSVGPlot(t *testing.T) {
	insp := newRecordingInspector("plot")
	pts := []MinutiaPoint{
		{X: 10, Y: 20, Degrees: 0, Type: "ridge_ending", Reliability: 0.9},
		{X: 30, Y: 40, Degrees: 90, Type: "bifurcation", Reliability: 0.5},
	}
	NewLogger(insp).SVG("plot", 100, 100, pts)
	body := string(insp.got["plot"])
	if !strings.Contains(body, "<svg") {
		t.Fatalf("not an svg: %q", body)
	}
	if !strings.Contains(body, "stroke:red") || !strings.Contains(body, "stroke:blue") {
		t.Errorf("expected both minutia type colors in %q", body)
	}
}
