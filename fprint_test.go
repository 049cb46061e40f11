package fprint

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/iafilatov/libfprint-sub001/templates"
)

func grayStripes(w, h, half int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/half)%2 == 1 {
				g.Pix[y*g.Stride+x] = 255
			}
		}
	}
	return g
}

func TestNewFromGrayCopiesSubimage(t *testing.T) {
	big := grayStripes(32, 32, 4)
	sub := big.SubImage(image.Rect(8, 8, 24, 24)).(*image.Gray)
	img, err := NewFromGray(sub)
	if err != nil {
		t.Fatalf("NewFromGray() error = %v", err)
	}
	if img.Width != 16 || img.Height != 16 {
		t.Fatalf("image size = %dx%d, want 16x16", img.Width, img.Height)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := big.Pix[(y+8)*big.Stride+x+8]
			if got := img.Pixels[y*16+x]; got != want {
				t.Fatalf("pixel (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestNewFromGrayRejectsEmpty(t *testing.T) {
	if _, err := NewFromGray(image.NewGray(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("NewFromGray(empty) error = %v, want %v", err, ErrEmptyImage)
	}
}

func TestNewFromImageRejectsDeepRaster(t *testing.T) {
	deep := image.NewGray16(image.Rect(0, 0, 8, 8))
	if _, err := NewFromImage(deep); !errors.Is(err, ErrPixelDepth) {
		t.Errorf("NewFromImage(Gray16) error = %v, want %v", err, ErrPixelDepth)
	}
}

func TestDecodeImagePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, grayStripes(24, 16, 4)); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	if img.Width != 24 || img.Height != 16 {
		t.Errorf("decoded size = %dx%d, want 24x16", img.Width, img.Height)
	}
	if img.PixPerMM != DefaultPixPerMM {
		t.Errorf("decoded resolution = %v, want the default %v", img.PixPerMM, DefaultPixPerMM)
	}
}

func TestDecodeImageGarbage(t *testing.T) {
	if _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Error("DecodeImage() accepted garbage bytes")
	}
}

func TestNormalize(t *testing.T) {
	t.Run("resamples off-target resolution", func(t *testing.T) {
		img, err := NewFromGray(grayStripes(40, 40, 4))
		if err != nil {
			t.Fatal(err)
		}
		img.PixPerMM = DefaultPixPerMM / 2
		out := Normalize(img, DefaultPixPerMM)
		if out.Width != 80 || out.Height != 80 {
			t.Errorf("normalized size = %dx%d, want 80x80", out.Width, out.Height)
		}
		if out.PixPerMM != DefaultPixPerMM {
			t.Errorf("normalized resolution = %v, want %v", out.PixPerMM, DefaultPixPerMM)
		}
	})
	t.Run("keeps near-target images", func(t *testing.T) {
		img, err := NewFromGray(grayStripes(40, 40, 4))
		if err != nil {
			t.Fatal(err)
		}
		if out := Normalize(img, DefaultPixPerMM); out != img {
			t.Error("image at the target resolution was resampled")
		}
	})
}

func TestTemplateCreatorRejectsEmptyImage(t *testing.T) {
	tc := NewTemplateCreator(nil)
	if _, err := tc.Template(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Template(nil) error = %v, want %v", err, ErrEmptyImage)
	}
	if _, err := tc.Template(&Image{Width: 8, Height: 8}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Template(no pixels) error = %v, want %v", err, ErrEmptyImage)
	}
}

func TestTemplateCreatorOnSyntheticImage(t *testing.T) {
	img, err := NewFromGray(grayStripes(64, 64, 4))
	if err != nil {
		t.Fatal(err)
	}
	res, tpl, err := NewTemplateCreator(nil).Extract(img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if tpl.Width != 64 || tpl.Height != 64 {
		t.Errorf("template size = %dx%d, want 64x64", tpl.Width, tpl.Height)
	}
	if tpl.Version != templates.Version {
		t.Errorf("template version = %d, want %d", tpl.Version, templates.Version)
	}
	if len(tpl.Minutiae) != res.Minutiae.Len() {
		t.Errorf("template carries %d minutiae, extraction found %d", len(tpl.Minutiae), res.Minutiae.Len())
	}
	if res.Binarized.Width != 64 || res.Binarized.Height != 64 {
		t.Errorf("binarized size = %dx%d, want the source size", res.Binarized.Width, res.Binarized.Height)
	}
}

func testConstellation() *templates.Template {
	pts := [][3]int{
		{30, 40, 2}, {55, 35, 5}, {80, 50, 9}, {100, 30, 14},
		{45, 70, 22}, {70, 85, 18}, {95, 75, 30}, {60, 110, 12},
	}
	tpl := &templates.Template{
		Version:       templates.Version,
		Width:         160,
		Height:        160,
		PixPerMM:      DefaultPixPerMM,
		NumDirections: 16,
	}
	for _, p := range pts {
		tpl.Minutiae = append(tpl.Minutiae, templates.Minutia{
			X: p[0], Y: p[1], Direction: p[2], Reliability: 0.9,
		})
	}
	return tpl
}

func TestIdentifyScoresEveryCandidate(t *testing.T) {
	probe := testConstellation()
	empty := &templates.Template{
		Version: templates.Version, Width: 160, Height: 160,
		PixPerMM: DefaultPixPerMM, NumDirections: 16,
	}
	scores, err := Identify(context.Background(), nil, probe, []*templates.Template{probe, empty, probe})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("score count = %d, want 3", len(scores))
	}
	if scores[0] == 0 {
		t.Error("self candidate scored 0")
	}
	if scores[1] != 0 {
		t.Errorf("empty candidate scored %d, want 0", scores[1])
	}
	if scores[2] != scores[0] {
		t.Errorf("identical candidates scored %d and %d", scores[0], scores[2])
	}
}

func TestIdentifyCancelledContext(t *testing.T) {
	probe := testConstellation()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Identify(ctx, nil, probe, []*templates.Template{probe}); err == nil {
		t.Error("Identify() ignored a cancelled context")
	}
}
