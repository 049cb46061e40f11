package fprint

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/jtejido/go-wsq"
	"github.com/nfnt/resize"
	_ "github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"

	"github.com/iafilatov/libfprint-sub001/config"
)

// DefaultPixPerMM is the assumed scanner resolution (500 DPI) when the
// image container does not carry one.
const DefaultPixPerMM = 19.685

var (
	ErrEmptyImage = errors.New("fprint: empty image")
	ErrPixelDepth = errors.New("fprint: unsupported pixel depth, 8-bit grayscale required")
)

// Image is an 8-bit grayscale raster ready for extraction. Pixels are
// stored row major, top-left origin.
type Image struct {
	Width, Height int
	PixPerMM      float64
	Pixels        []uint8
}

// NewFromGray wraps a stdlib grayscale image at the default resolution.
func NewFromGray(g *image.Gray) (*Image, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}
	img := &Image{Width: w, Height: h, PixPerMM: DefaultPixPerMM, Pixels: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		copy(img.Pixels[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
	}
	return img, nil
}

// NewFromImage converts any decoded image to the grayscale raster.
// Deep rasters are refused rather than silently truncated.
func NewFromImage(src image.Image) (*Image, error) {
	if _, ok := src.(*image.Gray16); ok {
		return nil, ErrPixelDepth
	}
	if g, ok := src.(*image.Gray); ok {
		return NewFromGray(g)
	}
	b := src.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return NewFromGray(gray)
}

// DecodeImage decodes an encoded fingerprint image. PNG, JPEG, BMP, the
// netpbm family and WSQ are recognized.
func DecodeImage(data []byte) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return NewFromImage(src)
}

// LoadImage reads and decodes a fingerprint image file.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return DecodeImage(data)
}

// Normalize resamples the image to the target resolution. Images already
// within half a percent of the target are returned unchanged.
func Normalize(img *Image, targetPixPerMM float64) *Image {
	if img.PixPerMM <= 0 || targetPixPerMM <= 0 {
		return img
	}
	scale := targetPixPerMM / img.PixPerMM
	if scale > 0.995 && scale < 1.005 {
		return img
	}
	src := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	copy(src.Pix, img.Pixels)
	w := max(1, int(float64(img.Width)*scale+0.5))
	h := max(1, int(float64(img.Height)*scale+0.5))
	dst := resize.Resize(uint(w), uint(h), src, resize.Bicubic)
	out, err := NewFromImage(dst)
	if err != nil {
		return img
	}
	out.PixPerMM = targetPixPerMM
	return out
}

func normalized(img *Image) *Image {
	p := config.Get()
	if !p.NormalizeResolution {
		return img
	}
	return Normalize(img, p.TargetPixPerMM)
}
