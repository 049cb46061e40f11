// Package extractor turns an 8-bit greyscale fingerprint raster into a
// minutiae list. The pipeline runs in fixed order over per-invocation
// buffers: block classification, binarization, pattern scanning, false
// feature removal, ridge linking, quality scoring and ridge counting. The
// binary raster is owned by the pipeline and mutated in place by the loop
// fill and link stages, so no stage may be reordered or run concurrently
// against the same image.
package extractor

import (
	"errors"
	"image"
)

// Direction map sentinels. Valid cells hold a block orientation index in
// [0, NumDirections).
const (
	DirInvalid       = -1
	DirHighCurvature = -2
	DirNoValidNbrs   = -3
)

var (
	// ErrImageDimensions reports a pixel buffer that does not match the
	// declared width and height.
	ErrImageDimensions = errors.New("extractor: pixel buffer does not match image dimensions")
	// ErrImageTooSmall rejects inputs smaller than a single block.
	ErrImageTooSmall = errors.New("extractor: image too small for block analysis")
	// ErrBinarizedDimensions reports a binarized raster that does not cover
	// the input image.
	ErrBinarizedDimensions = errors.New("extractor: binarized image dimensions mismatch")
)

// Bitmap is a two-level raster. Cells hold 1 for ridge (black) and 0 for
// valley (white).
type Bitmap struct {
	Width, Height int
	Bits          []uint8
}

// NewBitmap allocates an all-valley raster.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{Width: w, Height: h, Bits: make([]uint8, w*h)}
}

// InRange reports whether (x, y) addresses a raster cell.
func (b *Bitmap) InRange(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the cell value, treating out-of-range coordinates as valley.
func (b *Bitmap) At(x, y int) uint8 {
	if !b.InRange(x, y) {
		return 0
	}
	return b.Bits[y*b.Width+x]
}

// Set writes a cell. The coordinates must be in range.
func (b *Bitmap) Set(x, y int, v uint8) {
	b.Bits[y*b.Width+x] = v
}

// Gray renders the raster for export, ridge pixels 0 and valley pixels 255.
func (b *Bitmap) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Bits {
		if v == 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

// IntMap is a per-block integer plane laid out row-major.
type IntMap struct {
	Width, Height int
	Cells         []int
}

// NewIntMap allocates a zeroed plane.
func NewIntMap(w, h int) *IntMap {
	return &IntMap{Width: w, Height: h, Cells: make([]int, w*h)}
}

// InRange reports whether (x, y) addresses a cell.
func (m *IntMap) InRange(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the cell value. The coordinates must be in range.
func (m *IntMap) At(x, y int) int {
	return m.Cells[y*m.Width+x]
}

// Set writes a cell. The coordinates must be in range.
func (m *IntMap) Set(x, y, v int) {
	m.Cells[y*m.Width+x] = v
}
