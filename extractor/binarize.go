package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// binGrid holds the rotated sampling offsets of one binarizer window:
// DirBinGridW pixels along the ridge flow per row, DirBinGridH rows stacked
// across it, centered on the probed pixel.
type binGrid struct {
	gw, gh int
	dx, dy []int // flat r*gw+c offsets relative to the probed pixel
}

func newBinGrids(p *config.Parameters) []binGrid {
	grids := make([]binGrid, p.NumDirections)
	for d := 0; d < p.NumDirections; d++ {
		theta := float64(d) * math.Pi / float64(p.NumDirections)
		ux, uy := math.Sin(theta), -math.Cos(theta)
		vx, vy := math.Cos(theta), math.Sin(theta)
		g := binGrid{
			gw: p.DirBinGridW,
			gh: p.DirBinGridH,
			dx: make([]int, p.DirBinGridW*p.DirBinGridH),
			dy: make([]int, p.DirBinGridW*p.DirBinGridH),
		}
		for r := 0; r < g.gh; r++ {
			fr := float64(r - g.gh/2)
			for c := 0; c < g.gw; c++ {
				fc := float64(c - g.gw/2)
				g.dx[r*g.gw+c] = int(math.Round(fc*ux + fr*vx))
				g.dy[r*g.gw+c] = int(math.Round(fc*uy + fr*vy))
			}
		}
		grids[d] = g
	}
	return grids
}

// Binarize reduces the raster to ridge and valley levels. Each pixel is
// judged inside a window rotated to its block's flow direction; blocks
// without a valid direction fall back to the north-oriented window. The
// result always covers the input raster exactly.
func Binarize(gray []uint8, w, h int, maps *Maps, p *config.Parameters) *Bitmap {
	bm := NewBitmap(w, h)
	grids := newBinGrids(p)
	for y := 0; y < h; y++ {
		by := y / p.BlockSize
		for x := 0; x < w; x++ {
			dir := maps.Direction.At(x/p.BlockSize, by)
			if dir < 0 {
				dir = 0
			}
			if ridgePixel(gray, w, h, x, y, &grids[dir]) {
				bm.Bits[y*w+x] = 1
			}
		}
	}
	return bm
}

// ridgePixel compares the average of the window row running along the flow
// through the pixel against the whole window's average. Ridges are dark
// lines along the flow, so a center row strictly darker than its
// surroundings marks ridge. On perfectly flat areas the strict comparison
// fails and the pixel stays valley.
func ridgePixel(gray []uint8, w, h, px, py int, g *binGrid) bool {
	var total, center float64
	centerRow := g.gh / 2
	for r := 0; r < g.gh; r++ {
		var sum float64
		base := r * g.gw
		for c := 0; c < g.gw; c++ {
			x := primitives.Clamp(px+g.dx[base+c], 0, w-1)
			y := primitives.Clamp(py+g.dy[base+c], 0, h-1)
			sum += float64(gray[y*w+x])
		}
		total += sum
		if r == centerRow {
			center = sum
		}
	}
	rowAvg := center / float64(g.gw)
	gridAvg := total / float64(g.gw*g.gh)
	return rowAvg < gridAvg
}
