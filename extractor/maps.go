package extractor

import (
	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// Maps bundles the per-block classification planes. Direction, LowContrast,
// LowFlow and HighCurve are produced before binarization; Quality is merged
// in by the scorer after detection.
type Maps struct {
	BlocksX, BlocksY int
	Direction        *IntMap
	LowContrast      *IntMap
	LowFlow          *IntMap
	HighCurve        *IntMap
	Quality          *IntMap
}

// ring of the 8 neighbours in clockwise order starting at north.
var (
	nbrDX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	nbrDY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
)

// BuildMaps classifies every block of the raster: measures ridge flow per
// block, interpolates blocks that could not be measured, and flags low
// contrast, weak flow and sharp curvature.
func BuildMaps(gray []uint8, w, h int, p *config.Parameters) (*Maps, error) {
	if len(gray) != w*h {
		return nil, ErrImageDimensions
	}
	if w < p.BlockSize || h < p.BlockSize {
		return nil, ErrImageTooSmall
	}
	bw := (w + p.BlockSize - 1) / p.BlockSize
	bh := (h + p.BlockSize - 1) / p.BlockSize
	m := &Maps{
		BlocksX:     bw,
		BlocksY:     bh,
		Direction:   NewIntMap(bw, bh),
		LowContrast: NewIntMap(bw, bh),
		LowFlow:     NewIntMap(bw, bh),
		HighCurve:   NewIntMap(bw, bh),
	}
	grids := newDFTGrids(p.WindowSize, p.NumDirections)
	waves := newDFTWaves(p.WindowSize, dftWaveCount)
	rowsums := make([]float64, p.WindowSize)
	powers := make([]float64, p.NumDirections)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			if lowContrastBlock(gray, w, h, bx, by, p) {
				m.LowContrast.Set(bx, by, 1)
				m.Direction.Set(bx, by, DirInvalid)
				continue
			}
			wx := bx*p.BlockSize - p.WindowOffset
			wy := by*p.BlockSize - p.WindowOffset
			dftPowers(gray, w, h, wx, wy, grids, waves, rowsums, powers)
			dir, weak := pickDirection(powers, p)
			m.Direction.Set(bx, by, dir)
			if dir >= 0 && weak {
				m.LowFlow.Set(bx, by, 1)
			}
		}
	}
	interpolateDirections(m, p)
	markHighCurvature(m, p)
	return m, nil
}

// lowContrastBlock measures the percentile-trimmed grey range of one block.
// Trimming clips pepper noise so a handful of stray pixels cannot promote a
// background block.
func lowContrastBlock(gray []uint8, w, h, bx, by int, p *config.Parameters) bool {
	var hist [256]int
	x0, y0 := bx*p.BlockSize, by*p.BlockSize
	x1, y1 := min(x0+p.BlockSize, w), min(y0+p.BlockSize, h)
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[gray[y*w+x]]++
			n++
		}
	}
	if n == 0 {
		return true
	}
	trim := n * p.ContrastTrimPct / 100
	lo, acc := 0, 0
	for v := 0; v < 256; v++ {
		acc += hist[v]
		if acc > trim {
			lo = v
			break
		}
	}
	hi, acc2 := 255, 0
	for v := 255; v >= 0; v-- {
		acc2 += hist[v]
		if acc2 > trim {
			hi = v
			break
		}
	}
	return hi-lo < p.MinContrastDelta
}

// interpolateDirections revisits blocks without a measured direction,
// skipping low-contrast ones, which stay invalid. Enough agreeing valid
// neighbours yield an averaged direction; wildly disagreeing neighbours mark
// the block as unresolvable curvature; too few leave it bare.
func interpolateDirections(m *Maps, p *config.Parameters) {
	out := make([]int, len(m.Direction.Cells))
	copy(out, m.Direction.Cells)
	nbrs := make([]int, 0, 8)
	for by := 0; by < m.BlocksY; by++ {
		for bx := 0; bx < m.BlocksX; bx++ {
			if m.Direction.At(bx, by) != DirInvalid || m.LowContrast.At(bx, by) == 1 {
				continue
			}
			nbrs = nbrs[:0]
			for i := range nbrDX {
				nx, ny := bx+nbrDX[i], by+nbrDY[i]
				if m.Direction.InRange(nx, ny) && m.Direction.At(nx, ny) >= 0 {
					nbrs = append(nbrs, m.Direction.At(nx, ny))
				}
			}
			idx := by*m.BlocksX + bx
			if len(nbrs) < p.MinInterpolateNbrs {
				out[idx] = DirNoValidNbrs
				continue
			}
			spread := 0
			for i := 0; i < len(nbrs); i++ {
				for j := i + 1; j < len(nbrs); j++ {
					spread = max(spread, primitives.OrientationDistance(nbrs[i], nbrs[j], p.NumDirections))
				}
			}
			if spread >= p.HighCurvatureDelta {
				out[idx] = DirHighCurvature
				continue
			}
			avg := primitives.AverageOrientation(nbrs, p.NumDirections)
			if avg < 0 {
				out[idx] = DirHighCurvature
				continue
			}
			out[idx] = avg
		}
	}
	m.Direction.Cells = out
}

// markHighCurvature flags blocks whose measured direction disagrees sharply
// with a neighbour, or whose neighbourhood directions curl around the block
// (vorticity), plus blocks the interpolation already gave up on.
func markHighCurvature(m *Maps, p *config.Parameters) {
	n := p.NumDirections
	for by := 0; by < m.BlocksY; by++ {
		for bx := 0; bx < m.BlocksX; bx++ {
			d := m.Direction.At(bx, by)
			if d == DirHighCurvature {
				m.HighCurve.Set(bx, by, 1)
				continue
			}
			if d < 0 {
				continue
			}
			valid, maxDelta, cum := 0, 0, 0
			prev, first := -1, -1
			for i := range nbrDX {
				nx, ny := bx+nbrDX[i], by+nbrDY[i]
				if !m.Direction.InRange(nx, ny) {
					continue
				}
				nd := m.Direction.At(nx, ny)
				if nd < 0 {
					continue
				}
				valid++
				maxDelta = max(maxDelta, primitives.OrientationDistance(d, nd, n))
				if prev >= 0 {
					cum += primitives.OrientationDelta(prev, nd, n)
				} else {
					first = nd
				}
				prev = nd
			}
			if prev >= 0 && first >= 0 {
				cum += primitives.OrientationDelta(prev, first, n)
			}
			if valid >= p.MinInterpolateNbrs && (primitives.Abs(cum) >= p.VorticityMin || maxDelta >= p.HighCurvatureDelta) {
				m.HighCurve.Set(bx, by, 1)
			}
		}
	}
}
