package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// dftWaveCount is the number of harmonics projected onto each window. Waves
// 1..4 over a 24 pixel window cover ridge periods from 6 to 24 pixels, the
// plausible spacing range at the reference resolution.
const dftWaveCount = 4

// dftGrids holds per-direction sampling offsets for the windowed wave
// analysis. For candidate direction d the rows run along the hypothetical
// ridge orientation and stack across it, so the row sums oscillate with the
// ridge frequency exactly when d matches the true flow.
type dftGrids struct {
	size  int
	ndirs int
	xs    [][]int // [direction][row*size+col] offsets from the window origin
	ys    [][]int
}

func newDFTGrids(size, ndirs int) *dftGrids {
	g := &dftGrids{
		size:  size,
		ndirs: ndirs,
		xs:    make([][]int, ndirs),
		ys:    make([][]int, ndirs),
	}
	half := float64(size) / 2
	for d := 0; d < ndirs; d++ {
		theta := float64(d) * math.Pi / float64(ndirs)
		ux, uy := math.Sin(theta), -math.Cos(theta) // along the ridge
		vx, vy := math.Cos(theta), math.Sin(theta)  // across it
		xs := make([]int, size*size)
		ys := make([]int, size*size)
		for r := 0; r < size; r++ {
			fr := float64(r) - half
			for c := 0; c < size; c++ {
				fc := float64(c) - half
				xs[r*size+c] = int(math.Round(half + fc*ux + fr*vx))
				ys[r*size+c] = int(math.Round(half + fc*uy + fr*vy))
			}
		}
		g.xs[d] = xs
		g.ys[d] = ys
	}
	return g
}

// dftWaves caches the sine and cosine tables of the projected harmonics.
type dftWaves struct {
	n        int
	sin, cos [][]float64
}

func newDFTWaves(size, nwaves int) *dftWaves {
	w := &dftWaves{n: nwaves, sin: make([][]float64, nwaves), cos: make([][]float64, nwaves)}
	for wi := 0; wi < nwaves; wi++ {
		s := make([]float64, size)
		c := make([]float64, size)
		freq := 2 * math.Pi * float64(wi+1) / float64(size)
		for r := 0; r < size; r++ {
			s[r] = math.Sin(freq * float64(r))
			c[r] = math.Cos(freq * float64(r))
		}
		w.sin[wi] = s
		w.cos[wi] = c
	}
	return w
}

// dftPowers fills powers[d] with the summed AC wave energy of the window
// rooted at (wx, wy). Samples falling outside the raster are clamped to the
// nearest edge pixel. Row sums are normalized to [0, size] and mean-removed
// before projection so the result is independent of overall brightness.
func dftPowers(gray []uint8, w, h, wx, wy int, grids *dftGrids, waves *dftWaves, rowsums, powers []float64) {
	size := grids.size
	for d := 0; d < grids.ndirs; d++ {
		xs, ys := grids.xs[d], grids.ys[d]
		var mean float64
		for r := 0; r < size; r++ {
			var sum float64
			base := r * size
			for c := 0; c < size; c++ {
				x := primitives.Clamp(wx+xs[base+c], 0, w-1)
				y := primitives.Clamp(wy+ys[base+c], 0, h-1)
				sum += float64(gray[y*w+x])
			}
			rowsums[r] = sum / 255.0
			mean += rowsums[r]
		}
		mean /= float64(size)
		for r := 0; r < size; r++ {
			rowsums[r] -= mean
		}
		var power float64
		for wi := 0; wi < waves.n; wi++ {
			var s, c float64
			for r := 0; r < size; r++ {
				s += rowsums[r] * waves.sin[wi][r]
				c += rowsums[r] * waves.cos[wi][r]
			}
			power += s*s + c*c
		}
		powers[d] = power
	}
}

// pickDirection chooses the dominant flow direction from the per-direction
// energies. It returns DirInvalid when no direction carries enough energy or
// none dominates the field, and flags directions whose dominance is real but
// weak as low-flow.
func pickDirection(powers []float64, p *config.Parameters) (dir int, lowFlow bool) {
	best, bestPow, total := -1, 0.0, 0.0
	for d, pw := range powers {
		total += pw
		if pw > bestPow {
			best, bestPow = d, pw
		}
	}
	if best < 0 || bestPow < p.DirPowerMin {
		return DirInvalid, false
	}
	mean := total / float64(len(powers))
	if mean <= 0 {
		return DirInvalid, false
	}
	dominance := bestPow / mean
	if dominance < p.DirDominanceMin {
		return DirInvalid, false
	}
	return best, dominance < p.FlowDominanceMin
}
