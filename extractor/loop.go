package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// OnLoop reports whether the minutia's contour closes into a loop within
// maxLen steps, which marks it as the tip of an island or lake rather than
// a broken ridge.
func OnLoop(bm *Bitmap, m *Minutia, maxLen int) bool {
	_, loop := TraceContour(bm, maxLen, m.X, m.Y, m.EX, m.EY, true)
	return loop
}

// loopAspect measures a closed contour across its antipodal point pairs and
// returns the squared lengths of the shortest and longest chords along with
// the index of the first point of each pair.
func loopAspect(c *Contour) (minIdx, minD2, maxIdx, maxD2 int) {
	half := c.N / 2
	minD2 = -1
	for i := 0; i < half; i++ {
		j := i + half
		d2 := primitives.SquaredDistance(c.X[i], c.Y[i], c.X[j], c.Y[j])
		if minD2 < 0 || d2 < minD2 {
			minIdx, minD2 = i, d2
		}
		if d2 > maxD2 {
			maxIdx, maxD2 = i, d2
		}
	}
	return minIdx, minD2, maxIdx, maxD2
}

// ProcessLoop decides what a closed contour is. A long, elongated loop is a
// genuine ridge or valley pond whose two far ends are kept as minutiae; any
// other loop is an island or lake artifact that gets erased. Either way,
// minutiae previously detected on or inside the loop are dropped first.
func ProcessLoop(bm *Bitmap, list *List, c *Contour) {
	p := config.Get()
	if c.N >= p.MinLoopLen {
		_, minD2, maxIdx, maxD2 := loopAspect(c)
		minAxis := p.MinLoopAspectDist * p.MinLoopAspectDist
		if float64(maxD2) >= minAxis && minD2 > 0 &&
			float64(maxD2)/float64(minD2) >= p.MinLoopAspectRatio {
			i, j := maxIdx, maxIdx+c.N/2
			mx := int(math.Round(float64(c.X[i]+c.X[j]) / 2))
			my := int(math.Round(float64(c.Y[i]+c.Y[j]) / 2))
			level := bm.At(c.X[0], c.Y[0])
			if bm.At(mx, my) == level {
				typ := Bifurcation
				if level == 1 {
					typ = RidgeEnding
				}
				removeCoveredMinutiae(list, ShapeFromContour(c))
				for _, tip := range []int{i, j} {
					deg := primitives.VectorToDegrees(float64(c.X[tip]-mx), float64(c.Y[tip]-my))
					list.Add(bm, &Minutia{
						X: c.X[tip], Y: c.Y[tip], EX: c.EX[tip], EY: c.EY[tip],
						Direction:   primitives.DegreesToUnit(deg, p.NumDirections),
						Type:        typ,
						Reliability: MediumReliability,
					})
				}
				return
			}
		}
	}
	shape := ShapeFromContour(c)
	FillLoop(bm, c, shape)
	removeCoveredMinutiae(list, shape)
}

// FillLoop paints the loop's row spans with the opposite level, erasing the
// island or lake the contour encloses. Span pixels outside the enclosed
// region already carry the fill level, so overwriting them changes nothing.
func FillLoop(bm *Bitmap, c *Contour, shape *Shape) {
	fill := 1 - bm.At(c.X[0], c.Y[0])
	for _, r := range shape.rows {
		for x := r.minX; x <= r.maxX; x++ {
			bm.Set(x, r.y, fill)
		}
	}
}

func removeCoveredMinutiae(list *List, shape *Shape) {
	for i := list.Len() - 1; i >= 0; i-- {
		m := list.At(i)
		if shape.Contains(m.X, m.Y) {
			list.RemoveAt(i)
		}
	}
}

// RemoveIslandsAndLakes retraces every minutia and hands the ones sitting
// on closed contours to the loop processor, which either erases the loop or
// replaces its minutiae with the pond's two tips. Iteration runs backwards
// so removals cannot skip entries; the index is clamped because processing
// a loop can drop several minutiae at once.
func RemoveIslandsAndLakes(bm *Bitmap, list *List) {
	maxLen := 2 * config.Get().MinLoopLen
	for i := list.Len() - 1; i >= 0; i-- {
		if i >= list.Len() {
			i = list.Len() - 1
			if i < 0 {
				break
			}
		}
		m := list.At(i)
		c, loop := TraceContour(bm, maxLen, m.X, m.Y, m.EX, m.EY, true)
		if loop {
			ProcessLoop(bm, list, c)
		}
	}
}
