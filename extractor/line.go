package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/primitives"
)

// LinePoints returns the pixel trajectory from (x1, y1) to (x2, y2)
// inclusive, stepping one pixel along the dominant axis.
func LinePoints(x1, y1, x2, y2 int) (xs, ys []int) {
	dx, dy := x2-x1, y2-y1
	steps := max(primitives.Abs(dx), primitives.Abs(dy))
	xs = make([]int, 0, steps+1)
	ys = make([]int, 0, steps+1)
	if steps == 0 {
		return append(xs, x1), append(ys, y1)
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		xs = append(xs, x1+int(math.Round(t*float64(dx))))
		ys = append(ys, y1+int(math.Round(t*float64(dy))))
	}
	return xs, ys
}

// FreePath reports whether the straight trajectory between two points
// crosses at most maxTrans pixel level transitions.
func FreePath(bm *Bitmap, x1, y1, x2, y2, maxTrans int) bool {
	xs, ys := LinePoints(x1, y1, x2, y2)
	trans := 0
	prev := bm.At(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		cur := bm.At(xs[i], ys[i])
		if cur != prev {
			trans++
			if trans > maxTrans {
				return false
			}
			prev = cur
		}
	}
	return true
}

// DrawJoinLine paints the trajectory between two points with the given
// level using a square brush of the given radius.
func DrawJoinLine(bm *Bitmap, x1, y1, x2, y2 int, level uint8, radius int) {
	xs, ys := LinePoints(x1, y1, x2, y2)
	for i := range xs {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if bm.InRange(xs[i]+dx, ys[i]+dy) {
					bm.Set(xs[i]+dx, ys[i]+dy, level)
				}
			}
		}
	}
}
