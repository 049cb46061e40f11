package extractor

import (
	"golang.org/x/exp/slices"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// CountRidges records, for every minutia, its nearest neighbours further
// down the list and the number of ridges crossed on the way to each. The
// list is ordered top to bottom, so every pair is counted exactly once.
func CountRidges(bm *Bitmap, list *List) {
	maxNbrs := config.Get().MaxNeighbors
	type candidate struct {
		idx, d2 int
	}
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		cands := make([]candidate, 0, list.Len()-i-1)
		for j := i + 1; j < list.Len(); j++ {
			o := list.At(j)
			cands = append(cands, candidate{j, primitives.SquaredDistance(m.X, m.Y, o.X, o.Y)})
		}
		slices.SortFunc(cands, func(a, b candidate) int {
			if a.d2 != b.d2 {
				return a.d2 - b.d2
			}
			return a.idx - b.idx
		})
		if len(cands) > maxNbrs {
			cands = cands[:maxNbrs]
		}
		m.Neighbors = make([]int, 0, len(cands))
		m.RidgeCounts = make([]int, 0, len(cands))
		for _, c := range cands {
			m.Neighbors = append(m.Neighbors, c.idx)
			m.RidgeCounts = append(m.RidgeCounts, ridgeCount(bm, m, list.At(c.idx)))
		}
	}
}

// ridgeCount walks the trajectory between two minutiae, endpoints
// excluded, and counts the ridges fully crossed on the way. A ridge counts
// once the walk has entered it from a valley and left it again, so the
// ridges the endpoints themselves sit on are never counted.
func ridgeCount(bm *Bitmap, a, b *Minutia) int {
	xs, ys := LinePoints(a.X, a.Y, b.X, b.Y)
	count := 0
	entered := false
	prev := uint8(1)
	for k := 1; k < len(xs)-1; k++ {
		v := bm.At(xs[k], ys[k])
		switch {
		case v == 1 && prev == 0:
			entered = true
		case v == 0 && prev == 1 && entered:
			count++
			entered = false
		}
		prev = v
	}
	return count
}
