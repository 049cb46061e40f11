package extractor

import (
	"math"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"golang.org/x/exp/slices"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// LinkMinutiae heals breaks in the binarized ridge structure. Opposing
// minutia pairs that pass the link admissibility tests are clustered,
// each cluster is resolved greedily along the local ridge flow, and every
// joined pair is painted over and dropped from the list. Minutiae sitting
// on small loops are pond tips, not break ends, and are left alone.
func LinkMinutiae(bm *Bitmap, maps *Maps, list *List) {
	p := config.Get()
	exempt := make(map[*Minutia]bool)
	for _, m := range list.Items() {
		if OnLoop(bm, m, p.SmallLoopLen) {
			exempt[m] = true
		}
	}
	visited := make(map[*Minutia]bool)
	items := append([]*Minutia(nil), list.Items()...)
	for _, m := range items {
		if visited[m] || exempt[m] {
			continue
		}
		cluster := gatherCluster(bm, maps, list, m, visited, exempt)
		if len(cluster) > 1 {
			resolveCluster(bm, maps, list, cluster)
		}
	}
}

// gatherCluster grows a cluster of mutually linkable minutiae breadth
// first, capped at the link table size.
func gatherCluster(bm *Bitmap, maps *Maps, list *List, seed *Minutia, visited, exempt map[*Minutia]bool) []*Minutia {
	limit := config.Get().LinkTableDim
	cluster := []*Minutia{seed}
	visited[seed] = true
	queue := linkedlistqueue.New()
	queue.Enqueue(seed)
	for !queue.Empty() && len(cluster) < limit {
		v, _ := queue.Dequeue()
		cur := v.(*Minutia)
		for _, other := range list.Items() {
			if visited[other] || exempt[other] {
				continue
			}
			if _, ok := linkScore(bm, maps, cur, other); !ok {
				continue
			}
			visited[other] = true
			cluster = append(cluster, other)
			queue.Enqueue(other)
			if len(cluster) >= limit {
				break
			}
		}
	}
	return cluster
}

// linkScore applies the admissibility chain to an ordered minutia pair and
// returns the link strength. Pairs fail when they differ in type, lie too
// far apart, do not point at each other, or have too cluttered a path
// between them. Stronger scores favour close, well opposed pairs.
func linkScore(bm *Bitmap, maps *Maps, a, b *Minutia) (int, bool) {
	p := config.Get()
	n := p.NumDirections
	if a.Type != b.Type {
		return 0, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	if primitives.Abs(dx) > p.MaxLinkDist || primitives.Abs(dy) > p.MaxLinkDist {
		return 0, false
	}
	tol := p.MinThetaDist
	if highCurveBlock(maps, a) || highCurveBlock(maps, b) {
		tol *= 2
	}
	jointTheta := primitives.UnitDistance(a.Direction, primitives.ReverseUnit(b.Direction, n), n)
	if jointTheta > tol {
		return 0, false
	}
	qtrTurn := primitives.UnitToDegrees(n/4, n)
	joinDeg := primitives.VectorToDegrees(float64(dx), float64(dy))
	if primitives.DegreeDistance(joinDeg, primitives.UnitToDegrees(a.Direction, n)) > qtrTurn {
		return 0, false
	}
	backDeg := primitives.VectorToDegrees(float64(-dx), float64(-dy))
	if primitives.DegreeDistance(backDeg, primitives.UnitToDegrees(b.Direction, n)) > qtrTurn {
		return 0, false
	}
	if !FreePath(bm, a.X, a.Y, b.X, b.Y, p.MaxTrans) {
		return 0, false
	}
	dist := math.Sqrt(float64(primitives.SquaredDistance(a.X, a.Y, b.X, b.Y)))
	distFactor := math.Exp(-p.ScoreDistWeight * dist / p.ScoreDistNorm)
	thetaFactor := 1.0
	if dist >= p.ScoreDistNorm/2 {
		thetaFactor = math.Exp(-primitives.UnitToDegrees(jointTheta, n) / p.ScoreThetaNorm)
	}
	return int(p.ScoreNumerator * distFactor * thetaFactor), true
}

func highCurveBlock(maps *Maps, m *Minutia) bool {
	blockSize := config.Get().BlockSize
	return maps.HighCurve.At(m.X/blockSize, m.Y/blockSize) != 0
}

// resolveCluster orders the cluster along its average direction and joins
// pairs line by line: each unjoined minutia takes its best scoring partner
// further along the sweep, the gap is painted over at the feature level,
// and both ends disappear from the list.
func resolveCluster(bm *Bitmap, maps *Maps, list *List, cluster []*Minutia) {
	p := config.Get()
	dirs := make([]int, len(cluster))
	for i, m := range cluster {
		dirs[i] = m.Direction
	}
	ux, uy := primitives.UnitVector(primitives.AverageUnit(dirs, p.NumDirections), p.NumDirections)
	proj := func(m *Minutia) float64 { return float64(m.X)*ux + float64(m.Y)*uy }
	slices.SortFunc(cluster, func(a, b *Minutia) int {
		pa, pb := proj(a), proj(b)
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return 0
	})
	joined := make(map[*Minutia]bool)
	for i, a := range cluster {
		if joined[a] {
			continue
		}
		var best *Minutia
		bestScore := 0
		for _, b := range cluster[i+1:] {
			if joined[b] {
				continue
			}
			if score, ok := linkScore(bm, maps, a, b); ok && score > bestScore {
				best, bestScore = b, score
			}
		}
		if best == nil {
			continue
		}
		DrawJoinLine(bm, a.X, a.Y, best.X, best.Y, bm.At(a.X, a.Y), p.JoinLineRadius)
		joined[a], joined[best] = true, true
		list.Remove(a)
		list.Remove(best)
	}
}
