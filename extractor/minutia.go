package extractor

import (
	"fmt"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// MinutiaType classifies a detected feature point.
type MinutiaType int

const (
	RidgeEnding MinutiaType = iota
	Bifurcation
)

func (t MinutiaType) String() string {
	switch t {
	case RidgeEnding:
		return "ending"
	case Bifurcation:
		return "bifurcation"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ScanDirection tells which raster sweep produced a candidate.
type ScanDirection int

const (
	ScanHorizontal ScanDirection = iota
	ScanVertical
)

// Detection-time reliability grades. ScoreMinutiae replaces these with
// quality-map based values at the end of the pipeline.
const (
	HighReliability   = 0.99
	MediumReliability = 0.50
)

// Minutia is a feature point on the binarized ridge structure. (X, Y) is
// the feature pixel, (EX, EY) the adjacent edge pixel on the opposite
// level. Direction points away from the ridge in full-circle units.
type Minutia struct {
	X, Y        int
	EX, EY      int
	Direction   int
	Type        MinutiaType
	Appearing   bool
	Reliability float64
	Neighbors   []int
	RidgeCounts []int
}

// List keeps minutiae ordered by (Y, X) so duplicate lookups can window
// on the y coordinate.
type List struct {
	items []*Minutia
}

func (l *List) Len() int          { return len(l.items) }
func (l *List) At(i int) *Minutia { return l.items[i] }
func (l *List) Items() []*Minutia { return l.items }
func (l *List) RemoveAt(i int)    { l.items = append(l.items[:i], l.items[i+1:]...) }

// Remove drops the given minutia from the list if present.
func (l *List) Remove(m *Minutia) {
	for i, it := range l.items {
		if it == m {
			l.RemoveAt(i)
			return
		}
	}
}

func (l *List) insertSorted(m *Minutia) {
	lo, hi := 0, len(l.items)
	for lo < hi {
		mid := (lo + hi) / 2
		it := l.items[mid]
		if it.Y < m.Y || (it.Y == m.Y && it.X < m.X) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	l.items = append(l.items, nil)
	copy(l.items[lo+1:], l.items[lo:])
	l.items[lo] = m
}

// match looks for an already stored minutia that m duplicates. It returns
// the index of the match and whether the coordinates are identical, or
// (-1, false) when m is genuinely new.
func (l *List) match(bm *Bitmap, m *Minutia) (int, bool) {
	p := config.Get()
	delta := int(p.MaxMinutiaDelta)
	halfCircle := p.NumDirections
	for i := range l.items {
		it := l.items[i]
		if it.Y < m.Y-delta {
			continue
		}
		if it.Y > m.Y+delta {
			break
		}
		if it.X == m.X && it.Y == m.Y {
			return i, true
		}
		if it.X < m.X-delta || it.X > m.X+delta {
			continue
		}
		if it.Type != m.Type {
			continue
		}
		if primitives.UnitDistance(it.Direction, m.Direction, halfCircle) > halfCircle/4 {
			continue
		}
		if sharedContour(bm, it, m, delta+1) {
			return i, false
		}
	}
	return -1, false
}

// sharedContour reports whether b's feature pixel lies on the boundary
// walked from a's pose, in either direction.
func sharedContour(bm *Bitmap, a, b *Minutia, maxSteps int) bool {
	if bm.At(a.X, a.Y) != bm.At(b.X, b.Y) {
		return false
	}
	cw, _ := TraceContour(bm, maxSteps, a.X, a.Y, a.EX, a.EY, true)
	if cw.Contains(b.X, b.Y) {
		return true
	}
	ccw, _ := TraceContour(bm, maxSteps, a.X, a.Y, a.EX, a.EY, false)
	return ccw.Contains(b.X, b.Y)
}

// Add stores m unless it duplicates an existing minutia, in which case
// the existing one is kept. It reports whether m was stored.
func (l *List) Add(bm *Bitmap, m *Minutia) bool {
	if idx, _ := l.match(bm, m); idx >= 0 {
		return false
	}
	l.insertSorted(m)
	return true
}

// AddScanned stores a candidate produced by a raster sweep. An exact
// coordinate duplicate is always ignored. A near duplicate is replaced
// only when the sweep that produced m is the one preferred for the local
// ridge orientation, so each feature is kept from the scan that crosses
// its ridge most squarely.
func (l *List) AddScanned(bm *Bitmap, m *Minutia, scan ScanDirection, dmapval int) bool {
	idx, exact := l.match(bm, m)
	if exact {
		return false
	}
	if idx >= 0 {
		if scan != preferredScan(dmapval) {
			return false
		}
		l.RemoveAt(idx)
	}
	l.insertSorted(m)
	return true
}

// preferredScan picks the sweep orientation that intersects ridges of the
// given block orientation closest to perpendicular.
func preferredScan(dmapval int) ScanDirection {
	n := config.Get().NumDirections
	if dmapval <= n/4 || dmapval > 3*n/4 {
		return ScanHorizontal
	}
	return ScanVertical
}
