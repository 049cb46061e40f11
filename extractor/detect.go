package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
)

// featurePattern describes a minutia signature on two adjacent scan lanes.
// Each pair holds the (lane1, lane2) pixel levels, lane1 being the upper
// row on horizontal sweeps and the left column on vertical ones. The middle
// pair may repeat; the bounding pairs occur exactly once. Appearing means
// the feature lives on lane2. Junction patterns carry the feature level on
// both lanes of the middle pair and anchor the minutia at the start of the
// run instead of its midpoint.
type featurePattern struct {
	first, middle, last [2]uint8
	typ                 MinutiaType
	appearing           bool
	junction            bool
}

var featurePatterns = []featurePattern{
	{first: [2]uint8{0, 0}, middle: [2]uint8{0, 1}, last: [2]uint8{0, 0}, typ: RidgeEnding, appearing: true},
	{first: [2]uint8{0, 0}, middle: [2]uint8{1, 0}, last: [2]uint8{0, 0}, typ: RidgeEnding},
	{first: [2]uint8{1, 1}, middle: [2]uint8{0, 1}, last: [2]uint8{1, 1}, typ: Bifurcation},
	{first: [2]uint8{1, 1}, middle: [2]uint8{1, 0}, last: [2]uint8{1, 1}, typ: Bifurcation, appearing: true},
	{first: [2]uint8{1, 0}, middle: [2]uint8{0, 1}, last: [2]uint8{1, 1}, typ: Bifurcation},
	{first: [2]uint8{1, 1}, middle: [2]uint8{0, 1}, last: [2]uint8{1, 0}, typ: Bifurcation},
	{first: [2]uint8{0, 1}, middle: [2]uint8{1, 0}, last: [2]uint8{1, 1}, typ: Bifurcation, appearing: true},
	{first: [2]uint8{1, 1}, middle: [2]uint8{1, 0}, last: [2]uint8{0, 1}, typ: Bifurcation, appearing: true},
	{first: [2]uint8{0, 1}, middle: [2]uint8{1, 1}, last: [2]uint8{0, 1}, typ: Bifurcation, junction: true},
	{first: [2]uint8{1, 0}, middle: [2]uint8{1, 1}, last: [2]uint8{1, 0}, typ: Bifurcation, appearing: true, junction: true},
}

// DetectMinutiae sweeps the binarized image with horizontal then vertical
// lane pairs and collects candidate minutiae into a deduplicated list.
// Candidates in blocks without a valid ridge direction are dropped, and
// candidates in high curvature blocks are relocated along their contour
// before being kept.
func DetectMinutiae(bm *Bitmap, maps *Maps) *List {
	list := &List{}
	scanPairs(bm, maps, list, ScanHorizontal)
	scanPairs(bm, maps, list, ScanVertical)
	return list
}

func scanPairs(bm *Bitmap, maps *Maps, list *List, scan ScanDirection) {
	lanes, length := bm.Height-1, bm.Width
	if scan == ScanVertical {
		lanes, length = bm.Width-1, bm.Height
	}
	pairAt := func(lane, pos int) [2]uint8 {
		if scan == ScanHorizontal {
			return [2]uint8{bm.At(pos, lane), bm.At(pos, lane+1)}
		}
		return [2]uint8{bm.At(lane, pos), bm.At(lane+1, pos)}
	}
	for lane := 0; lane < lanes; lane++ {
		i := 0
		for i < length-1 {
			p1 := pairAt(lane, i)
			run := i + 1
			p2 := pairAt(lane, run)
			if p2 == p1 {
				i++
				continue
			}
			end := run
			for end+1 < length && pairAt(lane, end+1) == p2 {
				end++
			}
			if end+1 >= length {
				break
			}
			p3 := pairAt(lane, end+1)
			for _, fp := range featurePatterns {
				if fp.first == p1 && fp.middle == p2 && fp.last == p3 {
					emitCandidate(bm, maps, list, scan, lane, run, end, fp)
					break
				}
			}
			i = end
		}
	}
}

// emitCandidate converts a matched pattern run into image coordinates. The
// minutia sits at the midpoint of the run on the feature lane with its edge
// pixel across the lane pair, except for junction patterns which sit at the
// start of the run with the preceding same-lane pixel as their edge.
func emitCandidate(bm *Bitmap, maps *Maps, list *List, scan ScanDirection, lane, runStart, runEnd int, fp featurePattern) {
	featureLane, edgeLane := lane, lane+1
	if fp.appearing {
		featureLane, edgeLane = lane+1, lane
	}
	pos, edgePos := (runStart+runEnd)/2, 0
	if fp.junction {
		if !junctionStem(bm, scan, featureLane, runStart, fp.appearing) {
			return
		}
		pos, edgePos = runStart, runStart-1
		edgeLane = featureLane
	} else {
		edgePos = pos
	}
	var x, y, ex, ey int
	if scan == ScanHorizontal {
		x, y = pos, featureLane
		ex, ey = edgePos, edgeLane
	} else {
		x, y = featureLane, pos
		ex, ey = edgeLane, edgePos
	}
	handleCandidate(bm, maps, list, scan, x, y, ex, ey, fp)
}

// junctionStem verifies that the ridge joining a junction signature keeps
// going away from the through lane. A tapering feature end produces the
// same lane signature as a junction but has nothing behind the corner
// pixels.
func junctionStem(bm *Bitmap, scan ScanDirection, featureLane, pos int, appearing bool) bool {
	step := -1
	if appearing {
		step = 1
	}
	for d := 1; d <= 2; d++ {
		lane := featureLane + d*step
		var v uint8
		if scan == ScanHorizontal {
			v = bm.At(pos, lane)
		} else {
			v = bm.At(lane, pos)
		}
		if v == 0 {
			return false
		}
	}
	return true
}

func handleCandidate(bm *Bitmap, maps *Maps, list *List, scan ScanDirection, x, y, ex, ey int, fp featurePattern) {
	p := config.Get()
	dmapval := maps.Direction.At(x/p.BlockSize, y/p.BlockSize)
	switch {
	case dmapval == DirInvalid:
		return
	case dmapval < 0:
		nx, ny, nex, ney, dir, ok, loop := adjustHighCurvature(bm, list, x, y, ex, ey)
		if loop {
			return
		}
		if !ok {
			if fp.typ != Bifurcation {
				return
			}
			// Junction corners have no single contour tip to relocate
			// to: the chord midpoint falls in the valley quadrant of
			// the corner. Keep the scanned pose instead.
			nx, ny, nex, ney = x, y, ex, ey
			dir = primitives.DegreesToUnit(primitives.VectorToDegrees(float64(ex-x), float64(ey-y)), p.NumDirections)
		}
		m := &Minutia{
			X: nx, Y: ny, EX: nex, EY: ney,
			Direction:   dir,
			Type:        fp.typ,
			Appearing:   fp.appearing,
			Reliability: MediumReliability,
		}
		list.AddScanned(bm, m, scan, dmapval)
	default:
		m := &Minutia{
			X: x, Y: y, EX: ex, EY: ey,
			Direction:   lowCurvatureDirection(scan, fp.appearing, dmapval, p.NumDirections),
			Type:        fp.typ,
			Appearing:   fp.appearing,
			Reliability: HighReliability,
		}
		list.AddScanned(bm, m, scan, dmapval)
	}
}

// lowCurvatureDirection turns a block orientation into a full-circle minutia
// direction pointing away from the ridge. Which half of the circle to pick
// follows from the sweep axis and the lane the feature appeared on.
func lowCurvatureDirection(scan ScanDirection, appearing bool, d, n int) int {
	if scan == ScanVertical {
		if appearing {
			return d + n
		}
		return d
	}
	if appearing == (d < n/2) {
		return d
	}
	return d + n
}

// adjustHighCurvature relocates a candidate in a high curvature block to the
// sharpest turn of its centered contour and recomputes its direction from
// the chord midpoint towards that tip. Candidates whose contour closes into
// a loop are handed to the loop processor and flagged as such; candidates
// whose contour is too short or whose chord midpoint falls off the feature
// report not-ok and keep no relocation.
func adjustHighCurvature(bm *Bitmap, list *List, x, y, ex, ey int) (nx, ny, nex, ney, dir int, ok, loop bool) {
	p := config.Get()
	c, isLoop := TraceCentered(bm, p.HalfContour, x, y, ex, ey)
	if isLoop {
		ProcessLoop(bm, list, c)
		return 0, 0, 0, 0, 0, false, true
	}
	w := p.AngleWindow
	if c.N < 2*w+1 {
		return 0, 0, 0, 0, 0, false, false
	}
	tip, tipTheta := -1, 0.0
	for i := w; i < c.N-w; i++ {
		ta := primitives.VectorToDegrees(float64(c.X[i-w]-c.X[i]), float64(c.Y[i-w]-c.Y[i]))
		tb := primitives.VectorToDegrees(float64(c.X[i+w]-c.X[i]), float64(c.Y[i+w]-c.Y[i]))
		theta := primitives.DegreeDistance(ta, tb)
		if tip < 0 || theta < tipTheta {
			tip, tipTheta = i, theta
		}
	}
	mx := int(math.Round(float64(c.X[tip-w]+c.X[tip+w]) / 2))
	my := int(math.Round(float64(c.Y[tip-w]+c.Y[tip+w]) / 2))
	if bm.At(mx, my) != bm.At(c.X[tip], c.Y[tip]) {
		return 0, 0, 0, 0, 0, false, false
	}
	deg := primitives.VectorToDegrees(float64(c.X[tip]-mx), float64(c.Y[tip]-my))
	dir = primitives.DegreesToUnit(deg, p.NumDirections)
	return c.X[tip], c.Y[tip], c.EX[tip], c.EY[tip], dir, true, false
}
