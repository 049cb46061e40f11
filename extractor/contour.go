package extractor

// Contour is an ordered walk along a feature boundary. Point i sits on the
// feature at (X[i], Y[i]); (EX[i], EY[i]) is the adjacent off-feature pixel
// it was reached against. Index 0 is the starting pose.
type Contour struct {
	N            int
	X, Y, EX, EY []int
}

func newContour(capacity int) *Contour {
	return &Contour{
		X:  make([]int, 0, capacity),
		Y:  make([]int, 0, capacity),
		EX: make([]int, 0, capacity),
		EY: make([]int, 0, capacity),
	}
}

func (c *Contour) push(x, y, ex, ey int) {
	c.X = append(c.X, x)
	c.Y = append(c.Y, y)
	c.EX = append(c.EX, ex)
	c.EY = append(c.EY, ey)
	c.N++
}

// Contains reports whether (x, y) is one of the contour's feature pixels.
func (c *Contour) Contains(x, y int) bool {
	for i := 0; i < c.N; i++ {
		if c.X[i] == x && c.Y[i] == y {
			return true
		}
	}
	return false
}

func ringIndex(dx, dy int) int {
	for i := range nbrDX {
		if nbrDX[i] == dx && nbrDY[i] == dy {
			return i
		}
	}
	return 0
}

// nextContourPoint probes the 8 neighbours of the current point starting
// just past the incoming edge pixel, clockwise or counter-clockwise. The
// first feature-valued neighbour becomes the next point; the last probed
// non-feature pixel becomes its edge. Out-of-range pixels never count as
// feature, so walks hug the raster border instead of escaping it.
func nextContourPoint(bm *Bitmap, feature uint8, cx, cy, cex, cey int, clockwise bool) (nx, ny, nex, ney int, ok bool) {
	start := ringIndex(cex-cx, cey-cy)
	lex, ley := cex, cey
	for k := 1; k <= 8; k++ {
		var idx int
		if clockwise {
			idx = (start + k) % 8
		} else {
			idx = (start - k + 16) % 8
		}
		px, py := cx+nbrDX[idx], cy+nbrDY[idx]
		if bm.InRange(px, py) && bm.At(px, py) == feature {
			return px, py, lex, ley, true
		}
		lex, ley = px, py
	}
	return 0, 0, 0, 0, false
}

// TraceContour walks at most maxLen points along the boundary of the
// feature containing (sx, sy), keeping the off-feature side seeded by
// (sex, sey). It reports whether the walk closed back onto its starting
// point, in which case the returned contour is the complete boundary
// cycle of the component.
func TraceContour(bm *Bitmap, maxLen, sx, sy, sex, sey int, clockwise bool) (*Contour, bool) {
	feature := bm.At(sx, sy)
	c := newContour(maxLen)
	c.push(sx, sy, sex, sey)
	cx, cy, cex, cey := sx, sy, sex, sey
	for c.N < maxLen {
		nx, ny, nex, ney, ok := nextContourPoint(bm, feature, cx, cy, cex, cey, clockwise)
		if !ok {
			break
		}
		if nx == sx && ny == sy {
			return c, true
		}
		c.push(nx, ny, nex, ney)
		cx, cy, cex, cey = nx, ny, nex, ney
	}
	return c, false
}

// TraceCentered walks half points to each side of the starting pose and
// splices the two arcs around it. If either walk closes into a loop the
// full cycle is returned instead, flagged as such.
func TraceCentered(bm *Bitmap, half, sx, sy, sex, sey int) (*Contour, bool) {
	cw, loop := TraceContour(bm, half+1, sx, sy, sex, sey, true)
	if loop {
		return cw, true
	}
	ccw, loop := TraceContour(bm, half+1, sx, sy, sex, sey, false)
	if loop {
		return ccw, true
	}
	out := newContour(cw.N + ccw.N - 1)
	for i := ccw.N - 1; i >= 1; i-- {
		out.push(ccw.X[i], ccw.Y[i], ccw.EX[i], ccw.EY[i])
	}
	for i := 0; i < cw.N; i++ {
		out.push(cw.X[i], cw.Y[i], cw.EX[i], cw.EY[i])
	}
	return out, false
}
