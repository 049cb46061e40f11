package extractor

import "golang.org/x/exp/slices"

type shapeRow struct {
	y          int
	minX, maxX int
}

// Shape is the row span coverage of a closed contour: for every y the
// contour touches it keeps the leftmost and rightmost contour x. Pixels
// between the two bounds count as covered even when the contour is concave
// on that row, which is exactly the coverage the loop filler paints.
type Shape struct {
	rows []shapeRow
}

// ShapeFromContour builds the row spans of a contour.
func ShapeFromContour(c *Contour) *Shape {
	byY := make(map[int]int, c.N)
	s := &Shape{}
	for i := 0; i < c.N; i++ {
		x, y := c.X[i], c.Y[i]
		ri, seen := byY[y]
		if !seen {
			byY[y] = len(s.rows)
			s.rows = append(s.rows, shapeRow{y: y, minX: x, maxX: x})
			continue
		}
		if x < s.rows[ri].minX {
			s.rows[ri].minX = x
		}
		if x > s.rows[ri].maxX {
			s.rows[ri].maxX = x
		}
	}
	slices.SortFunc(s.rows, func(a, b shapeRow) int { return a.y - b.y })
	return s
}

// Contains reports whether (x, y) falls within the shape's row spans.
func (s *Shape) Contains(x, y int) bool {
	i, ok := slices.BinarySearchFunc(s.rows, y, func(r shapeRow, target int) int { return r.y - target })
	if !ok {
		return false
	}
	return x >= s.rows[i].minX && x <= s.rows[i].maxX
}
