package extractor

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/config"
)

// Reliability floor per quality grade. Grades above the floor earn a bonus
// from local pixel contrast.
var gradeReliability = [5]float64{0.01, 0.05, 0.10, 0.25, 0.50}

const (
	qualityStdevNorm   = 64.0
	qualityStdevRadius = 5
	maxReliability     = 0.99
)

// BuildQualityMap merges the block classification planes into a single
// 0..4 grade per block. Blocks without a usable direction grade 0, blocks
// with weak or curling flow grade 3, clean blocks grade 4, and any block
// touching a grade 0 neighbour is capped at 2.
func BuildQualityMap(m *Maps) {
	q := NewIntMap(m.BlocksX, m.BlocksY)
	for by := 0; by < m.BlocksY; by++ {
		for bx := 0; bx < m.BlocksX; bx++ {
			d := m.Direction.At(bx, by)
			switch {
			case m.LowContrast.At(bx, by) == 1 || d == DirInvalid || d == DirNoValidNbrs:
				q.Set(bx, by, 0)
			case m.LowFlow.At(bx, by) == 1 || m.HighCurve.At(bx, by) == 1 || d == DirHighCurvature:
				q.Set(bx, by, 3)
			default:
				q.Set(bx, by, 4)
			}
		}
	}
	for by := 0; by < m.BlocksY; by++ {
		for bx := 0; bx < m.BlocksX; bx++ {
			if q.At(bx, by) <= 2 {
				continue
			}
			for i := range nbrDX {
				nx, ny := bx+nbrDX[i], by+nbrDY[i]
				if q.InRange(nx, ny) && q.At(nx, ny) == 0 {
					q.Set(bx, by, 2)
					break
				}
			}
		}
	}
	m.Quality = q
}

// ScoreMinutiae replaces each minutia's detection-time reliability with a
// grade from the quality map, boosted by the grayscale contrast around the
// point. Minutiae in grade 0 blocks stay at the floor.
func ScoreMinutiae(list *List, gray []uint8, w, h int, m *Maps) {
	p := config.Get()
	for _, mn := range list.Items() {
		grade := m.Quality.At(mn.X/p.BlockSize, mn.Y/p.BlockSize)
		base := gradeReliability[grade]
		if grade == 0 {
			mn.Reliability = base
			continue
		}
		bonus := 0.49 * min(1, pixelStdev(gray, w, h, mn.X, mn.Y)/qualityStdevNorm)
		mn.Reliability = min(maxReliability, base+bonus)
	}
}

// pixelStdev measures the grayscale standard deviation in a square window
// around the point, clamped at the image edge.
func pixelStdev(gray []uint8, w, h, x, y int) float64 {
	var sum, sumSq float64
	n := 0
	for dy := -qualityStdevRadius; dy <= qualityStdevRadius; dy++ {
		py := y + dy
		if py < 0 || py >= h {
			continue
		}
		for dx := -qualityStdevRadius; dx <= qualityStdevRadius; dx++ {
			px := x + dx
			if px < 0 || px >= w {
				continue
			}
			v := float64(gray[py*w+px])
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n < 2 {
		return 0
	}
	mean := sum / float64(n)
	variance := (sumSq - float64(n)*mean*mean) / float64(n-1)
	if variance < 0 {
		return 0
	}
	return math.Sqrt(variance)
}
