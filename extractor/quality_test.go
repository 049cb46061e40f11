package extractor

import (
	"math"
	"testing"
)

func TestBuildQualityMapGrades(t *testing.T) {
	t.Run("grades with low quality cap", func(t *testing.T) {
		m := blankMaps(7, 1)
		m.LowContrast.Set(0, 0, 1)
		m.Direction.Set(0, 0, DirInvalid)
		m.Direction.Set(1, 0, 5)
		m.Direction.Set(2, 0, 5)
		m.Direction.Set(3, 0, 5)
		m.LowFlow.Set(3, 0, 1)
		m.Direction.Set(4, 0, 5)
		m.Direction.Set(5, 0, DirHighCurvature)
		m.Direction.Set(6, 0, DirNoValidNbrs)

		BuildQualityMap(m)

		want := []int{0, 2, 4, 3, 4, 2, 0}
		for bx, w := range want {
			if got := m.Quality.At(bx, 0); got != w {
				t.Errorf("quality(%d) = %d, want %d", bx, got, w)
			}
		}
	})

	t.Run("high curvature flag grades down", func(t *testing.T) {
		m := blankMaps(3, 1)
		for bx := 0; bx < 3; bx++ {
			m.Direction.Set(bx, 0, 5)
		}
		m.HighCurve.Set(1, 0, 1)

		BuildQualityMap(m)

		want := []int{4, 3, 4}
		for bx, w := range want {
			if got := m.Quality.At(bx, 0); got != w {
				t.Errorf("quality(%d) = %d, want %d", bx, got, w)
			}
		}
	})
}

func TestScoreMinutiaeReliability(t *testing.T) {
	const w, h = 32, 32
	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x < 16:
				gray[y*w+x] = 100
			case (x+y)%2 == 0:
				gray[y*w+x] = 255
			}
		}
	}
	m := blankMaps(4, 4)
	for i := range m.Quality.Cells {
		m.Quality.Cells[i] = 4
	}
	m.Quality.Set(0, 0, 0)

	bm := NewBitmap(w, h)
	list := &List{}
	dark := &Minutia{X: 4, Y: 4, EX: 4, EY: 3}
	flat := &Minutia{X: 8, Y: 8, EX: 8, EY: 7}
	busy := &Minutia{X: 24, Y: 24, EX: 24, EY: 23}
	list.Add(bm, dark)
	list.Add(bm, flat)
	list.Add(bm, busy)

	ScoreMinutiae(list, gray, w, h, m)

	tests := []struct {
		name string
		m    *Minutia
		want float64
	}{
		{"low quality block floors out", dark, 0.01},
		{"flat surround keeps base grade", flat, 0.50},
		{"busy surround earns full bonus", busy, 0.99},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if math.Abs(test.m.Reliability-test.want) > 1e-9 {
				t.Errorf("reliability = %v, want %v", test.m.Reliability, test.want)
			}
		})
	}
}
