package extractor

import (
	"testing"

	"github.com/iafilatov/libfprint-sub001/primitives"
)

// fillDisk paints a solid ridge disk of radius r around (cx, cy).
func fillDisk(bm *Bitmap, cx, cy, r int) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				bm.Set(x, y, 1)
			}
		}
	}
}

func TestLoopAspectAntipodes(t *testing.T) {
	bm := NewBitmap(32, 32)
	fillDisk(bm, 16, 16, 5)
	c, loop := TraceContour(bm, 100, 16, 11, 16, 10, true)
	if !loop {
		t.Fatal("TraceContour() found no loop around a solid disk")
	}
	minIdx, minD2, maxIdx, maxD2 := loopAspect(c)
	half := c.N / 2
	if got := primitives.SquaredDistance(c.X[maxIdx], c.Y[maxIdx], c.X[maxIdx+half], c.Y[maxIdx+half]); got != maxD2 {
		t.Errorf("recomputed max chord = %d, reported %d", got, maxD2)
	}
	if got := primitives.SquaredDistance(c.X[minIdx], c.Y[minIdx], c.X[minIdx+half], c.Y[minIdx+half]); got != minD2 {
		t.Errorf("recomputed min chord = %d, reported %d", got, minD2)
	}
	if minD2 > maxD2 {
		t.Errorf("min chord %d exceeds max chord %d", minD2, maxD2)
	}
	if maxD2 < 81 {
		t.Errorf("max chord squared = %d, want at least the disk diameter", maxD2)
	}
}

func TestRemoveIslandsAndLakesErasesIsland(t *testing.T) {
	bm := NewBitmap(32, 32)
	fillRect(bm, 10, 10, 12, 12, 1)
	list := &List{}
	list.Add(bm, &Minutia{X: 10, Y: 10, EX: 10, EY: 9, Type: RidgeEnding})
	RemoveIslandsAndLakes(bm, list)
	if list.Len() != 0 {
		t.Errorf("minutiae on an erased island = %d, want 0", list.Len())
	}
	for y := 9; y <= 13; y++ {
		for x := 9; x <= 13; x++ {
			if bm.At(x, y) != 0 {
				t.Errorf("island pixel (%d, %d) survived the fill", x, y)
			}
		}
	}
}

func TestProcessLoopKeepsElongatedPondTips(t *testing.T) {
	bm := NewBitmap(32, 24)
	fillRect(bm, 4, 8, 27, 15, 1)
	fillRect(bm, 7, 11, 24, 12, 0)
	c, loop := TraceContour(bm, 100, 7, 11, 6, 11, true)
	if !loop {
		t.Fatal("TraceContour() found no loop around the pond")
	}
	list := &List{}
	ProcessLoop(bm, list, c)
	if list.Len() != 2 {
		t.Fatalf("pond minutiae = %d, want the two tips", list.Len())
	}
	west, east := list.At(0), list.At(1)
	if west.X > east.X {
		west, east = east, west
	}
	if west.Type != Bifurcation || east.Type != Bifurcation {
		t.Errorf("pond tip types = %v, %v, want bifurcations", west.Type, east.Type)
	}
	if west.X != 7 {
		t.Errorf("west tip x = %d, want 7", west.X)
	}
	if east.X != 24 {
		t.Errorf("east tip x = %d, want 24", east.X)
	}
	if bm.At(16, 11) != 0 {
		t.Error("elongated pond interior was filled")
	}
}

func TestProcessLoopFillsSmallLake(t *testing.T) {
	bm := NewBitmap(24, 24)
	fillRect(bm, 6, 6, 17, 17, 1)
	fillRect(bm, 10, 10, 13, 13, 0)
	c, loop := TraceContour(bm, 100, 10, 10, 9, 10, true)
	if !loop {
		t.Fatal("TraceContour() found no loop around the lake")
	}
	list := &List{}
	list.Add(bm, &Minutia{X: 10, Y: 10, EX: 9, EY: 10, Type: Bifurcation})
	ProcessLoop(bm, list, c)
	if list.Len() != 0 {
		t.Errorf("minutiae on a filled lake = %d, want 0", list.Len())
	}
	for y := 10; y <= 13; y++ {
		for x := 10; x <= 13; x++ {
			if bm.At(x, y) != 1 {
				t.Errorf("lake pixel (%d, %d) was not filled", x, y)
			}
		}
	}
}
