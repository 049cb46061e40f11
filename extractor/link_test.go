package extractor

import "testing"

// blankMaps builds a block map grid with every cell zeroed.
func blankMaps(bw, bh int) *Maps {
	return &Maps{
		BlocksX:     bw,
		BlocksY:     bh,
		Direction:   NewIntMap(bw, bh),
		LowContrast: NewIntMap(bw, bh),
		LowFlow:     NewIntMap(bw, bh),
		HighCurve:   NewIntMap(bw, bh),
		Quality:     NewIntMap(bw, bh),
	}
}

func TestLinkMinutiaeHealsBrokenRidge(t *testing.T) {
	tests := []struct {
		name     string
		bX       int
		bDir     int
		bType    MinutiaType
		wantJoin bool
	}{
		{"opposing endings join", 17, 24, RidgeEnding, true},
		{"type mismatch kept", 17, 24, Bifurcation, false},
		{"parallel directions kept", 17, 8, RidgeEnding, false},
		{"too far apart kept", 35, 24, RidgeEnding, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bm := NewBitmap(64, 16)
			fillRect(bm, 2, 8, 12, 8, 1)
			fillRect(bm, test.bX, 8, test.bX+10, 8, 1)
			list := &List{}
			a := &Minutia{X: 12, Y: 8, EX: 13, EY: 8, Direction: 8, Type: RidgeEnding}
			b := &Minutia{X: test.bX, Y: 8, EX: test.bX - 1, EY: 8, Direction: test.bDir, Type: test.bType}
			list.Add(bm, a)
			list.Add(bm, b)

			LinkMinutiae(bm, blankMaps(8, 2), list)

			if test.wantJoin {
				if list.Len() != 0 {
					t.Fatalf("list length = %d, want both ends joined away", list.Len())
				}
				if bm.At(14, 8) != 1 {
					t.Error("gap between the segments was not painted over")
				}
			} else {
				if list.Len() != 2 {
					t.Fatalf("list length = %d, want both ends kept", list.Len())
				}
				if bm.At(14, 8) != 0 {
					t.Error("gap was painted despite no join")
				}
			}
		})
	}
}

func TestLinkMinutiaeExemptsLoopTips(t *testing.T) {
	bm := NewBitmap(24, 16)
	fillRect(bm, 6, 6, 8, 8, 1)
	fillRect(bm, 14, 6, 16, 8, 1)
	list := &List{}
	list.Add(bm, &Minutia{X: 8, Y: 7, EX: 9, EY: 7, Direction: 8, Type: RidgeEnding})
	list.Add(bm, &Minutia{X: 14, Y: 7, EX: 13, EY: 7, Direction: 24, Type: RidgeEnding})

	LinkMinutiae(bm, blankMaps(3, 2), list)

	if list.Len() != 2 {
		t.Fatalf("list length = %d, want loop tips exempt from linking", list.Len())
	}
	if bm.At(11, 7) != 0 {
		t.Error("gap between islands was painted over")
	}
}
