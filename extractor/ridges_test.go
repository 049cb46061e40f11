package extractor

import "testing"

func TestCountRidgesBetweenMinutiae(t *testing.T) {
	tests := []struct {
		name string
		ax   int
		want int
	}{
		{"endpoint in a valley", 5, 3},
		{"endpoint on a ridge", 10, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bm := NewBitmap(40, 16)
			for _, x := range []int{10, 20, 30} {
				fillRect(bm, x, 0, x+1, 15, 1)
			}
			list := &List{}
			a := &Minutia{X: test.ax, Y: 8, EX: test.ax, EY: 7}
			b := &Minutia{X: 35, Y: 8, EX: 35, EY: 7}
			list.Add(bm, a)
			list.Add(bm, b)

			CountRidges(bm, list)

			if len(a.Neighbors) != 1 || a.Neighbors[0] != 1 {
				t.Fatalf("neighbors = %v, want [1]", a.Neighbors)
			}
			if len(a.RidgeCounts) != 1 || a.RidgeCounts[0] != test.want {
				t.Errorf("ridge counts = %v, want [%d]", a.RidgeCounts, test.want)
			}
			if len(b.Neighbors) != 0 {
				t.Errorf("last minutia neighbors = %v, want none", b.Neighbors)
			}
		})
	}
}

func TestCountRidgesCapsNeighbors(t *testing.T) {
	bm := NewBitmap(20, 8)
	list := &List{}
	for i := 0; i < 7; i++ {
		list.Add(bm, &Minutia{X: 2 * i, Y: 2, EX: 2 * i, EY: 1})
	}
	if list.Len() != 7 {
		t.Fatalf("list length = %d, want 7", list.Len())
	}

	CountRidges(bm, list)

	first := list.At(0)
	want := []int{1, 2, 3, 4, 5}
	if len(first.Neighbors) != len(want) {
		t.Fatalf("neighbors = %v, want %v", first.Neighbors, want)
	}
	for i, idx := range want {
		if first.Neighbors[i] != idx {
			t.Errorf("neighbor %d = %d, want %d", i, first.Neighbors[i], idx)
		}
	}
	for i, count := range first.RidgeCounts {
		if count != 0 {
			t.Errorf("ridge count %d = %d, want 0 on a blank bitmap", i, count)
		}
	}
}
