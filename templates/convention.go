package templates

import (
	"math"

	"github.com/iafilatov/libfprint-sub001/primitives"
)

// Convention selects how minutia records lay out their coordinate system
// and angle.
type Convention int

const (
	// Native records use a bottom-left origin and integer degrees counted
	// counterclockwise from the positive x axis, with the angle pointing
	// away from the ridge.
	Native Convention = iota
	// Standard records keep the image's top-left origin and store the
	// along-ridge angle in two-degree units on a half circle.
	Standard
)

func (c Convention) String() string {
	switch c {
	case Native:
		return "native"
	case Standard:
		return "standard"
	}
	return "unknown"
}

func parseConvention(s string) (Convention, error) {
	switch s {
	case "native":
		return Native, nil
	case "standard":
		return Standard, nil
	}
	return 0, ErrConvention
}

// RecordMinutia is one minutia in an interchange record. Theta's meaning
// depends on the convention; Quality ranges 1..100.
type RecordMinutia struct {
	X, Y    int
	Theta   int
	Quality int
}

// Export converts a template's minutiae to interchange records. The
// template's direction quantization is coarser than a degree, so Import
// reverses the conversion exactly.
func Export(t *Template, c Convention) ([]RecordMinutia, error) {
	if c != Native && c != Standard {
		return nil, ErrConvention
	}
	recs := make([]RecordMinutia, 0, len(t.Minutiae))
	for _, m := range t.Minutiae {
		deg := primitives.UnitToDegrees(m.Direction, t.NumDirections)
		r := RecordMinutia{X: m.X, Quality: recordQuality(m.Reliability)}
		switch c {
		case Native:
			r.Y = t.Height - 1 - m.Y
			r.Theta = wrapDegrees(int(math.Round(90 - deg)))
		case Standard:
			r.Y = m.Y
			along := math.Mod(deg+180, 360)
			r.Theta = int(math.Round(along/2)) % 180
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// Import rebuilds a template from interchange records. Minutia types,
// neighbours and ridge counts are not part of the record form and come
// back empty.
func Import(recs []RecordMinutia, c Convention, width, height int, pixPerMM float64, ndirs int) (*Template, error) {
	if c != Native && c != Standard {
		return nil, ErrConvention
	}
	t := &Template{
		Version:       Version,
		Width:         width,
		Height:        height,
		PixPerMM:      pixPerMM,
		NumDirections: ndirs,
		Minutiae:      make([]Minutia, 0, len(recs)),
	}
	for _, r := range recs {
		m := Minutia{X: r.X, Reliability: float64(r.Quality) / 100}
		var deg float64
		switch c {
		case Native:
			m.Y = height - 1 - r.Y
			deg = float64(wrapDegrees(90 - r.Theta))
		case Standard:
			m.Y = r.Y
			deg = math.Mod(float64(r.Theta)*2+180, 360)
		}
		m.Direction = primitives.DegreesToUnit(deg, ndirs)
		t.Minutiae = append(t.Minutiae, m)
	}
	return t, nil
}

func recordQuality(reliability float64) int {
	return primitives.Clamp(int(math.Round(reliability*100)), 1, 100)
}

func wrapDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}
