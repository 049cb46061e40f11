package extractor

import (
	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/primitives"
	"github.com/iafilatov/libfprint-sub001/transparency"
)

// Result bundles everything the detection pipeline produced for one image.
type Result struct {
	Minutiae  *List
	Maps      *Maps
	Binarized *Bitmap
}

// Extract runs the full minutiae detection pipeline over an 8-bit
// grayscale raster: block classification, binarization, candidate
// scanning, island and lake removal, ridge break linking, quality scoring
// and neighbour ridge counting. Intermediate stages are offered to the
// transparency logger as they complete.
func Extract(gray []uint8, w, h int, logger *transparency.Logger) (*Result, error) {
	p := config.Get()
	maps, err := BuildMaps(gray, w, h, p)
	if err != nil {
		return nil, err
	}
	logger.IntGrid("direction-map", maps.BlocksX, maps.BlocksY, maps.Direction.Cells)
	logger.IntGrid("low-contrast-map", maps.BlocksX, maps.BlocksY, maps.LowContrast.Cells)
	logger.IntGrid("low-flow-map", maps.BlocksX, maps.BlocksY, maps.LowFlow.Cells)
	logger.IntGrid("high-curvature-map", maps.BlocksX, maps.BlocksY, maps.HighCurve.Cells)

	bin := Binarize(gray, w, h, maps, p)
	if bin.Width != w || bin.Height != h {
		return nil, ErrBinarizedDimensions
	}

	list := DetectMinutiae(bin, maps)
	RemoveIslandsAndLakes(bin, list)
	LinkMinutiae(bin, maps, list)

	BuildQualityMap(maps)
	ScoreMinutiae(list, gray, w, h, maps)
	CountRidges(bin, list)

	logger.IntGrid("quality-map", maps.BlocksX, maps.BlocksY, maps.Quality.Cells)
	logger.BinaryImage("binarized-image", w, h, bin.Bits)
	pts := MinutiaPoints(list, p.NumDirections)
	logger.Minutiae("minutiae", pts)
	logger.SVG("minutiae-plot", w, h, pts)

	return &Result{Minutiae: list, Maps: maps, Binarized: bin}, nil
}

// MinutiaPoints converts a minutia list to its rendering view.
func MinutiaPoints(list *List, ndirs int) []transparency.MinutiaPoint {
	pts := make([]transparency.MinutiaPoint, 0, list.Len())
	for _, m := range list.Items() {
		pts = append(pts, transparency.MinutiaPoint{
			X: m.X, Y: m.Y,
			Degrees:     primitives.UnitToDegrees(m.Direction, ndirs),
			Type:        m.Type.String(),
			Reliability: m.Reliability,
		})
	}
	return pts
}
