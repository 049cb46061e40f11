// Package primitives provides the small geometric vocabulary shared by the
// extraction and matching pipelines: quantized direction indices, angle
// conversions and a few generic numeric helpers.
//
// Directions are stored as integer indices. A full circle is divided into
// 2*n steps of 180/n degrees each, where n is the configured semicircle
// resolution. Index 0 points north (towards smaller y in image coordinates)
// and indices advance clockwise when the image is viewed normally, so index
// n/2 of a 2*n range points east. Block orientations, which have no sense of
// forward or backward, use only the half range [0, n).
package primitives

import "math"

// DegreesPerUnit returns the angular width of one direction index at the
// given semicircle resolution.
func DegreesPerUnit(ndirs int) float64 {
	return 180.0 / float64(ndirs)
}

// UnitToDegrees converts a full-circle direction index to degrees measured
// from north, clockwise.
func UnitToDegrees(dir, ndirs int) float64 {
	return float64(dir) * DegreesPerUnit(ndirs)
}

// DegreesToUnit quantizes an angle in degrees (from north, clockwise) to the
// nearest full-circle direction index.
func DegreesToUnit(deg float64, ndirs int) int {
	u := int(math.Round(deg/DegreesPerUnit(ndirs))) % (2 * ndirs)
	if u < 0 {
		u += 2 * ndirs
	}
	return u
}

// VectorToDegrees returns the angle of the image-space vector (dx, dy) in
// degrees from north, clockwise. Image y grows downwards, so (0, -1) maps to
// 0 and (1, 0) maps to 90.
func VectorToDegrees(dx, dy float64) float64 {
	deg := math.Atan2(dx, -dy) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// UnitVector returns the unit vector of a full-circle direction index in
// image space.
func UnitVector(dir, ndirs int) (dx, dy float64) {
	rad := float64(dir) * math.Pi / float64(ndirs)
	return math.Sin(rad), -math.Cos(rad)
}

// ReverseUnit flips a full-circle direction index by half a turn.
func ReverseUnit(dir, ndirs int) int {
	return (dir + ndirs) % (2 * ndirs)
}

// UnitDistance returns the minimal angular distance between two full-circle
// direction indices, in units. The result lies in [0, ndirs].
func UnitDistance(a, b, ndirs int) int {
	d := Abs(a-b) % (2 * ndirs)
	if d > ndirs {
		d = 2*ndirs - d
	}
	return d
}

// OrientationDistance returns the minimal distance between two half-circle
// block orientations, in units. The result lies in [0, ndirs/2].
func OrientationDistance(a, b, ndirs int) int {
	d := Abs(a-b) % ndirs
	if d > ndirs/2 {
		d = ndirs - d
	}
	return d
}

// OrientationDelta returns the minimal signed change from orientation a to
// orientation b on the half-circle ring, in (-ndirs/2, ndirs/2].
func OrientationDelta(a, b, ndirs int) int {
	d := ((b-a)%ndirs + ndirs) % ndirs
	if d > ndirs/2 {
		d -= ndirs
	}
	return d
}

// DegreeDistance returns the minimal absolute distance between two angles on
// the full circle, in degrees. The result lies in [0, 180].
func DegreeDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// AverageOrientation averages half-circle orientations by summing unit
// vectors of the doubled angles, which makes 0 and ndirs-1 near neighbours
// instead of opposites. It returns -1 when the inputs cancel out.
func AverageOrientation(dirs []int, ndirs int) int {
	if len(dirs) == 0 {
		return -1
	}
	var sx, sy float64
	for _, d := range dirs {
		rad := 2 * float64(d) * math.Pi / float64(ndirs)
		sx += math.Cos(rad)
		sy += math.Sin(rad)
	}
	if math.Hypot(sx, sy) < 1e-9 {
		return -1
	}
	deg := math.Atan2(sy, sx) / 2 * 180 / math.Pi
	u := int(math.Round(deg/DegreesPerUnit(ndirs))) % ndirs
	if u < 0 {
		u += ndirs
	}
	return u
}

// AverageUnit averages full-circle direction indices by vector mean,
// defaulting to 0 when the inputs cancel out.
func AverageUnit(dirs []int, ndirs int) int {
	var sx, sy float64
	for _, d := range dirs {
		dx, dy := UnitVector(d, ndirs)
		sx += dx
		sy += dy
	}
	if math.Hypot(sx, sy) < 1e-9 {
		return 0
	}
	return DegreesToUnit(VectorToDegrees(sx, sy), ndirs)
}
