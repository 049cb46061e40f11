// Package templates defines the serialized form of an extracted
// fingerprint: a compact CBOR codec for storage and exchange, conversions
// to the two common minutia record conventions, and a line based text
// format for diagnostics.
package templates

import "errors"

// Current serialization version.
const Version = 1

// Minutia type codes as stored in templates.
const (
	TypeEnding      uint8 = 0
	TypeBifurcation uint8 = 1
)

var (
	ErrVersion    = errors.New("templates: unsupported template version")
	ErrFormat     = errors.New("templates: malformed template")
	ErrConvention = errors.New("templates: unknown record convention")
)

// Minutia is one stored feature point. Direction is a full-circle index
// pointing away from the ridge, at the template's direction resolution.
// Neighbors holds indices of nearby minutiae further down the list, and
// RidgeCounts the number of ridges crossed towards each.
type Minutia struct {
	X           int     `cbor:"1,keyasint"`
	Y           int     `cbor:"2,keyasint"`
	Direction   int     `cbor:"3,keyasint"`
	Type        uint8   `cbor:"4,keyasint"`
	Reliability float64 `cbor:"5,keyasint"`
	Neighbors   []int   `cbor:"6,keyasint,omitempty"`
	RidgeCounts []int   `cbor:"7,keyasint,omitempty"`
}

// Template is the complete extraction product for one fingerprint image.
type Template struct {
	Version       int       `cbor:"1,keyasint"`
	Width         int       `cbor:"2,keyasint"`
	Height        int       `cbor:"3,keyasint"`
	PixPerMM      float64   `cbor:"4,keyasint"`
	NumDirections int       `cbor:"5,keyasint"`
	Minutiae      []Minutia `cbor:"6,keyasint"`
}
