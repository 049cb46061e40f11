// Package matcher scores point pattern similarity between two fingerprint
// templates. Each template is reduced to a table of intrinsic pairwise
// edges that are invariant under translation and rotation; matching then
// pairs up compatible edges, votes on a global rotation, and counts how
// many pairings survive a one-to-one minutia correspondence.
package matcher

import (
	"golang.org/x/exp/slices"

	"github.com/iafilatov/libfprint-sub001/primitives"
	"github.com/iafilatov/libfprint-sub001/templates"
)

const (
	// Tables are trimmed to the most reliable minutiae.
	maxTableMinutiae = 150
	// Edges longer than this never enter the table.
	maxEdgeDistance = 125
	// Once a table holds more than minSortedEdges edges, edges beyond
	// pruneDistance are cut off.
	pruneDistance  = 75
	minSortedEdges = 500
	// Endpoint angle slack when pairing edges, in degrees: half a
	// direction step at 16 semicircle directions.
	betaTolerance = 11.25
	// Pairings rotating more than this away from the consensus are voided.
	rotationTolerance = 30.0
	rotationBins      = 12
	// Squared length slack when pairing edges.
	distSlackSq   = 121
	distTolerance = 0.05
	// Endpoint angles closer than this are treated as equal when picking
	// the canonical edge orientation, in degrees.
	betaCanonEpsilon = 1e-6
)

type tableMinutia struct {
	x, y    int
	degrees float64
}

// comparisonEdge is the intrinsic view of one minutia pair: the squared
// distance between the endpoints, the angles of each endpoint's direction
// relative to the joining line, and the absolute angle of that line. The
// endpoint with the smaller relative angle is always stored as k, so two
// edges from different templates compare field by field. Pairs whose two
// relative angles coincide have no canonical orientation and enter the
// table in both; the misaligned copy pairs up at a rotation 180 degrees
// off the true one and falls to the rotation consensus.
type comparisonEdge struct {
	distSq            int
	betaLow, betaHigh float64
	k, j              int
	theta             float64
}

type comparisonTable struct {
	minutiae []tableMinutia
	edges    []comparisonEdge
}

// newComparisonTable trims the template to its most reliable minutiae and
// builds the sorted, pruned edge table.
func newComparisonTable(t *templates.Template) *comparisonTable {
	picked := append([]templates.Minutia(nil), t.Minutiae...)
	slices.SortFunc(picked, func(a, b templates.Minutia) int {
		switch {
		case a.Reliability > b.Reliability:
			return -1
		case a.Reliability < b.Reliability:
			return 1
		}
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	if len(picked) > maxTableMinutiae {
		picked = picked[:maxTableMinutiae]
	}
	slices.SortFunc(picked, func(a, b templates.Minutia) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	ct := &comparisonTable{minutiae: make([]tableMinutia, len(picked))}
	for i, m := range picked {
		ct.minutiae[i] = tableMinutia{
			x: m.X, y: m.Y,
			degrees: primitives.UnitToDegrees(m.Direction, t.NumDirections),
		}
	}
	ct.buildEdges()
	return ct
}

func (ct *comparisonTable) buildEdges() {
	for k := 0; k < len(ct.minutiae); k++ {
		for j := k + 1; j < len(ct.minutiae); j++ {
			mk, mj := &ct.minutiae[k], &ct.minutiae[j]
			d2 := primitives.SquaredDistance(mk.x, mk.y, mj.x, mj.y)
			if d2 == 0 || d2 > maxEdgeDistance*maxEdgeDistance {
				continue
			}
			theta := primitives.VectorToDegrees(float64(mj.x-mk.x), float64(mj.y-mk.y))
			betaK := norm360(mk.degrees - theta)
			betaJ := norm360(mj.degrees - (theta + 180))
			e := comparisonEdge{distSq: d2, k: k, j: j, theta: theta, betaLow: betaK, betaHigh: betaJ}
			flipped := comparisonEdge{distSq: d2, k: j, j: k, theta: norm360(theta + 180), betaLow: betaJ, betaHigh: betaK}
			switch {
			case betaJ < betaK-betaCanonEpsilon:
				ct.edges = append(ct.edges, flipped)
			case betaK < betaJ-betaCanonEpsilon:
				ct.edges = append(ct.edges, e)
			default:
				ct.edges = append(ct.edges, e, flipped)
			}
		}
	}
	slices.SortFunc(ct.edges, func(a, b comparisonEdge) int {
		if a.distSq != b.distSq {
			return a.distSq - b.distSq
		}
		switch {
		case a.betaLow < b.betaLow:
			return -1
		case a.betaLow > b.betaLow:
			return 1
		case a.betaHigh < b.betaHigh:
			return -1
		case a.betaHigh > b.betaHigh:
			return 1
		}
		return 0
	})
	if len(ct.edges) > minSortedEdges {
		cut, _ := slices.BinarySearchFunc(ct.edges, pruneDistance*pruneDistance+1,
			func(e comparisonEdge, target int) int { return e.distSq - target })
		ct.edges = ct.edges[:max(cut, minSortedEdges)]
	}
}

func norm360(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// compatibleDistance allows squared edge lengths to differ by a small
// absolute slack or a fraction of the shorter edge, whichever is larger.
func compatibleDistance(a, b int) bool {
	diff := primitives.Abs(a - b)
	slack := distTolerance * float64(min(a, b))
	return float64(diff) <= max(float64(distSlackSq), slack)
}
