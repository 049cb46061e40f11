package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"golang.org/x/exp/slices"

	"github.com/iafilatov/libfprint-sub001/primitives"
	"github.com/iafilatov/libfprint-sub001/templates"
	"github.com/iafilatov/libfprint-sub001/transparency"
)

// ErrNilTemplate is returned when a matcher is built without a probe.
var ErrNilTemplate = errors.New("matcher: nil template")

// Matcher holds one probe template in comparison form and scores candidate
// templates against it. A Matcher is safe for concurrent Match calls.
type Matcher struct {
	logger *transparency.Logger
	probe  *comparisonTable
}

// NewMatcher prepares a matcher for the given probe template.
func NewMatcher(logger *transparency.Logger, probe *templates.Template) (*Matcher, error) {
	if probe == nil {
		return nil, ErrNilTemplate
	}
	return &Matcher{logger: logger, probe: newComparisonTable(probe)}, nil
}

// Match scores the candidate against the probe. Scoring cannot fail: a nil
// or empty candidate, or a cancelled context, scores zero.
func (m *Matcher) Match(ctx context.Context, candidate *templates.Template) int {
	if candidate == nil {
		return 0
	}
	return m.score(ctx, newComparisonTable(candidate))
}

// pairing couples one probe edge with one compatible candidate edge and
// remembers the rotation that would map the probe edge onto the candidate.
type pairing struct {
	probeK, probeJ int
	candK, candJ   int
	rotation       float64
}

func (m *Matcher) score(ctx context.Context, cand *comparisonTable) int {
	if len(m.probe.edges) == 0 || len(cand.edges) == 0 {
		return 0
	}
	pairings := m.pairEdges(ctx, cand)
	if ctx.Err() != nil || len(pairings) == 0 {
		return 0
	}
	kept := consolidateRotation(pairings)
	assigned := assignMinutiae(kept)
	score := 0
	for _, p := range kept {
		ck, okK := assigned[p.probeK]
		cj, okJ := assigned[p.probeJ]
		if okK && okJ && ck == p.candK && cj == p.candJ {
			score++
		}
	}
	m.logger.Text("match-pairings", fmt.Sprintf("%d candidate, %d consistent", len(pairings), len(kept)))
	m.logger.Text("match-score", fmt.Sprintf("%d", score))
	return score
}

// pairEdges sweeps both sorted edge tables in tandem and collects every
// edge pair whose lengths and endpoint angles agree within tolerance.
func (m *Matcher) pairEdges(ctx context.Context, cand *comparisonTable) []pairing {
	var pairings []pairing
	start := 0
	for i := range m.probe.edges {
		if i%256 == 0 && ctx.Err() != nil {
			return nil
		}
		pe := &m.probe.edges[i]
		for start < len(cand.edges) &&
			cand.edges[start].distSq < pe.distSq &&
			!compatibleDistance(pe.distSq, cand.edges[start].distSq) {
			start++
		}
		for j := start; j < len(cand.edges); j++ {
			ce := &cand.edges[j]
			if !compatibleDistance(pe.distSq, ce.distSq) {
				if ce.distSq > pe.distSq {
					break
				}
				continue
			}
			if primitives.DegreeDistance(pe.betaLow, ce.betaLow) > betaTolerance ||
				primitives.DegreeDistance(pe.betaHigh, ce.betaHigh) > betaTolerance {
				continue
			}
			pairings = append(pairings, pairing{
				probeK: pe.k, probeJ: pe.j,
				candK: ce.k, candJ: ce.j,
				rotation: norm360(pe.theta - ce.theta),
			})
		}
	}
	return pairings
}

// consolidateRotation finds the dominant rotation among the pairings and
// keeps only the ones near it. Rotations are first binned to locate the
// consensus, then the bin's circular mean serves as the pivot.
func consolidateRotation(pairings []pairing) []pairing {
	var bins [rotationBins]int
	binOf := func(rot float64) int {
		return int(rot/(360/rotationBins)) % rotationBins
	}
	for _, p := range pairings {
		bins[binOf(p.rotation)]++
	}
	dominant := 0
	for b := 1; b < rotationBins; b++ {
		if bins[b] > bins[dominant] {
			dominant = b
		}
	}
	var sx, sy float64
	for _, p := range pairings {
		if binOf(p.rotation) != dominant {
			continue
		}
		rad := p.rotation * math.Pi / 180
		sx += math.Cos(rad)
		sy += math.Sin(rad)
	}
	pivot := norm360(math.Atan2(sy, sx) * 180 / math.Pi)
	kept := make([]pairing, 0, len(pairings))
	for _, p := range pairings {
		if primitives.DegreeDistance(p.rotation, pivot) <= rotationTolerance {
			kept = append(kept, p)
		}
	}
	return kept
}

// assignMinutiae votes each probe endpoint towards the candidate minutiae
// it was paired with and resolves the votes into a one-to-one assignment,
// strongest correspondences first.
func assignMinutiae(pairings []pairing) map[int]int {
	votes := treemap.NewWithIntComparator()
	vote := func(pk, ck int) {
		v, found := votes.Get(pk)
		if !found {
			votes.Put(pk, map[int]int{ck: 1})
			return
		}
		v.(map[int]int)[ck]++
	}
	for _, p := range pairings {
		vote(p.probeK, p.candK)
		vote(p.probeJ, p.candJ)
	}
	type tally struct {
		pk, ck, count int
	}
	var tallies []tally
	it := votes.Iterator()
	for it.Next() {
		pk := it.Key().(int)
		for ck, count := range it.Value().(map[int]int) {
			tallies = append(tallies, tally{pk, ck, count})
		}
	}
	slices.SortFunc(tallies, func(a, b tally) int {
		if a.count != b.count {
			return b.count - a.count
		}
		if a.pk != b.pk {
			return a.pk - b.pk
		}
		return a.ck - b.ck
	})
	assigned := make(map[int]int, len(tallies))
	usedCand := make(map[int]bool, len(tallies))
	for _, t := range tallies {
		if _, taken := assigned[t.pk]; taken || usedCand[t.ck] {
			continue
		}
		assigned[t.pk] = t.ck
		usedCand[t.ck] = true
	}
	return assigned
}
