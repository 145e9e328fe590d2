package game

import (
	"math"
	"math/rand"
)

// Segment is one curvature unit of road: the total turn applied over its length
type Segment struct {
	Angle  float64 // radians, positive turns toward +X
	Length float64 // metres
}

// DefaultCatalog is the canonical segment pool every run shuffles
var DefaultCatalog = []Segment{
	{Angle: 0, Length: 40},
	{Angle: 0, Length: 60},
	{Angle: 0, Length: 80},
	{Angle: 0, Length: 120},
	{Angle: math.Pi / 12, Length: 40},
	{Angle: -math.Pi / 12, Length: 40},
	{Angle: math.Pi / 8, Length: 50},
	{Angle: -math.Pi / 8, Length: 50},
	{Angle: math.Pi / 6, Length: 60},
	{Angle: -math.Pi / 6, Length: 60},
	{Angle: math.Pi / 4, Length: 80},
	{Angle: -math.Pi / 4, Length: 80},
}

// PathGenerator hands out segments from a shuffled copy of a catalog,
// reshuffling when the copy runs out
type PathGenerator struct {
	catalog []Segment
	pool    []Segment
	next    int
	rng     *rand.Rand

	// Shuffles counts how many permutations have been drawn
	Shuffles int
}

// NewPathGenerator creates a generator over catalog using rng for the permutation
func NewPathGenerator(catalog []Segment, rng *rand.Rand) *PathGenerator {
	p := &PathGenerator{
		catalog: append([]Segment(nil), catalog...),
		pool:    make([]Segment, len(catalog)),
		rng:     rng,
	}
	p.Reset()
	return p
}

// Reset discards the current permutation and starts a fresh one
func (p *PathGenerator) Reset() {
	p.Shuffles = 0
	p.reshuffle()
}

// Next returns the next segment, reshuffling when the pool is exhausted
func (p *PathGenerator) Next() Segment {
	if len(p.pool) == 0 {
		return Segment{}
	}
	if p.next >= len(p.pool) {
		p.reshuffle()
	}
	seg := p.pool[p.next]
	p.next++
	return seg
}

// Remaining returns how many segments are left before the next reshuffle
func (p *PathGenerator) Remaining() int {
	return len(p.pool) - p.next
}

// reshuffle copies the catalog and applies a Fisher-Yates permutation
func (p *PathGenerator) reshuffle() {
	copy(p.pool, p.catalog)
	for i := len(p.pool) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		p.pool[i], p.pool[j] = p.pool[j], p.pool[i]
	}
	p.next = 0
	p.Shuffles++
}
