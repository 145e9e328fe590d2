package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathGenerator_CycleContainsWholeCatalog(t *testing.T) {
	p := NewPathGenerator(DefaultCatalog, rand.New(rand.NewSource(1)))

	seen := make(map[Segment]int)
	for range DefaultCatalog {
		seen[p.Next()]++
	}

	for _, seg := range DefaultCatalog {
		assert.Equal(t, 1, seen[seg], "segment %+v", seg)
	}
	assert.Equal(t, 0, p.Remaining())
	assert.Equal(t, 1, p.Shuffles)
}

func TestPathGenerator_ReshufflesWhenExhausted(t *testing.T) {
	p := NewPathGenerator(DefaultCatalog, rand.New(rand.NewSource(2)))

	for i := 0; i < len(DefaultCatalog)*3+1; i++ {
		p.Next()
	}
	assert.Equal(t, 4, p.Shuffles)
	assert.Equal(t, len(DefaultCatalog)-1, p.Remaining())
}

func TestPathGenerator_ResetStartsFreshPermutation(t *testing.T) {
	p := NewPathGenerator(DefaultCatalog, rand.New(rand.NewSource(3)))
	p.Next()
	p.Next()

	p.Reset()
	assert.Equal(t, len(DefaultCatalog), p.Remaining())
	assert.Equal(t, 1, p.Shuffles)
}

func TestPathGenerator_EmptyCatalog(t *testing.T) {
	p := NewPathGenerator(nil, rand.New(rand.NewSource(4)))
	assert.Equal(t, Segment{}, p.Next())
}

// Over many permutations every segment must land in every slot about
// equally often. A sort-by-random-comparator shuffle fails this badly.
func TestPathGenerator_ShuffleIsUniform(t *testing.T) {
	const shuffles = 12000

	catalog := make([]Segment, len(DefaultCatalog))
	copy(catalog, DefaultCatalog)
	p := NewPathGenerator(catalog, rand.New(rand.NewSource(42)))

	n := len(catalog)
	counts := make([][]int, n) // counts[slot][catalog index]
	for i := range counts {
		counts[i] = make([]int, n)
	}
	index := make(map[Segment]int, n)
	for i, seg := range catalog {
		index[seg] = i
	}

	for s := 0; s < shuffles; s++ {
		for slot := 0; slot < n; slot++ {
			seg := p.Next()
			idx, ok := index[seg]
			require.True(t, ok)
			counts[slot][idx]++
		}
	}

	expected := float64(shuffles) / float64(n)
	// ~5 standard deviations of a binomial(12000, 1/12)
	tolerance := 150.0
	for slot := 0; slot < n; slot++ {
		for idx := 0; idx < n; idx++ {
			assert.InDelta(t, expected, float64(counts[slot][idx]), tolerance,
				"segment %d in slot %d", idx, slot)
		}
	}
}
