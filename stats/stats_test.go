package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	var tally Tally
	tally.Count(true)
	tally.Count(true)
	tally.Count(false)
	assert.Equal(t, Tally{Accepted: 2, Rejected: 1}, tally)
	assert.Equal(t, uint64(3), tally.Total())

	tally.Update(Tally{Accepted: 5, Rejected: 7})
	assert.Equal(t, Tally{Accepted: 7, Rejected: 8}, tally)
}

func mergeIn(order []*CountStats) *CountStats {
	ch := make(chan *CountStats, len(order))
	for _, cs := range order {
		ch <- cs
	}
	close(ch)
	total := NewCountStats(false)
	total.Merge(ch)
	return total
}

func TestMergeOrderIndependent(t *testing.T) {
	a := &CountStats{Mapped: Tally{10, 2}, Exon: Tally{4, 1}}
	b := &CountStats{Mapped: Tally{7, 0}, Exon: Tally{3, 3}}
	c := &CountStats{Mapped: Tally{0, 5}, Exon: Tally{0, 0}}

	first := mergeIn([]*CountStats{a, b, c})
	second := mergeIn([]*CountStats{c, a, b})
	assert.Equal(t, first.Mapped, second.Mapped)
	assert.Equal(t, first.Exon, second.Exon)
	assert.Equal(t, Tally{17, 7}, first.Mapped)
	assert.Equal(t, Tally{7, 4}, first.Exon)
}

func TestCardinality(t *testing.T) {
	a := NewCardinality()
	a.Add("r1/1")
	a.Add("r1/2")
	a.Add("r2/1")
	a.Add("r1/1")
	assert.Equal(t, uint64(3), a.Estimate())

	b := NewCardinality()
	b.Add("r2/1")
	b.Add("r3/1")
	assert.NoError(t, a.Merge(b))
	assert.Equal(t, uint64(4), a.Estimate())
}
