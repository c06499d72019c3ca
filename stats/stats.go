// Package stats holds the tally types accumulated by the counting
// passes and their reduction.
package stats

// Tally is an accepted/rejected counter pair for one record category.
type Tally struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

// Count bumps the counter matching the classification outcome.
func (t *Tally) Count(accepted bool) {
	if accepted {
		t.Accepted++
	} else {
		t.Rejected++
	}
}

// Update adds all counts from another Tally.
func (t *Tally) Update(other Tally) {
	t.Accepted += other.Accepted
	t.Rejected += other.Rejected
}

// Total returns the number of counted records.
func (t Tally) Total() uint64 {
	return t.Accepted + t.Rejected
}

// CountStats is the four-way tally produced by one chromosome scan:
// every classified record lands in Mapped, records overlapping a
// region additionally land in Exon.
type CountStats struct {
	Mapped Tally `json:"mapped"`
	Exon   Tally `json:"exon"`

	// Names is an approximate distinct-name diagnostic, allocated
	// only at debug level. It never feeds the exact tallies.
	Names *Cardinality `json:"-"`
}

// NewCountStats creates a CountStats, with the name cardinality
// diagnostic attached when debug is set.
func NewCountStats(debug bool) *CountStats {
	cs := &CountStats{}
	if debug {
		cs.Names = NewCardinality()
	}
	return cs
}

// Update adds all counts from another CountStats.
func (s *CountStats) Update(other *CountStats) {
	s.Mapped.Update(other.Mapped)
	s.Exon.Update(other.Exon)
	if s.Names != nil && other.Names != nil {
		s.Names.Merge(other.Names)
	}
}

// Merge drains per-chromosome results into s. The sum is commutative
// and associative, so completion order does not affect the outcome.
func (s *CountStats) Merge(others chan *CountStats) {
	for other := range others {
		s.Update(other)
	}
}

// Summary holds the whole-run tallies for the three record categories.
type Summary struct {
	Mapped   Tally `json:"mapped"`
	Exon     Tally `json:"exon"`
	Unmapped Tally `json:"unmapped"`
}
