package stats

import (
	"github.com/axiomhq/hyperloglog"
)

// Cardinality is an approximate distinct read-name counter used for
// debug diagnostics. Estimates are reported alongside, never instead
// of, the exact tallies.
type Cardinality struct {
	sketch *hyperloglog.Sketch
}

// NewCardinality creates an empty counter.
func NewCardinality() *Cardinality {
	return &Cardinality{hyperloglog.New14()}
}

// Add records one read name.
func (c *Cardinality) Add(name string) {
	c.sketch.Insert([]byte(name))
}

// Merge folds another counter into c. Counters built by NewCardinality
// share a precision, so the merge cannot fail.
func (c *Cardinality) Merge(other *Cardinality) error {
	return c.sketch.Merge(other.sketch)
}

// Estimate returns the approximate number of distinct names added.
func (c *Cardinality) Estimate() uint64 {
	return c.sketch.Estimate()
}
