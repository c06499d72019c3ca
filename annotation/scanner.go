package annotation

import (
	"io"

	"github.com/kgori/region-counter/region"
)

// Scanner provides a convenient interface for reading exon regions
// from an annotation stream.
type Scanner struct {
	r   *Reader
	reg region.Region
	err error
}

// NewScanner returns a new Scanner reading from r.
func NewScanner(r io.Reader) (*Scanner, error) {
	fr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Scanner{r: fr}, nil
}

// Next advances the Scanner to the next region.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.reg, s.err = s.r.Read()
	return s.err == nil
}

// Region returns the current region.
func (s *Scanner) Region() region.Region {
	return s.reg
}

// Error returns the first non-EOF error that was encountered by the
// Scanner.
func (s *Scanner) Error() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
