package sam

import (
	"github.com/biogo/hts/sam"
)

// ReferenceEnd returns the 0-based half-open end of the record's
// reference footprint. Every reference-consuming operation (match,
// sequence match/mismatch, deletion, reference skip) extends the
// footprint; insertions, clips and padding do not.
func (r *Record) ReferenceEnd() int {
	end := r.Pos
	for _, co := range r.Cigar {
		end += co.Len() * co.Type().Consumes().Reference
	}
	return end
}

// OverlapsInterval reports whether any aligned base of the record
// falls inside the half-open interval [start, end). Only match-type
// operations are tested; deletions and reference skips advance the
// walk without testing, so a gap in sequenced coverage never
// constitutes an overlap and spliced reads are not treated as
// contiguous blocks.
func (r *Record) OverlapsInterval(start, end int) bool {
	pos := r.Pos
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if pos < end && pos+co.Len() > start {
				return true
			}
			pos += co.Len()
		case sam.CigarDeletion, sam.CigarSkipped:
			pos += co.Len()
		}
	}
	return false
}
