package sam

import (
	"github.com/biogo/hts/sam"
)

// Record wraps a sam.Record with the flag and naming helpers used by
// the counting passes.
type Record struct {
	*sam.Record
}

// NewRecord returns a new Record wrapping r.
func NewRecord(r *sam.Record) *Record {
	return &Record{r}
}

func (r *Record) IsUnmapped() bool {
	return r.Flags&sam.Unmapped == sam.Unmapped
}

func (r *Record) IsPaired() bool {
	return r.Flags&sam.Paired == sam.Paired
}

func (r *Record) IsProperlyPaired() bool {
	return r.Flags&sam.ProperPair == sam.ProperPair
}

func (r *Record) IsSecondary() bool {
	return r.Flags&sam.Secondary == sam.Secondary
}

func (r *Record) IsSupplementary() bool {
	return r.Flags&sam.Supplementary == sam.Supplementary
}

func (r *Record) IsQCFail() bool {
	return r.Flags&sam.QCFail == sam.QCFail
}

func (r *Record) IsDuplicate() bool {
	return r.Flags&sam.Duplicate == sam.Duplicate
}

func (r *Record) IsFirstInTemplate() bool {
	return r.Flags&sam.Read1 == sam.Read1
}

func (r *Record) IsLastInTemplate() bool {
	return r.Flags&sam.Read2 == sam.Read2
}

// ReadName returns the query name with a mate suffix, so that both
// mates of a pair stay distinct when deduplicating by name.
func (r *Record) ReadName() string {
	switch {
	case r.IsFirstInTemplate():
		return r.Name + "/1"
	case r.IsLastInTemplate():
		return r.Name + "/2"
	}
	return r.Name
}

// HasValidCigar reports whether the record's CIGAR is consistent with
// its sequence length. Records with an omitted sequence are accepted
// as is.
func (r *Record) HasValidCigar() bool {
	return r.Seq.Length == 0 || r.Cigar.IsValid(r.Seq.Length)
}
