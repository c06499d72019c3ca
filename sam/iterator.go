package sam

import (
	"io"

	"github.com/biogo/hts/bam"
)

// Iterator yields one chromosome's records in coordinate order. A nil
// underlying iterator behaves as an empty source.
type Iterator struct {
	it    *bam.Iterator
	br    *bam.Reader
	chrom string
	rec   *Record
}

// Next advances to the next record, reporting false at the end of the
// chromosome's chunks.
func (i *Iterator) Next() bool {
	if i.it == nil || !i.it.Next() {
		return false
	}
	i.rec = NewRecord(i.it.Record())
	return true
}

// Record returns the current record.
func (i *Iterator) Record() *Record {
	return i.rec
}

// Chrom returns the chromosome this iterator is restricted to.
func (i *Iterator) Chrom() string {
	return i.chrom
}

// Error returns the first non-EOF error encountered by the iterator.
func (i *Iterator) Error() error {
	if i.it == nil {
		return nil
	}
	return i.it.Error()
}

// Close releases the iterator and its file handle.
func (i *Iterator) Close() error {
	if i.it == nil {
		return nil
	}
	err := i.it.Close()
	if cerr := i.br.Close(); err == nil {
		err = cerr
	}
	return err
}

// SeqIter yields every record of a BAM file in file order.
type SeqIter struct {
	br  *bam.Reader
	rec *Record
	err error
}

// Next advances to the next record, reporting false at end of file or
// on a read error.
func (i *SeqIter) Next() bool {
	rec, err := i.br.Read()
	if err != nil {
		if err != io.EOF {
			i.err = err
		}
		return false
	}
	i.rec = NewRecord(rec)
	return true
}

// Record returns the current record.
func (i *SeqIter) Record() *Record {
	return i.rec
}

// Error returns the first non-EOF error encountered by the iterator.
func (i *SeqIter) Error() error {
	return i.err
}

// Close releases the underlying reader.
func (i *SeqIter) Close() error {
	return i.br.Close()
}

// UnmappedIter restricts a sequential pass to records carrying the
// unmapped flag.
type UnmappedIter struct {
	*SeqIter
}

// Next advances to the next unmapped record.
func (i *UnmappedIter) Next() bool {
	for i.SeqIter.Next() {
		if i.Record().IsUnmapped() {
			return true
		}
	}
	return false
}
