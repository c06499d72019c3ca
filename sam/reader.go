// Package sam wraps BAM access for the counting passes: header
// chromosome enumeration, per-chromosome iteration through the BAI
// index and sequential iteration for the unmapped partition.
package sam

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
)

// Reader wraps a BAM reader together with its BAI companion, when one
// exists next to the file.
type Reader struct {
	*bam.Reader
	FileName string
	Index    *bam.Index
	rd       int
}

// NewReader opens a BAM file and its BAI index. A missing index is not
// an error; Index stays nil and only sequential access is available.
func NewReader(bamFile string, rd int) (*Reader, error) {
	br, err := newBamReader(bamFile, rd)
	if err != nil {
		return nil, err
	}
	idx, err := readIndex(bamFile)
	if err != nil {
		return nil, err
	}
	return &Reader{br, bamFile, idx, rd}, nil
}

func newBamReader(bamFile string, rd int) (*bam.Reader, error) {
	f, err := os.Open(bamFile)
	if err != nil {
		return nil, err
	}
	return bam.NewReader(f, rd)
}

func readIndex(bamFile string) (*bam.Index, error) {
	f, err := os.Open(bamFile + ".bai")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return bam.ReadIndex(f)
}

// Chroms returns the reference names declared in the header, in header
// order.
func (r *Reader) Chroms() []string {
	refs := r.Header().Refs()
	chroms := make([]string, len(refs))
	for i, ref := range refs {
		chroms[i] = ref.Name()
	}
	return chroms
}

func (r *Reader) ref(chrom string) (*sam.Reference, bool) {
	for _, ref := range r.Header().Refs() {
		if ref.Name() == chrom {
			return ref, true
		}
	}
	return nil, false
}

// ChromIter opens an iterator over one chromosome's coordinate-sorted
// records. Every call opens its own file handle, so concurrent
// iterators never share a read cursor.
func (r *Reader) ChromIter(chrom string) (*Iterator, error) {
	if r.Index == nil {
		return nil, fmt.Errorf("%s: no BAM index for random access", r.FileName)
	}
	ref, ok := r.ref(chrom)
	if !ok {
		return nil, fmt.Errorf("%s: chromosome %s not declared in header", r.FileName, chrom)
	}
	chunks, err := r.Index.Chunks(ref, 0, ref.Len())
	if err != nil {
		if err == index.ErrInvalid || err == io.EOF {
			// No reads on this chromosome.
			return &Iterator{chrom: chrom}, nil
		}
		return nil, fmt.Errorf("%s: %w", chrom, err)
	}
	br, err := newBamReader(r.FileName, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chrom, err)
	}
	it, err := bam.NewIterator(br, chunks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chrom, err)
	}
	return &Iterator{it: it, br: br, chrom: chrom}, nil
}

// SeqIter opens a sequential iterator over every record in file order,
// using its own file handle.
func (r *Reader) SeqIter() (*SeqIter, error) {
	br, err := newBamReader(r.FileName, r.rd)
	if err != nil {
		return nil, err
	}
	return &SeqIter{br: br}, nil
}

// UnmappedIter opens a sequential iterator restricted to records
// carrying the unmapped flag.
func (r *Reader) UnmappedIter() (*UnmappedIter, error) {
	it, err := r.SeqIter()
	if err != nil {
		return nil, err
	}
	return &UnmappedIter{it}, nil
}
