// Package annotation reads exon regions from BED or GTF files, with
// transparent gzip and bzip2 decompression.
package annotation

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strconv"

	"github.com/kgori/region-counter/region"
)

// Format of an annotation stream.
type Format int

const (
	UNDEF Format = iota - 1
	BED
	GTF
)

// String returns the string representation of a Format.
func (f Format) String() string {
	switch f {
	case BED:
		return "BED"
	case GTF:
		return "GTF"
	default:
		return "UNKNOWN"
	}
}

const peekLen = 4096

// Reader reads exon regions from an annotation stream, one per call.
type Reader struct {
	r      *bufio.Reader
	format Format
	line   int
}

// NewReader wraps r, decompressing gzip or bzip2 input and sniffing the
// annotation format from the first data line.
func NewReader(r io.Reader) (*Reader, error) {
	br, err := buffReader(r)
	if err != nil {
		return nil, err
	}
	format, err := scanFormat(br)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br, format: format}, nil
}

// Format returns the detected annotation format.
func (r *Reader) Format() Format {
	return r.format
}

// checkBytes peeks at a buffered stream and reports whether the first
// bytes match buf.
func checkBytes(b *bufio.Reader, buf []byte) (bool, error) {
	m, err := b.Peek(len(buf))
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(m, buf), nil
}

func buffReader(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReader(r)
	if isGz, err := checkBytes(br, []byte{0x1f, 0x8b}); err != nil {
		return nil, err
	} else if isGz {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(gz), nil
	}
	if isBz, err := checkBytes(br, []byte{0x42, 0x5a}); err != nil {
		return nil, err
	} else if isBz {
		return bufio.NewReader(bzip2.NewReader(br)), nil
	}
	return br, nil
}

func scanFormat(r *bufio.Reader) (Format, error) {
	b, err := r.Peek(peekLen)
	if err != nil && err != io.EOF {
		return UNDEF, err
	}
	for _, line := range bytes.Split(b, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if c := bytes.Count(line, []byte{'\t'}); c >= 8 {
			return GTF, nil
		} else if c >= 2 {
			return BED, nil
		}
		return UNDEF, fmt.Errorf("annotation: unrecognized format")
	}
	return UNDEF, fmt.Errorf("annotation: no data lines found")
}

// Read returns the next exon region, or io.EOF when the stream is
// exhausted. Comment and blank lines are skipped; in GTF input only
// rows whose feature column is "exon" are returned, converted from
// 1-based inclusive to 0-based half-open coordinates.
func (r *Reader) Read() (region.Region, error) {
	for {
		line, err := r.r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) == 0 {
			if err != nil {
				return region.Region{}, err
			}
			r.line++
			continue
		}
		r.line++
		trimmed := bytes.TrimSpace(line)
		if trimmed[0] == '#' {
			if err != nil {
				return region.Region{}, io.EOF
			}
			continue
		}
		reg, ok, perr := r.parse(trimmed)
		if perr != nil {
			return region.Region{}, fmt.Errorf("annotation: line %d: %w", r.line, perr)
		}
		if !ok {
			if err != nil {
				return region.Region{}, io.EOF
			}
			continue
		}
		return reg, nil
	}
}

func (r *Reader) parse(line []byte) (region.Region, bool, error) {
	fields := bytes.Split(line, []byte{'\t'})
	switch r.format {
	case BED:
		if len(fields) < 3 {
			return region.Region{}, false, fmt.Errorf("BED row with %d fields", len(fields))
		}
		start, end, err := parseInterval(fields[1], fields[2])
		if err != nil {
			return region.Region{}, false, err
		}
		return region.Region{Chrom: string(fields[0]), Start: start, End: end}, true, nil
	case GTF:
		if len(fields) < 9 {
			return region.Region{}, false, fmt.Errorf("GTF row with %d fields", len(fields))
		}
		if !bytes.Equal(fields[2], []byte("exon")) {
			return region.Region{}, false, nil
		}
		start, end, err := parseInterval(fields[3], fields[4])
		if err != nil {
			return region.Region{}, false, err
		}
		// GTF coordinates are 1-based inclusive.
		return region.Region{Chrom: string(fields[0]), Start: start - 1, End: end}, true, nil
	}
	return region.Region{}, false, fmt.Errorf("unsupported format %s", r.format)
}

func parseInterval(b, e []byte) (start, end int, err error) {
	start, err = strconv.Atoi(string(b))
	if err != nil {
		return
	}
	end, err = strconv.Atoi(string(e))
	if err != nil {
		return
	}
	if end < start {
		err = fmt.Errorf("inverted interval %d-%d", start, end)
	}
	return
}
