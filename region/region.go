// Package region provides genomic interval normalization: sorting,
// merging of overlapping intervals and grouping by chromosome.
package region

import (
	"errors"
	"fmt"
	"sort"

	psort "github.com/exascience/pargo/sort"
)

// ErrNoRegions is returned when merging is attempted on an empty
// region list.
var ErrNoRegions = errors.New("region: no regions to merge")

// Region is a 0-based half-open genomic interval [Start, End) on a
// named chromosome.
type Region struct {
	Chrom      string
	Start, End int
}

// String returns the region in chrom:start-end notation.
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Overlaps reports whether the half-open interval [start, end)
// intersects r.
func (r Region) Overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

func less(a, b Region) bool {
	if a.Chrom != b.Chrom {
		return a.Chrom < b.Chrom
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}

// Sort orders regions by (chromosome, start, end) using a stable sort.
func Sort(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return less(regions[i], regions[j])
	})
}

type stableRegionSorter []Region

func (s stableRegionSorter) SequentialSort(i, j int) {
	Sort(s[i:j])
}

func (s stableRegionSorter) NewTemp() psort.StableSorter {
	return stableRegionSorter(make([]Region, len(s)))
}

func (s stableRegionSorter) Len() int {
	return len(s)
}

func (s stableRegionSorter) Less(i, j int) bool {
	return less(s[i], s[j])
}

func (s stableRegionSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableRegionSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// ParallelSort orders regions by (chromosome, start, end) using a
// parallel stable sort.
func ParallelSort(regions []Region) {
	psort.StableSort(stableRegionSorter(regions))
}

// Merge collapses overlapping and touching same-chromosome regions
// into single intervals. The input must be sorted. The result is
// sorted, and consecutive same-chromosome regions satisfy
// next.Start > previous.End. Merge is idempotent on already merged
// input and returns ErrNoRegions on an empty list.
func Merge(sorted []Region) ([]Region, error) {
	if len(sorted) == 0 {
		return nil, ErrNoRegions
	}
	merged := make([]Region, 0, len(sorted))
	acc := sorted[0]
	for _, r := range sorted[1:] {
		if r.Chrom == acc.Chrom && r.Start <= acc.End {
			if r.End > acc.End {
				acc.End = r.End
			}
			continue
		}
		merged = append(merged, acc)
		acc = r
	}
	return append(merged, acc), nil
}

// Group partitions merged regions by chromosome. Every chromosome in
// chroms gets an entry, with an empty list when it has no regions, so
// downstream scans visit all chromosomes uniformly.
func Group(merged []Region, chroms []string) map[string][]Region {
	groups := make(map[string][]Region, len(chroms))
	for _, chrom := range chroms {
		groups[chrom] = nil
	}
	for _, r := range merged {
		groups[r.Chrom] = append(groups[r.Chrom], r)
	}
	return groups
}
