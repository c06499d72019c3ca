package region

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	log "github.com/sirupsen/logrus"
)

// Index holds a per-chromosome R-tree over merged regions. It backs
// the sequential scan used when the alignment file has no index and
// records cannot be fetched one chromosome at a time.
type Index map[string]*rtreego.Rtree

type item struct {
	rect *rtreego.Rect
	reg  Region
}

func (i *item) Bounds() *rtreego.Rect {
	return i.rect
}

// NewIndex builds an Index from grouped, merged regions. Zero-length
// regions are skipped: an empty half-open interval cannot overlap
// anything.
func NewIndex(groups map[string][]Region) Index {
	idx := make(Index, len(groups))
	for chrom, regions := range groups {
		var items []rtreego.Spatial
		for _, r := range regions {
			if r.End == r.Start {
				continue
			}
			rect, err := rtreego.NewRect(rtreego.Point{float64(r.Start)}, []float64{float64(r.End - r.Start)})
			if err != nil {
				log.Panic(err)
			}
			items = append(items, &item{rect, r})
		}
		idx[chrom] = rtreego.NewTree(1, 25, 50, items...)
	}
	return idx
}

// Query returns the regions on chrom intersecting [start, end), sorted
// by start position.
func (idx Index) Query(chrom string, start, end int) []Region {
	t, ok := idx[chrom]
	if !ok || end <= start {
		return nil
	}
	bb, err := rtreego.NewRect(rtreego.Point{float64(start)}, []float64{float64(end - start)})
	if err != nil {
		return nil
	}
	var out []Region
	for _, s := range t.SearchIntersect(bb) {
		reg := s.(*item).reg
		if reg.Overlaps(start, end) {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
