package regioncounter

import (
	"testing"

	htsam "github.com/biogo/hts/sam"

	"github.com/kgori/region-counter/config"
	"github.com/kgori/region-counter/region"
	"github.com/kgori/region-counter/sam"
	"github.com/kgori/region-counter/stats"
)

// sliceSource feeds pre-built records to a scan in slice order.
type sliceSource struct {
	recs []*sam.Record
	i    int
}

func (s *sliceSource) Next() bool {
	if s.i >= len(s.recs) {
		return false
	}
	s.i++
	return true
}

func (s *sliceSource) Record() *sam.Record {
	return s.recs[s.i-1]
}

func (s *sliceSource) Error() error {
	return nil
}

var (
	testFilter = config.Filter{
		MinMapQ:  35,
		Required: htsam.Paired | htsam.ProperPair,
		Filtered: htsam.Secondary | htsam.QCFail | htsam.Supplementary,
	}
	passFlags = htsam.Paired | htsam.ProperPair | htsam.Read1
	chr1, _   = htsam.NewReference("chr1", "", "", 1000, nil, nil)
)

func testRecord(name string, flags htsam.Flags, mapq byte, pos int, ops ...htsam.CigarOp) *sam.Record {
	return sam.NewRecord(&htsam.Record{
		Name:  name,
		Ref:   chr1,
		Flags: flags,
		MapQ:  mapq,
		Pos:   pos,
		Cigar: htsam.Cigar(ops),
	})
}

func match(n int) htsam.CigarOp {
	return htsam.NewCigarOp(htsam.CigarMatch, n)
}

func skip(n int) htsam.CigarOp {
	return htsam.NewCigarOp(htsam.CigarSkipped, n)
}

func TestScanChrom(t *testing.T) {
	regions := []region.Region{{Chrom: "chr1", Start: 100, End: 300}, {Chrom: "chr1", Start: 400, End: 500}}
	src := &sliceSource{recs: []*sam.Record{
		// Overlaps the first region: mapped and exon accepted.
		testRecord("a", passFlags, 60, 250, match(50)),
		// Overlaps but fails the mapping quality floor.
		testRecord("b", passFlags, 10, 251, match(50)),
		// Between regions: mapped only.
		testRecord("c", passFlags, 60, 320, match(50)),
		// Secondary records contribute to no tally.
		testRecord("d", passFlags|htsam.Secondary, 60, 450, match(50)),
	}}
	cs, err := scanChrom("chr1", src, regions, config.NewConfig(testFilter, 1, false))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Mapped != (stats.Tally{Accepted: 2, Rejected: 1}) {
		t.Errorf("(scan) mapped: expected {2 1}, got %v", cs.Mapped)
	}
	if cs.Exon != (stats.Tally{Accepted: 1, Rejected: 1}) {
		t.Errorf("(scan) exon: expected {1 1}, got %v", cs.Exon)
	}
}

func TestScanChromSplicedGap(t *testing.T) {
	// The skipped gap spans the region: aligned blocks cover 50-70 and
	// 300-350, so [100,300) is never touched.
	regions := []region.Region{{Chrom: "chr1", Start: 100, End: 300}}
	src := &sliceSource{recs: []*sam.Record{
		testRecord("a", passFlags, 60, 50, match(20), skip(230), match(50)),
	}}
	cs, err := scanChrom("chr1", src, regions, config.NewConfig(testFilter, 1, false))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Mapped != (stats.Tally{Accepted: 1}) {
		t.Errorf("(spliced) mapped: expected {1 0}, got %v", cs.Mapped)
	}
	if cs.Exon != (stats.Tally{}) {
		t.Errorf("(spliced) exon: expected {0 0}, got %v", cs.Exon)
	}
}

func TestScanChromCountsOncePerRecord(t *testing.T) {
	regions := []region.Region{{Chrom: "chr1", Start: 100, End: 110}, {Chrom: "chr1", Start: 150, End: 160}}
	src := &sliceSource{recs: []*sam.Record{
		// Spans both regions but lands in the exon tally once.
		testRecord("a", passFlags, 60, 90, match(100)),
	}}
	cs, err := scanChrom("chr1", src, regions, config.NewConfig(testFilter, 1, false))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Exon != (stats.Tally{Accepted: 1}) {
		t.Errorf("(once) exon: expected {1 0}, got %v", cs.Exon)
	}
}

func TestScanChromEmptyRegions(t *testing.T) {
	src := &sliceSource{recs: []*sam.Record{
		testRecord("a", passFlags, 60, 250, match(50)),
	}}
	cs, err := scanChrom("chr1", src, nil, config.NewConfig(testFilter, 1, false))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Mapped != (stats.Tally{Accepted: 1}) || cs.Exon != (stats.Tally{}) {
		t.Errorf("(empty regions) expected mapped only, got %v / %v", cs.Mapped, cs.Exon)
	}
}

func TestScanChromUniq(t *testing.T) {
	regions := []region.Region{{Chrom: "chr1", Start: 100, End: 300}}
	src := &sliceSource{recs: []*sam.Record{
		testRecord("a", passFlags, 60, 150, match(50)),
		testRecord("a", passFlags, 60, 200, match(50)),
		testRecord("a", passFlags, 10, 210, match(50)),
	}}
	cs, err := scanChrom("chr1", src, regions, config.NewConfig(testFilter, 1, true))
	if err != nil {
		t.Fatal(err)
	}
	// Accepted tallies deduplicate by read name, rejected ones do not.
	if cs.Mapped != (stats.Tally{Accepted: 1, Rejected: 1}) {
		t.Errorf("(uniq) mapped: expected {1 1}, got %v", cs.Mapped)
	}
	if cs.Exon != (stats.Tally{Accepted: 1, Rejected: 1}) {
		t.Errorf("(uniq) exon: expected {1 1}, got %v", cs.Exon)
	}
}

func TestTallyUnmapped(t *testing.T) {
	derived := testFilter.Unmapped()
	src := &sliceSource{recs: []*sam.Record{
		testRecord("u1", htsam.Paired|htsam.Unmapped|htsam.Read1, 0, -1),
		// Unpaired: the derived policy still requires the paired bit.
		testRecord("u2", htsam.Unmapped, 0, -1),
		// Quality-check failures are excluded outright.
		testRecord("u3", htsam.Paired|htsam.Unmapped|htsam.QCFail, 0, -1),
	}}
	tally, err := tallyUnmapped(src, derived, false)
	if err != nil {
		t.Fatal(err)
	}
	if tally != (stats.Tally{Accepted: 1, Rejected: 1}) {
		t.Errorf("(unmapped) expected {1 1}, got %v", tally)
	}
}

func TestScanSequential(t *testing.T) {
	groups := map[string][]region.Region{
		"chr1": {{Chrom: "chr1", Start: 100, End: 300}},
	}
	idx := region.NewIndex(groups)
	src := &sliceSource{recs: []*sam.Record{
		testRecord("a", passFlags, 60, 250, match(50)),
		testRecord("b", passFlags, 60, 400, match(50)),
		testRecord("u1", htsam.Paired|htsam.Unmapped|htsam.Read1, 0, -1),
	}}
	sum, err := scanSequential(src, idx, config.NewConfig(testFilter, 1, false))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Mapped != (stats.Tally{Accepted: 2}) {
		t.Errorf("(sequential) mapped: expected {2 0}, got %v", sum.Mapped)
	}
	if sum.Exon != (stats.Tally{Accepted: 1}) {
		t.Errorf("(sequential) exon: expected {1 0}, got %v", sum.Exon)
	}
	if sum.Unmapped != (stats.Tally{Accepted: 1}) {
		t.Errorf("(sequential) unmapped: expected {1 0}, got %v", sum.Unmapped)
	}
}
