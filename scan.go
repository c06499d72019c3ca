package regioncounter

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/kgori/region-counter/config"
	"github.com/kgori/region-counter/region"
	"github.com/kgori/region-counter/sam"
	"github.com/kgori/region-counter/stats"
)

// RecordSource yields alignment records in file order.
type RecordSource interface {
	Next() bool
	Record() *sam.Record
	Error() error
}

// countInto bumps t for one classified record. With a non-nil seen set
// (name-deduplicated mode) accepted counts cover distinct read names,
// while rejected counts stay per record.
func countInto(t *stats.Tally, accepted bool, seen map[string]struct{}, name string) {
	if !accepted {
		t.Rejected++
		return
	}
	if seen != nil {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
	}
	t.Accepted++
}

// scanChrom streams one chromosome's records against its merged region
// list. Records arrive in non-decreasing position order, so the region
// cursor only moves forward and every region is passed at most once
// over the whole scan.
func scanChrom(chrom string, src RecordSource, regions []region.Region, cfg *config.Config) (*stats.CountStats, error) {
	logger := log.WithField("chromosome", chrom)
	logger.Debug("Scanning")
	cs := stats.NewCountStats(log.GetLevel() == log.DebugLevel)
	var seenMapped, seenExon map[string]struct{}
	if cfg.Uniq {
		seenMapped = make(map[string]struct{})
		seenExon = make(map[string]struct{})
	}
	cursor := 0
	for src.Next() {
		rec := src.Record()
		if rec.Flags&config.ExcludeAlways != 0 {
			continue
		}
		if !rec.HasValidCigar() {
			logger.WithField("record", rec.Name).Warn("skipping record with inconsistent CIGAR")
			continue
		}
		var name string
		if cfg.Uniq || cs.Names != nil {
			name = rec.ReadName()
		}
		if cs.Names != nil {
			cs.Names.Add(name)
		}
		accepted := cfg.Accept(rec.MapQ, rec.Flags)
		countInto(&cs.Mapped, accepted, seenMapped, name)

		for cursor < len(regions) && regions[cursor].End <= rec.Pos {
			cursor++
		}
		refEnd := rec.ReferenceEnd()
		for i := cursor; i < len(regions); i++ {
			if regions[i].Start > refEnd {
				break
			}
			if rec.OverlapsInterval(regions[i].Start, regions[i].End) {
				// A record lands in the exon tally at most once,
				// however many regions it touches.
				countInto(&cs.Exon, accepted, seenExon, name)
				break
			}
		}
	}
	if err := src.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", chrom, err)
	}
	return cs, nil
}

// tallyUnmapped counts the records of the unmapped partition against
// the derived unmapped policy.
func tallyUnmapped(src RecordSource, filt config.Filter, uniq bool) (stats.Tally, error) {
	var t stats.Tally
	var seen map[string]struct{}
	if uniq {
		seen = make(map[string]struct{})
	}
	for src.Next() {
		rec := src.Record()
		if rec.Flags&config.ExcludeAlways != 0 {
			continue
		}
		var name string
		if uniq {
			name = rec.ReadName()
		}
		countInto(&t, filt.Accept(rec.MapQ, rec.Flags), seen, name)
	}
	if err := src.Error(); err != nil {
		return t, fmt.Errorf("unmapped: %w", err)
	}
	return t, nil
}

// scanSequential is the no-index path: a single pass over the whole
// file, resolving exon overlap through the R-tree index and folding
// the unmapped tally into the same sweep.
func scanSequential(src RecordSource, idx region.Index, cfg *config.Config) (*stats.Summary, error) {
	sum := &stats.Summary{}
	unmappedFilt := cfg.Filter.Unmapped()
	var seenMapped, seenExon, seenUnmapped map[string]struct{}
	if cfg.Uniq {
		seenMapped = make(map[string]struct{})
		seenExon = make(map[string]struct{})
		seenUnmapped = make(map[string]struct{})
	}
	var card *stats.Cardinality
	if log.GetLevel() == log.DebugLevel {
		card = stats.NewCardinality()
	}
	for src.Next() {
		rec := src.Record()
		if rec.Flags&config.ExcludeAlways != 0 {
			continue
		}
		var name string
		if cfg.Uniq || card != nil {
			name = rec.ReadName()
		}
		if rec.IsUnmapped() {
			countInto(&sum.Unmapped, unmappedFilt.Accept(rec.MapQ, rec.Flags), seenUnmapped, name)
			continue
		}
		if !rec.HasValidCigar() {
			log.WithField("record", rec.Name).Warn("skipping record with inconsistent CIGAR")
			continue
		}
		if card != nil {
			card.Add(name)
		}
		accepted := cfg.Accept(rec.MapQ, rec.Flags)
		countInto(&sum.Mapped, accepted, seenMapped, name)
		for _, reg := range idx.Query(rec.Ref.Name(), rec.Pos, rec.ReferenceEnd()) {
			if rec.OverlapsInterval(reg.Start, reg.End) {
				countInto(&sum.Exon, accepted, seenExon, name)
				break
			}
		}
	}
	if err := src.Error(); err != nil {
		return nil, err
	}
	if card != nil {
		log.Debugf("Approximately %d distinct mapped read names", card.Estimate())
	}
	return sum, nil
}
