// Package regioncounter counts alignment records falling inside
// annotated exon regions, broken down by an accept/reject filter
// policy.
package regioncounter

import (
	"sync"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kgori/region-counter/annotation"
	"github.com/kgori/region-counter/config"
	"github.com/kgori/region-counter/region"
	"github.com/kgori/region-counter/sam"
	"github.com/kgori/region-counter/stats"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

type job struct {
	chrom   string
	regions []region.Region
}

func worker(id int, jobs chan job, out chan *stats.CountStats, fail func(error), br *sam.Reader, cfg *config.Config, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := log.WithFields(log.Fields{
		"worker": id,
	})
	logger.Debug("Starting")
	for j := range jobs {
		it, err := br.ChromIter(j.chrom)
		if err != nil {
			fail(err)
			continue
		}
		cs, err := scanChrom(j.chrom, it, j.regions, cfg)
		if cerr := it.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fail(err)
			continue
		}
		out <- cs
	}
	logger.Debug("Done")
}

// countMapped fans per-chromosome scans out over a bounded worker pool
// and reduces the results. Each worker opens its own read handle per
// chromosome; no cursor is ever shared. The first error observed
// aborts the aggregation and already finished tallies are discarded.
func countMapped(br *sam.Reader, groups map[string][]region.Region, chroms []string, cfg *config.Config) (*stats.CountStats, error) {
	workers := cfg.Cpu
	if workers > len(chroms) {
		log.WithFields(log.Fields{
			"chromosomes": len(chroms),
		}).Warnf("Limiting the number of workers to the number of chromosomes")
		workers = len(chroms)
	}

	jobs := make(chan job)
	out := make(chan *stats.CountStats, len(chroms))
	errc := make(chan error, len(chroms))
	done := make(chan struct{})
	var once sync.Once
	fail := func(err error) {
		errc <- err
		once.Do(func() { close(done) })
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		id := i + 1
		wg.Add(1)
		go worker(id, jobs, out, fail, br, cfg, &wg)
	}
	go func() {
		defer close(jobs)
		for _, chrom := range chroms {
			select {
			case jobs <- job{chrom, groups[chrom]}:
			case <-done:
				return
			}
		}
	}()
	wg.Wait()
	close(out)
	close(errc)

	if err := <-errc; err != nil {
		return nil, err
	}
	total := stats.NewCountStats(log.GetLevel() == log.DebugLevel)
	total.Merge(out)
	return total, nil
}

func runParallel(br *sam.Reader, groups map[string][]region.Region, chroms []string, cfg *config.Config) (*stats.Summary, error) {
	var (
		mapped     *stats.CountStats
		unmapped   stats.Tally
		merr, uerr error
	)
	// The unmapped tally has no data dependency on the chromosome
	// aggregation, so both run concurrently.
	parallel.Do(
		func() {
			mapped, merr = countMapped(br, groups, chroms, cfg)
		},
		func() {
			src, err := br.UnmappedIter()
			if err != nil {
				uerr = err
				return
			}
			defer src.Close()
			unmapped, uerr = tallyUnmapped(src, cfg.Filter.Unmapped(), cfg.Uniq)
		},
	)
	if merr != nil {
		return nil, merr
	}
	if uerr != nil {
		return nil, uerr
	}
	if mapped.Names != nil {
		log.Debugf("Approximately %d distinct mapped read names", mapped.Names.Estimate())
	}
	return &stats.Summary{
		Mapped:   mapped.Mapped,
		Exon:     mapped.Exon,
		Unmapped: unmapped,
	}, nil
}

func runSequential(br *sam.Reader, groups map[string][]region.Region, cfg *config.Config) (*stats.Summary, error) {
	src, err := br.SeqIter()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return scanSequential(src, region.NewIndex(groups), cfg)
}

// Process reads exon regions from annoFile, normalizes them and counts
// the records of bamFile into mapped, exon and unmapped tallies.
func Process(bamFile, annoFile string, cfg *config.Config) (*stats.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.WithField("run", uuid.New().String())

	br, err := sam.NewReader(bamFile, cfg.Cpu)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	logger.Infof("Reading annotation %s", annoFile)
	start := time.Now()
	raw, err := annotation.LoadRegions(annoFile)
	if err != nil {
		return nil, err
	}
	region.ParallelSort(raw)
	merged, err := region.Merge(raw)
	if err != nil {
		return nil, err
	}
	chroms := br.Chroms()
	groups := region.Group(merged, chroms)
	logger.Infof("Normalized %d regions on %d chromosomes in %v", len(merged), len(chroms), time.Since(start))

	start = time.Now()
	logger.Infof("Counting records for %s", bamFile)
	var summary *stats.Summary
	if br.Index == nil {
		logger.Warnf("No index found for %s, falling back to a sequential scan", bamFile)
		summary, err = runSequential(br, groups, cfg)
	} else {
		summary, err = runParallel(br, groups, chroms, cfg)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("Counting done in %v", time.Since(start))
	return summary, nil
}
