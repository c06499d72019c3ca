package annotation

import (
	"fmt"
	"os"

	"github.com/kgori/region-counter/region"
)

// LoadRegions reads every exon region from an annotation file. The
// file may be plain text or gzip/bzip2 compressed, in BED or GTF
// format. The returned regions are raw: unsorted and unmerged.
func LoadRegions(annoFile string) ([]region.Region, error) {
	f, err := os.Open(annoFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc, err := NewScanner(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annoFile, err)
	}
	var regions []region.Region
	for sc.Next() {
		regions = append(regions, sc.Region())
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", annoFile, err)
	}
	return regions, nil
}
