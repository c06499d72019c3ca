// Package config holds the run configuration and the read accept/reject
// policy.
package config

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Flag policy sets.
const (
	// ExcludeAlways marks records that contribute to no tally,
	// whatever the configured policy says.
	ExcludeAlways = sam.Secondary | sam.Supplementary | sam.QCFail

	// MappingMask covers the flag bits that only carry meaning for
	// mapped records.
	MappingMask = sam.Unmapped | sam.MateUnmapped | sam.ProperPair | sam.Secondary | sam.Supplementary
)

// Filter is the accept/reject policy applied to candidate records.
type Filter struct {
	MinMapQ  byte
	Required sam.Flags
	Filtered sam.Flags
}

// Accept reports whether a record with the given mapping quality and
// flags passes the filter.
func (f Filter) Accept(mapq byte, flags sam.Flags) bool {
	return mapq >= f.MinMapQ &&
		flags&f.Required == f.Required &&
		flags&f.Filtered == 0
}

// Unmapped derives the policy for the unmapped record pass: no mapping
// quality floor, the unmapped bit required instead of proper pairing,
// and mapping-only bits dropped from the exclusion mask.
func (f Filter) Unmapped() Filter {
	return Filter{
		MinMapQ:  0,
		Required: f.Required&^sam.ProperPair | sam.Unmapped,
		Filtered: f.Filtered &^ MappingMask,
	}
}

// Config is the full run configuration, shared read-only by all
// concurrent scans.
type Config struct {
	Filter
	Cpu  int
	Uniq bool
}

// NewConfig creates a Config.
func NewConfig(filter Filter, cpu int, uniq bool) *Config {
	return &Config{filter, cpu, uniq}
}

// Validate reports setup errors in the configuration.
func (c *Config) Validate() error {
	if c.Cpu < 1 {
		return fmt.Errorf("config: cpu count %d out of range", c.Cpu)
	}
	if overlap := c.Required & c.Filtered; overlap != 0 {
		return fmt.Errorf("config: flags %v both required and filtered reject every record", overlap)
	}
	return nil
}
