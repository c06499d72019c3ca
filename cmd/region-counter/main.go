package main

import (
	"fmt"
	"runtime"

	"github.com/biogo/hts/sam"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	regioncounter "github.com/kgori/region-counter"
	"github.com/kgori/region-counter/config"
	"github.com/kgori/region-counter/utils"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	bamFile, annoFile, loglevel, output string
	minMapQ, requiredFlag, filteredFlag int
	cpu                                 int
	uniq, profiling                     bool
)

func run(cmd *cobra.Command, args []string) (err error) {
	// Set loglevel
	level, err := log.ParseLevel(loglevel)
	if err != nil {
		return
	}
	log.SetLevel(level)
	if profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	logger := log.WithFields(log.Fields{
		"version":   version,
		"commit":    commit,
		"buildTime": date,
	})
	logger.Infof("Running %s", cmd.Use)
	log.Infof("Using %v out of %v logical CPUs", cpu, runtime.NumCPU())

	if minMapQ < 0 || minMapQ > 255 {
		return fmt.Errorf("min-mapq %d out of range 0-255", minMapQ)
	}
	if requiredFlag < 0 || requiredFlag > 0xffff || filteredFlag < 0 || filteredFlag > 0xffff {
		return fmt.Errorf("flag masks must fit 16 bits")
	}
	filter := config.Filter{
		MinMapQ:  byte(minMapQ),
		Required: sam.Flags(requiredFlag),
		Filtered: sam.Flags(filteredFlag),
	}
	summary, err := regioncounter.Process(bamFile, annoFile, config.NewConfig(filter, cpu, uniq))
	if err != nil {
		return
	}

	w := utils.NewWriter(output)
	return utils.OutputJSON(w, summary)
}

func setFlags(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&bamFile, "input", "i", "", "input BAM file (required)")
	c.PersistentFlags().StringVarP(&annoFile, "annotation", "a", "", "exon annotation file, BED or GTF (required)")
	c.PersistentFlags().IntVarP(&minMapQ, "min-mapq", "q", 35, "minimum mapping quality of counted records")
	c.PersistentFlags().IntVarP(&requiredFlag, "required-flag", "f", 3, "flag bits a record must carry to be accepted")
	c.PersistentFlags().IntVarP(&filteredFlag, "filtered-flag", "F", 2816, "flag bits a record must not carry to be accepted")
	c.PersistentFlags().StringVarP(&loglevel, "loglevel", "", "warn", "logging level")
	c.PersistentFlags().StringVarP(&output, "output", "o", "-", "output file")
	c.PersistentFlags().IntVarP(&cpu, "cpu", "c", runtime.NumCPU(), "number of cpus to be used")
	c.PersistentFlags().BoolVarP(&uniq, "uniq", "u", false, "count distinct read names instead of records in accepted tallies")
	c.PersistentFlags().BoolVarP(&profiling, "profile", "", false, "write a CPU profile to the working directory")
	c.MarkPersistentFlagRequired("input")
	c.MarkPersistentFlagRequired("annotation")

	c.SetVersionTemplate(`{{with .Name}}{{printf "== %s ==\n" .}}{{end}}{{printf "%s\n" .Version}}`)
}

func buildVersion(version, commit, date string) string {
	var result = fmt.Sprintf("version: %s", version)
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	return result
}

func main() {
	var rootCmd = &cobra.Command{
		Use:     "region-counter",
		Short:   "Exon region read counts",
		Long:    "region-counter - count reads overlapping annotated exon regions",
		RunE:    run,
		Version: buildVersion(version, commit, date),
	}

	setFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Debug(err)
	}
}
