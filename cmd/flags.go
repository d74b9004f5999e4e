package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/export"
	"github.com/signalnine/scorecard/internal/report"
)

var (
	flagMetric      string
	flagFlagsFormat string
)

func newFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags [run-dir]",
		Short: "Compare a metric between true and false values of each boolean flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			runDir, err := resolveRunDir(opts, args)
			if err != nil {
				return err
			}
			t, err := loadIndexed(opts, runDir)
			if err != nil {
				return err
			}
			if t == nil {
				fmt.Fprintln(os.Stderr, "no results found")
				return nil
			}

			rep, err := report.GlobalReport(t, report.NewSummarizer(opts, newRNG(opts)), nil)
			if err != nil {
				return err
			}
			flagRep := report.FlagReport(rep, flagMetric, opts.Report.FlagRoundDigits)
			if flagRep == nil {
				return nil
			}
			return export.WriteReport(flagRep, flagFlagsFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagMetric, "metric", "avg_reward", "summary field to compare")
	cmd.Flags().StringVar(&flagFlagsFormat, "format", "table", "output format (table, markdown, json, tsv)")
	return cmd
}
