package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/export"
	"github.com/signalnine/scorecard/internal/report"
	"github.com/signalnine/scorecard/internal/result"
)

var (
	flagProgression    bool
	flagAblationFormat string
)

func newAblationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ablation [run-dir]",
		Short: "Report an ablation study ordered by launch order",
		Long: "Builds the global report, orders rows by each configuration's declared\n" +
			"launch order, and annotates every row with the configuration fields that\n" +
			"changed relative to the baseline (or the previous row with --progression).",
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

			reduce := report.NewSummarizer(opts, newRNG(opts))
			rep, err := report.AblationReport(t, reduce, flagProgression, result.Orders{})
			if err != nil {
				return err
			}
			return export.WriteReport(rep, flagAblationFormat, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&flagProgression, "progression", false, "diff each row against the previous row instead of the baseline")
	cmd.Flags().StringVar(&flagAblationFormat, "format", "table", "output format (table, markdown, json, tsv)")
	return cmd
}
