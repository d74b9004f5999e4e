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
	flagFormat string
	flagByTask bool
	flagStats  bool
	flagCopy   bool
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run-dir]",
		Short: "Summarize a result set across tasks and configurations",
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
			if flagStats {
				reduce = report.NewStatsSummarizer(opts)
			}

			if flagByTask {
				pivot, err := report.Report2D(t, reduce, 1)
				if err != nil {
					return err
				}
				return export.WritePivot(pivot, "avg_reward", flagFormat, os.Stdout)
			}

			rep, err := report.GlobalReport(t, reduce, nil)
			if err != nil {
				return err
			}
			if flagCopy {
				export.CopyTSV(rep, os.Stderr)
			}
			return export.WriteReport(rep, flagFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json, tsv)")
	cmd.Flags().BoolVar(&flagByTask, "by-task", false, "2D per-task by configuration breakdown")
	cmd.Flags().BoolVar(&flagStats, "stats", false, "aggregate stats.* columns instead of rewards")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "also copy the report to the clipboard as TSV")
	return cmd
}
