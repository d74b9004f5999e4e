package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/errtax"
)

var (
	flagDetailed      bool
	flagChronological bool
	flagMaxTraces     int
)

func newErrorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors [run-dir]",
		Short: "Report errors grouped, categorized, or chronologically",
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

			maxTraces := flagMaxTraces
			if !cmd.Flags().Changed("max-traces") {
				maxTraces = opts.Report.MaxStackTraces
			}

			switch {
			case flagChronological:
				runs := errtax.ChronologicalRuns(t, errtax.Default())
				errtax.PrintChronological(os.Stdout, runs)
			case flagDetailed:
				fmt.Fprint(os.Stdout, errtax.DetailedReport(t, errtax.Default(), maxTraces))
			default:
				fmt.Fprint(os.Stdout, errtax.ErrorReport(t, maxTraces))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagDetailed, "detailed", false, "group by error category, then message")
	cmd.Flags().BoolVar(&flagChronological, "chronological", false, "print error-category runs in experiment order")
	cmd.Flags().IntVar(&flagMaxTraces, "max-traces", 10, "stack traces shown per group")
	return cmd
}
