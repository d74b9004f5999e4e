package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/table"
)

var flagStackTraces bool

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [run-dir]",
		Short: "List run directories, or describe one run's columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				entries, err := os.ReadDir(opts.Results.Dir)
				if err != nil {
					return fmt.Errorf("reading results dir: %w", err)
				}
				var names []string
				for _, e := range entries {
					if e.IsDir() && len(e.Name()) > 0 && e.Name()[0] != '_' {
						names = append(names, e.Name())
					}
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			t, err := loadIndexed(opts, args[0])
			if err != nil {
				return err
			}
			if t == nil {
				fmt.Fprintln(os.Stderr, "no results found")
				return nil
			}
			table.Describe(os.Stdout, t, flagStackTraces)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagStackTraces, "stack-traces", false, "include the stack_trace column in the description")
	return cmd
}
