package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scorecard",
		Short: "Analyze results of agent experiment batches",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "scorecard.yaml", "config file path")
	root.AddCommand(newReportCmd())
	root.AddCommand(newAblationCmd())
	root.AddCommand(newErrorsCmd())
	root.AddCommand(newFlagsCmd())
	root.AddCommand(newListCmd())
	return root
}
