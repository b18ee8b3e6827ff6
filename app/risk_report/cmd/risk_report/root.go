package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "risk_report",
		Short:         "Production risk assessment report renderer",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newCitiesCommand())

	return rootCmd
}
