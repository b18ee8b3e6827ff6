package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
)

func newCitiesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List supported assessment locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := assessment.Cities()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			rows := make([][]string, 0, len(list))
			for _, c := range list {
				rows = append(rows, []string{c.Name, c.LocalName})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"City", "Local Name"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
