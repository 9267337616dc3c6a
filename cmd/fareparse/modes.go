package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/airfare/internal/models"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the supported query modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range models.QueryModes {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), m); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
