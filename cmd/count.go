// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// countCmd reports the number of records of an entity.
var countCmd = &cobra.Command{
	Use:   "count <entity>",
	Short: "Count the records of an entity",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, _, err := sessionPool(ctx)
		if err != nil {
			return err
		}
		model, err := pool.Get(ctx, args[0])
		if err != nil {
			return err
		}
		n, err := model.Count(ctx)
		if err != nil {
			return err
		}
		pterm.Printf("%s: %d records\n", model.Name(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
