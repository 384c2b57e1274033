// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"goerp/cli/internal/auth"
	"goerp/cli/internal/config"
)

// whoamiCmd shows the persisted session, if any.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, ok, err := auth.NewService(cfg).WhoAmI(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			pterm.Println("Not logged in. Run: goerp login")
			return nil
		}
		pterm.Printf("Logged in as %s on %s at %s (uid %d)\n", st.Username, st.Database, st.Server, st.UID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
