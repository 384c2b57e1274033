// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"goerp/cli/internal/auth"
	"goerp/cli/internal/config"
)

// logoutCmd clears the stored session and password.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session and password",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := auth.NewService(cfg).Logout(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
