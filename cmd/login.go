// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"goerp/cli/internal/auth"
	"goerp/cli/internal/config"
	"goerp/cli/internal/httperrors"
)

var (
	loginServer   string
	loginDatabase string
	loginUsername string
)

// loginCmd authenticates against the object server and stores the session.
// The password goes to the OS keychain; server, database and username are
// persisted in the config file when passed as flags.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate against the object server",
	Long: `The login command opens a session against the configured object server.
It prompts for the password, verifies the credentials with the server's
authentication call, and stores the password in the OS keychain so later
commands can reopen the session without prompting.

Server, database and username can be set once via flags and are persisted
in the config file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		changed := false
		if loginServer != "" {
			cfg.Server = loginServer
			changed = true
		}
		if loginDatabase != "" {
			cfg.Database = loginDatabase
			changed = true
		}
		if loginUsername != "" {
			cfg.Username = loginUsername
			changed = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
		}

		password, err := pterm.DefaultInteractiveTextInput.
			WithMask("*").
			Show(fmt.Sprintf("Password for %s@%s", cfg.Username, cfg.Database))
		if err != nil {
			return err
		}

		svc := auth.NewService(cfg)
		var st auth.State
		err = withSpinner("Authenticating", func() error {
			var loginErr error
			st, loginErr = svc.Login(ctx, password)
			return loginErr
		})
		if err != nil {
			return httperrors.FormatNetworkError(err, "logging in")
		}
		pterm.Success.Printf("Logged in as %s on %s (uid %d)\n", st.Username, st.Database, st.UID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginServer, "server", "", "Object server root URL (e.g. https://erp.example.com)")
	loginCmd.Flags().StringVar(&loginDatabase, "database", "", "Server-side database name")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Login user")
}
