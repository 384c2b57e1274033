// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the goerp CLI.
// It implements subcommands for session management, schema inspection,
// record browsing and dynamic remote calls using the Cobra CLI framework,
// with pterm providing tables and spinners.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"goerp/cli/internal/config"
	"goerp/cli/internal/rpc"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "goerp",
	Short:         "Client CLI for OpenERP-compatible object servers",
	Long:          `goerp talks JSON-RPC to OpenERP-compatible servers: it discovers entity schemas, browses and edits records, and forwards arbitrary remote method calls.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("goerp %s\n", Version)
			cfg, err := config.Load()
			if err == nil && cfg.Server != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				client := rpc.New(cfg.Server, cfg.Database, time.Duration(cfg.TimeoutSeconds)*time.Second)
				serverVersion, err := client.Version(ctx)
				if err != nil {
					serverVersion = "unknown"
				}
				fmt.Printf("server %s\n", serverVersion)
			}
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and server version information")
}
