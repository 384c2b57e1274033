// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var callKwargs string

// callCmd forwards an arbitrary remote method call to an entity.
var callCmd = &cobra.Command{
	Use:   "call <entity> <method> [json-arg]...",
	Short: "Call an arbitrary remote method on an entity",
	Long: `The call command forwards any remote method to the server. Positional
arguments are given as JSON values; keyword arguments as a single JSON
object via --kwargs. Keyword arguments are rejected when the client runs
in compatibility mode, since the older calling convention does not
support them.

Example:
  goerp call res.partner name_search '"Acme"'
  goerp call res.partner search '[["is_company","=",true]]' --kwargs '{"limit": 5}'`,
	Args: cobra.MinimumNArgs(2),

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
		callArgs := make([]any, 0, len(args)-2)
		for _, raw := range args[2:] {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return fmt.Errorf("argument %q is not valid JSON: %w", raw, err)
			}
			callArgs = append(callArgs, v)
		}
		var kwargs map[string]any
		if callKwargs != "" {
			if err := json.Unmarshal([]byte(callKwargs), &kwargs); err != nil {
				return fmt.Errorf("--kwargs is not a valid JSON object: %w", err)
			}
		}
		result, err := model.Invoke(ctx, args[1], callArgs, kwargs)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		pterm.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callKwargs, "kwargs", "", "Keyword arguments as a JSON object")
}
