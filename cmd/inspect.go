// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"goerp/cli/internal/httperrors"
	"goerp/cli/internal/orm"
)

var inspectRefresh bool

// inspectCmd introspects an entity and renders its field schema.
var inspectCmd = &cobra.Command{
	Use:   "inspect <entity>",
	Short: "Show the field schema of an entity",
	Long: `The inspect command discovers the field schema of a remote entity and
renders one row per field: name, kind, label, read-only marker and the
related entity for reference fields.

Schema discovery runs once per entity per invocation; --refresh forces a
fresh introspection instead of the cached one.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, _, err := sessionPool(ctx)
		if err != nil {
			return err
		}
		entity := args[0]
		var model *orm.Model
		err = withSpinner("Introspecting "+entity, func() error {
			var getErr error
			if inspectRefresh {
				model, getErr = pool.GetRefreshed(ctx, entity)
			} else {
				model, getErr = pool.Get(ctx, entity)
			}
			return getErr
		})
		if err != nil {
			return httperrors.FormatNetworkError(err, "introspecting "+entity)
		}

		rows := pterm.TableData{{"Field", "Kind", "Label", "Read-only", "Relation"}}
		for _, name := range model.FieldNames() {
			f, _ := model.Schema().Field(name)
			readOnly := ""
			if f.ReadOnly {
				readOnly = "yes"
			}
			rows = append(rows, []string{f.Name, f.Kind.String(), f.Label, readOnly, f.Relation})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectRefresh, "refresh", false, "Force fresh schema introspection")
}
