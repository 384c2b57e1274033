// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"goerp/cli/internal/logging"
	"goerp/cli/internal/orm"
)

// browseCmd fetches records by id and renders their field values.
var browseCmd = &cobra.Command{
	Use:   "browse <entity> <id>...",
	Short: "Fetch records by id and show their field values",
	Long: `The browse command loads one or more records of an entity and renders
their field values, one table per record. Each record is fetched with its
own remote read, performed as that record is reached.`,
	Args: cobra.MinimumNArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, _, err := sessionPool(ctx)
		if err != nil {
			return err
		}
		entity := args[0]
		ids := make([]int64, 0, len(args)-1)
		for _, raw := range args[1:] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", raw)
			}
			ids = append(ids, id)
		}
		model, err := pool.Get(ctx, entity)
		if err != nil {
			return err
		}
		for rec, err := range model.BrowseMany(ctx, ids) {
			if err != nil {
				pterm.Error.Println(logging.PresentError("fetching record", err))
				continue
			}
			renderRecord(model, rec)
		}
		return nil
	},
}

// renderRecord prints one record as a field/value table.
func renderRecord(model *orm.Model, rec *orm.Record) {
	pterm.DefaultSection.Printf("%s #%d", model.Name(), rec.ID())
	rows := pterm.TableData{{"Field", "Value"}}
	for _, name := range model.FieldNames() {
		value, err := rec.Get(name)
		if err != nil {
			continue
		}
		rows = append(rows, []string{name, renderValue(value)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
