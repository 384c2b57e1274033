// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/pterm/pterm"

	"goerp/cli/internal/auth"
	"goerp/cli/internal/config"
	"goerp/cli/internal/orm"
)

// withSpinner runs fn behind a pterm spinner, succeeding or failing the
// spinner line based on the returned error.
func withSpinner(text string, fn func() error) error {
	spinner, _ := pterm.DefaultSpinner.Start(text)
	if err := fn(); err != nil {
		spinner.Fail(text)
		return err
	}
	spinner.Success(text)
	return nil
}

// sessionPool loads configuration, opens the stored session and returns a
// model pool bound to it.
func sessionPool(ctx context.Context) (*orm.Pool, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	client, err := auth.NewService(cfg).Session(ctx)
	if err != nil {
		return nil, cfg, err
	}
	pool := orm.NewPool(client, orm.Options{
		Compatible:  cfg.Compatible,
		AutoContext: cfg.AutoContext,
		Context:     cfg.Context,
	})
	return pool, cfg, nil
}

// renderValue flattens a decoded field value for table display.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case orm.Reference:
		return pterm.Sprintf("%s (#%d)", val.Label, val.ID)
	default:
		return pterm.Sprintf("%v", val)
	}
}
