// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements session establishment and persistence for the CLI.
//
// This file stores the serialized session state in the OS keychain via
// internal/keychain.
package auth

import (
	"encoding/json"

	"goerp/cli/internal/keychain"
)

// State represents the persisted session for the current user.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Server   string `json:"server"`
	Database string `json:"database"`
	Username string `json:"username"`
	UID      int64  `json:"uid"`
}

// Load reads the session state from the keychain. Missing state yields the
// zero value.
func Load() (State, error) {
	var s State
	km, err := keychain.GetManager()
	if err != nil {
		return s, err
	}
	data, err := km.LoadSessionState()
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes the session state to the keychain.
func Save(s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveSessionState(b)
}

// Clear removes the session state and password from the keychain.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.Clear()
}
