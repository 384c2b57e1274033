// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"time"

	"goerp/cli/internal/config"
	"goerp/cli/internal/errors"
	"goerp/cli/internal/keychain"
	"goerp/cli/internal/rpc"
)

// Service centralizes session operations against the object server and
// local secure storage.
type Service struct {
	cfg config.Config
}

// NewService constructs a session service from the loaded configuration.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Login authenticates against the server, stores the password in the
// keychain and persists the session state.
func (s *Service) Login(ctx context.Context, password string) (State, error) {
	if err := s.cfg.Validate(); err != nil {
		return State{}, err
	}
	client := rpc.New(s.cfg.Server, s.cfg.Database, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	uid, err := client.Authenticate(ctx, s.cfg.Username, password)
	if err != nil {
		return State{}, err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return State{}, err
	}
	if err := km.SavePassword(password); err != nil {
		return State{}, err
	}
	st := State{
		LoggedIn: true,
		Server:   s.cfg.Server,
		Database: s.cfg.Database,
		Username: s.cfg.Username,
		UID:      uid,
	}
	if err := Save(st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Logout clears local credentials and state. The server keeps no session
// to invalidate; credentials are per-call.
func (s *Service) Logout(ctx context.Context) error {
	return Clear()
}

// WhoAmI returns the persisted session when one exists.
func (s *Service) WhoAmI(ctx context.Context) (State, bool, error) {
	st, err := Load()
	if err != nil {
		return State{}, false, err
	}
	return st, st.LoggedIn, nil
}

// Session builds an authenticated RPC client from the persisted state and
// stored password.
func (s *Service) Session(ctx context.Context) (*rpc.Client, error) {
	st, err := Load()
	if err != nil {
		return nil, err
	}
	if !st.LoggedIn {
		return nil, errors.New(errors.Auth, "not logged in (run: goerp login)")
	}
	km, err := keychain.GetManager()
	if err != nil {
		return nil, err
	}
	password, err := km.LoadPassword()
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New(errors.Auth, "no stored password (run: goerp login)")
	}
	client := rpc.New(st.Server, st.Database, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	client.SetCredentials(st.UID, password)
	return client, nil
}
