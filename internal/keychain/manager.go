// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for goerp.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// the server password and serialized session state.
//
// The package relies on the platform keyring (macOS Keychain, Windows Credential
// Manager, Secret Service/KWallet/pass on Linux) with thread-safe operations and
// proper error handling.
package keychain

import (
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "goerp"

// Keys used for storing secrets in the OS keychain.
const (
	KeyServerPassword = "server_password"
	KeySessionState   = "session_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  ServiceName,
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
		WinCredPrefix:            ServiceName,
	})
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// SavePassword stores the server password in the keychain.
func (m *Manager) SavePassword(password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeyServerPassword, Data: []byte(password)})
}

// LoadPassword retrieves the server password from the keychain.
// Missing entries yield an empty string, not an error.
func (m *Manager) LoadPassword() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, err := m.ring.Get(KeyServerPassword)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

// SaveSessionState stores serialized session state in the keychain.
func (m *Manager) SaveSessionState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeySessionState, Data: data})
}

// LoadSessionState retrieves serialized session state from the keychain.
// Missing entries yield nil data, not an error.
func (m *Manager) LoadSessionState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, err := m.ring.Get(KeySessionState)
	if err == keyring.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.Data, nil
}

// Clear removes all goerp secrets from the keychain.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range []string{KeyServerPassword, KeySessionState} {
		if err := m.ring.Remove(key); err != nil && err != keyring.ErrKeyNotFound {
			return err
		}
	}
	return nil
}
