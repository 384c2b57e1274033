// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rpc implements the JSON-RPC transport to the object server.
// It provides session authentication and the two remote-call conventions the
// data-access layer depends on: the positional convention of older servers
// and the standard convention with keyword arguments.
//
// The client interprets nothing beyond the JSON-RPC envelope: server-side
// failures surface as remote-service errors with the server's message passed
// through unchanged, and no retries happen at this layer.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"goerp/cli/internal/errors"
)

// Endpoint is the JSON-RPC entry point on the server.
const Endpoint = "/jsonrpc"

// Client is a session-bound JSON-RPC client. It implements the orm
// Transport contract.
type Client struct {
	// baseURL is the server root (e.g. "https://erp.example.com").
	baseURL string
	// database is the server-side database the session is bound to.
	database string
	// uid and password form the session credentials sent with every
	// object-service call.
	uid      int64
	password string
	// client is the underlying HTTP client with configured timeout.
	client *http.Client
	// nextID numbers the JSON-RPC requests.
	nextID atomic.Int64
}

// New creates a client for the given server root and database.
func New(baseURL, database string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		database: database,
		client:   &http.Client{Timeout: timeout},
	}
}

// SetCredentials installs the session credentials used for object calls.
func (c *Client) SetCredentials(uid int64, password string) {
	c.uid = uid
	c.password = password
}

// UID returns the authenticated user id, 0 before authentication.
func (c *Client) UID() int64 { return c.uid }

// Authenticate logs in against the common service and installs the
// resulting credentials on the client.
func (c *Client) Authenticate(ctx context.Context, login, password string) (int64, error) {
	res, err := c.call(ctx, "common", "login", []any{c.database, login, password})
	if err != nil {
		return 0, err
	}
	uid, ok := asInt64(res)
	if !ok || uid == 0 {
		return 0, errors.Newf(errors.Auth, "authentication failed for %q on database %q", login, c.database)
	}
	c.SetCredentials(uid, password)
	return uid, nil
}

// Version reports the server version from the common service. No
// authentication required; usable as a connectivity check.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.call(ctx, "common", "version", []any{})
	if err != nil {
		return "", err
	}
	if info, ok := res.(map[string]any); ok {
		if v, ok := info["server_version"].(string); ok && v != "" {
			return v, nil
		}
	}
	return "unknown", nil
}

// ExecutePositional issues an object call under the positional convention
// of servers that predate keyword-argument support.
func (c *Client) ExecutePositional(ctx context.Context, entity, method string, args ...any) (any, error) {
	callArgs := append([]any{c.database, c.uid, c.password, entity, method}, args...)
	return c.call(ctx, "object", "execute", callArgs)
}

// ExecuteKeyword issues an object call under the standard convention with
// separate positional and keyword arguments.
func (c *Client) ExecuteKeyword(ctx context.Context, entity, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	callArgs := []any{c.database, c.uid, c.password, entity, method, args, kwargs}
	return c.call(ctx, "object", "execute_kw", callArgs)
}

type rpcRequest struct {
	Jsonrpc string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result any       `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
		Debug   string `json:"debug"`
	} `json:"data"`
}

// call posts one JSON-RPC request and decodes the envelope.
func (c *Client) call(ctx context.Context, service, method string, args []any) (any, error) {
	payload := rpcRequest{
		Jsonrpc: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.nextID.Add(1),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.RemoteService, "encoding request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.RemoteService, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.RemoteService, "calling "+service+"."+method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.RemoteService, "server returned HTTP %d for %s.%s", resp.StatusCode, service, method)
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.RemoteService, "decoding response", err)
	}
	if out.Error != nil {
		msg := out.Error.Data.Message
		if msg == "" {
			msg = out.Error.Message
		}
		return nil, errors.New(errors.RemoteService, msg)
	}
	return out.Result, nil
}

// asInt64 coerces a JSON-decoded number to int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
