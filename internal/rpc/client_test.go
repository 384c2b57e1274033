// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goerp/cli/internal/errors"
)

// rpcEcho captures the decoded request and serves a canned result.
type rpcEcho struct {
	last   map[string]any
	result any
	errMsg string
}

func (e *rpcEcho) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&e.last)
		resp := map[string]any{"jsonrpc": "2.0", "id": e.last["id"]}
		if e.errMsg != "" {
			resp["error"] = map[string]any{
				"code":    200,
				"message": "Server Error",
				"data":    map[string]any{"message": e.errMsg},
			}
		} else {
			resp["result"] = e.result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (e *rpcEcho) params(t *testing.T) map[string]any {
	t.Helper()
	params, ok := e.last["params"].(map[string]any)
	require.True(t, ok, "request must carry a params object")
	return params
}

func newTestClient(t *testing.T, echo *rpcEcho) *Client {
	t.Helper()
	srv := httptest.NewServer(echo.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, "testdb", time.Second)
}

func TestAuthenticate(t *testing.T) {
	echo := &rpcEcho{result: float64(7)}
	c := newTestClient(t, echo)

	uid, err := c.Authenticate(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)
	assert.Equal(t, int64(7), c.UID())

	params := echo.params(t)
	assert.Equal(t, "common", params["service"])
	assert.Equal(t, "login", params["method"])
	assert.Equal(t, []any{"testdb", "admin", "secret"}, params["args"])
}

func TestAuthenticateRejected(t *testing.T) {
	// The server signals bad credentials with a false result.
	echo := &rpcEcho{result: false}
	c := newTestClient(t, echo)

	_, err := c.Authenticate(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, errors.Auth, errors.KindOf(err))
}

func TestExecutePositionalEnvelope(t *testing.T) {
	echo := &rpcEcho{result: []any{float64(1)}}
	c := newTestClient(t, echo)
	c.SetCredentials(7, "secret")

	res, err := c.ExecutePositional(context.Background(), "res.partner", "search", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1)}, res)

	params := echo.params(t)
	assert.Equal(t, "object", params["service"])
	assert.Equal(t, "execute", params["method"])
	args := params["args"].([]any)
	assert.Equal(t, []any{"testdb", float64(7), "secret", "res.partner", "search"}, args[:5])
}

func TestExecuteKeywordEnvelope(t *testing.T) {
	echo := &rpcEcho{result: true}
	c := newTestClient(t, echo)
	c.SetCredentials(7, "secret")

	_, err := c.ExecuteKeyword(context.Background(), "res.partner", "read", []any{[]any{1}}, nil)
	require.NoError(t, err)

	params := echo.params(t)
	assert.Equal(t, "execute_kw", params["method"])
	args := params["args"].([]any)
	require.Len(t, args, 7)
	assert.Equal(t, "read", args[4])
	assert.Equal(t, map[string]any{}, args[6], "nil kwargs must encode as an empty object, not null")
}

func TestServerErrorSurfacesUnchanged(t *testing.T) {
	echo := &rpcEcho{errMsg: "Access Denied"}
	c := newTestClient(t, echo)

	_, err := c.ExecutePositional(context.Background(), "res.partner", "unlink", []any{1})
	require.Error(t, err)
	assert.Equal(t, errors.RemoteService, errors.KindOf(err))
	assert.Contains(t, err.Error(), "Access Denied")
}

func TestHTTPFailureIsRemoteServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, "testdb", time.Second)

	_, err := c.ExecutePositional(context.Background(), "res.partner", "read", []any{1})
	require.Error(t, err)
	assert.Equal(t, errors.RemoteService, errors.KindOf(err))
}

func TestVersion(t *testing.T) {
	echo := &rpcEcho{result: map[string]any{"server_version": "7.0"}}
	c := newTestClient(t, echo)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7.0", v)
}
