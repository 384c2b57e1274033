// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"goerp/cli/internal/errors"
)

// fakeCall records one transport invocation.
type fakeCall struct {
	positional bool
	entity     string
	method     string
	args       []any
	kwargs     map[string]any
}

// fakeTransport is an in-memory object server good enough for the model
// lifecycle: it serves fields_get from a canned schema and keeps per-id row
// state so write-then-read behaves like the real thing.
type fakeTransport struct {
	calls  []fakeCall
	schema map[string]any
	rows   map[int64]map[string]any
	// fail, when set, overrides the response of matching methods.
	fail map[string]error
}

func newFakeTransport(schema map[string]any) *fakeTransport {
	return &fakeTransport{
		schema: schema,
		rows:   map[int64]map[string]any{},
		fail:   map[string]error{},
	}
}

func (f *fakeTransport) ExecutePositional(ctx context.Context, entity, method string, args ...any) (any, error) {
	f.calls = append(f.calls, fakeCall{positional: true, entity: entity, method: method, args: args})
	return f.respond(entity, method, args)
}

func (f *fakeTransport) ExecuteKeyword(ctx context.Context, entity, method string, args []any, kwargs map[string]any) (any, error) {
	f.calls = append(f.calls, fakeCall{entity: entity, method: method, args: args, kwargs: kwargs})
	return f.respond(entity, method, args)
}

func (f *fakeTransport) respond(entity, method string, args []any) (any, error) {
	if err, ok := f.fail[method]; ok {
		return nil, err
	}
	switch method {
	case "fields_get":
		if f.schema == nil {
			return nil, errors.Newf(errors.RemoteService, "unknown object %q", entity)
		}
		return f.schema, nil
	case "read":
		ids := args[0].([]any)
		id, _ := asInt64(ids[0])
		row, ok := f.rows[id]
		if !ok {
			return []any{}, nil
		}
		out := map[string]any{"id": float64(id)}
		for k, v := range row {
			out[k] = v
		}
		return []any{out}, nil
	case "write":
		ids := args[0].([]any)
		id, _ := asInt64(ids[0])
		vals := args[1].(map[string]any)
		row, ok := f.rows[id]
		if !ok {
			return nil, errors.Newf(errors.RemoteService, "record %d does not exist", id)
		}
		for k, v := range vals {
			row[k] = v
		}
		return true, nil
	case "unlink":
		ids := args[0].([]any)
		id, _ := asInt64(ids[0])
		delete(f.rows, id)
		return true, nil
	case "default_get":
		return map[string]any{}, nil
	case "search":
		ids := make([]any, 0, len(f.rows))
		for id := range f.rows {
			ids = append(ids, float64(id))
		}
		return ids, nil
	case "search_count":
		return float64(len(f.rows)), nil
	case "name_get":
		ids := args[0].([]any)
		id, _ := asInt64(ids[0])
		row, ok := f.rows[id]
		if !ok {
			return []any{}, nil
		}
		label, _ := row["name"].(string)
		return []any{[]any{float64(id), label}}, nil
	}
	return nil, errors.Newf(errors.RemoteService, "unhandled method %q", method)
}

// countCalls returns how many calls hit the given method.
func (f *fakeTransport) countCalls(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

// lastCall returns the most recent call to the given method.
func (f *fakeTransport) lastCall(t *testing.T, method string) fakeCall {
	t.Helper()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method {
			return f.calls[i]
		}
	}
	t.Fatalf("no call to %q recorded", method)
	return fakeCall{}
}

// partnerSchema is the canonical test schema: a writable name, a
// reference-single partner, a boolean flag and a read-only relation list.
func partnerSchema() map[string]any {
	return map[string]any{
		"name":       map[string]any{"type": "char", "string": "Name"},
		"partner_id": map[string]any{"type": "many2one", "string": "Partner", "relation": "res.partner"},
		"active":     map[string]any{"type": "boolean", "string": "Active"},
		"child_ids":  map[string]any{"type": "one2many", "string": "Children", "relation": "res.partner"},
	}
}

// newTestModel introspects a model straight from a fake transport.
func newTestModel(t *testing.T, ft *fakeTransport, opts Options) *Model {
	t.Helper()
	m, err := newModel(context.Background(), ft, opts, "res.partner")
	require.NoError(t, err)
	return m
}
