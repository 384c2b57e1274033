// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goerp/cli/internal/errors"
)

func TestModelIntrospectsOnce(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{})
	ft.rows[1] = map[string]any{"name": "Acme", "active": true}

	_, err := m.Browse(context.Background(), 1)
	require.NoError(t, err)
	_, err = m.Browse(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, ft.countCalls("fields_get"), "schema discovery must run once per model lifetime")
}

func TestModelIntrospectionFailure(t *testing.T) {
	ft := newFakeTransport(nil)
	_, err := newModel(context.Background(), ft, Options{}, "res.partner")
	require.Error(t, err)
	assert.Equal(t, errors.Schema, errors.KindOf(err))
}

func TestModelIntrospectionUnknownFieldType(t *testing.T) {
	ft := newFakeTransport(map[string]any{
		"blob": map[string]any{"type": "tensor"},
	})
	_, err := newModel(context.Background(), ft, Options{}, "res.partner")
	require.Error(t, err)
	assert.Equal(t, errors.Schema, errors.KindOf(err))
}

func TestBrowseEager(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	ft.rows[1] = map[string]any{
		"name":       "Acme",
		"partner_id": []any{float64(7), "Acme Corp"},
		"active":     true,
	}
	m := newTestModel(t, ft, Options{})

	rec, err := m.Browse(context.Background(), 1)
	require.NoError(t, err)

	name, err := rec.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Acme", name)

	partner, err := rec.Get("partner_id")
	require.NoError(t, err)
	assert.Equal(t, Reference{ID: 7, Label: "Acme Corp"}, partner)
}

func TestBrowseManyIsLazy(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	ft.rows[1] = map[string]any{"name": "one"}
	ft.rows[2] = map[string]any{"name": "two"}
	m := newTestModel(t, ft, Options{})

	seq := m.BrowseMany(context.Background(), []int64{1, 2})
	assert.Equal(t, 0, ft.countCalls("read"), "no fetch before the first pull")

	pulled := 0
	for rec, err := range seq {
		require.NoError(t, err)
		require.NotNil(t, rec)
		pulled++
		assert.Equal(t, pulled, ft.countCalls("read"), "exactly one fetch per pulled element")
	}
	assert.Equal(t, 2, pulled)

	// Re-ranging restarts the sequence and fetches again.
	for _, err := range seq {
		require.NoError(t, err)
		break
	}
	assert.Equal(t, 3, ft.countCalls("read"))
}

func TestBrowseManyEmptyMakesNoCalls(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{})
	before := len(ft.calls)

	for range m.BrowseMany(context.Background(), nil) {
		t.Fatal("empty id list must yield nothing")
	}
	assert.Equal(t, before, len(ft.calls), "empty browse must make zero remote calls")
}

func TestCount(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	ft.rows[1] = map[string]any{"name": "one"}
	ft.rows[2] = map[string]any{"name": "two"}
	m := newTestModel(t, ft, Options{})

	n, err := m.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRecordsIteratesFullIDList(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	ft.rows[4] = map[string]any{"name": "four"}
	m := newTestModel(t, ft, Options{})

	seq, err := m.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ft.countCalls("search"))

	count := 0
	for rec, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, int64(4), rec.ID())
		count++
	}
	assert.Equal(t, 1, count)
}

func TestInvokeCompatibilityModeRejectsKwargs(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{Compatible: true})
	before := len(ft.calls)

	_, err := m.Invoke(context.Background(), "name_search", []any{"Acme"}, map[string]any{"limit": 5})
	require.Error(t, err)
	assert.Equal(t, errors.Protocol, errors.KindOf(err))
	assert.Equal(t, before, len(ft.calls), "the protocol error must fire before any network call")
}

func TestInvokeCompatibilityModeUsesPositionalConvention(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{Compatible: true})

	_, err := m.Invoke(context.Background(), "search", []any{[]any{}}, nil)
	require.NoError(t, err)
	assert.True(t, ft.lastCall(t, "search").positional)
}

func TestInvokeAutoContextInjection(t *testing.T) {
	ambient := map[string]any{"lang": "en_US"}
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{AutoContext: true, Context: ambient})

	_, err := m.Invoke(context.Background(), "search", []any{[]any{}}, nil)
	require.NoError(t, err)
	call := ft.lastCall(t, "search")
	assert.Equal(t, ambient, call.kwargs["context"])

	// An explicit context keyword wins over the ambient one.
	explicit := map[string]any{"lang": "fr_FR"}
	_, err = m.Invoke(context.Background(), "search", []any{[]any{}}, map[string]any{"context": explicit})
	require.NoError(t, err)
	call = ft.lastCall(t, "search")
	assert.Equal(t, explicit, call.kwargs["context"])
}

func TestInvokeWithoutAutoContext(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	m := newTestModel(t, ft, Options{AutoContext: false, Context: map[string]any{"lang": "en_US"}})

	_, err := m.Invoke(context.Background(), "search", []any{[]any{}}, nil)
	require.NoError(t, err)
	_, ok := ft.lastCall(t, "search").kwargs["context"]
	assert.False(t, ok)
}

func TestInvokeRemoteFailurePropagates(t *testing.T) {
	ft := newFakeTransport(partnerSchema())
	remoteErr := errors.New(errors.RemoteService, "access denied to res.partner")
	ft.fail["name_search"] = remoteErr
	m := newTestModel(t, ft, Options{})

	_, err := m.Invoke(context.Background(), "name_search", []any{"Acme"}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.RemoteService, errors.KindOf(err))
	assert.Contains(t, err.Error(), "access denied")
}
