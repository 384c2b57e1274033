// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package orm is the client-side data-access layer in front of a remote,
// schema-driven object server. A Model introspects an entity's field schema
// once, a Record gives loaded rows an in-memory, mutable feel with explicit
// commit semantics, and a Pool caches one Model per entity name per session.
//
// Everything here is synchronous: each operation that touches the server
// blocks until the remote call returns or fails. Lazy record sequences are
// single-threaded; consuming one from several goroutines needs external
// synchronization.
package orm

import (
	"context"
	"iter"
	"maps"

	"goerp/cli/internal/errors"
)

// Transport is the RPC collaborator the layer depends on. Implementations
// carry the session (database, uid, password) and may fail with a
// RemoteService-kind error; no retries happen above this interface.
type Transport interface {
	// ExecutePositional issues a call under the positional convention of
	// the older protocol (compatibility mode).
	ExecutePositional(ctx context.Context, entity, method string, args ...any) (any, error)
	// ExecuteKeyword issues a call under the standard convention with
	// separate positional and keyword arguments.
	ExecuteKeyword(ctx context.Context, entity, method string, args []any, kwargs map[string]any) (any, error)
}

// Options is the read-only configuration surface the layer consumes.
type Options struct {
	// Compatible selects the positional calling convention of servers that
	// predate keyword-argument support.
	Compatible bool
	// AutoContext injects Context into dynamic calls that do not pass an
	// explicit context keyword. Only effective outside compatibility mode.
	AutoContext bool
	// Context is the ambient call context (language, timezone, ...).
	Context map[string]any
}

// Model is the per-entity proxy: it owns the introspected schema and
// mediates every read, write and delete for records of that entity.
// Obtain instances through a Pool, not directly.
type Model struct {
	name      string
	transport Transport
	opts      Options
	schema    *Schema
}

// newModel introspects the entity schema and returns a usable model.
// Introspection runs exactly once per model lifetime; a model whose
// introspection failed is never returned.
func newModel(ctx context.Context, transport Transport, opts Options, name string) (*Model, error) {
	m := &Model{name: name, transport: transport, opts: opts}
	// Schema discovery always uses the positional convention; fields_get
	// predates keyword support on every server generation.
	res, err := transport.ExecutePositional(ctx, name, "fields_get")
	if err != nil {
		return nil, errors.Wrap(errors.Schema, "introspection of "+name+" failed", err)
	}
	defs, ok := res.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.Schema, "introspection of %q returned an unexpected payload", name)
	}
	m.schema, err = buildSchema(name, defs)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the entity name.
func (m *Model) Name() string { return m.name }

// Schema returns the introspected schema. The same value is shared by every
// record of the model.
func (m *Model) Schema() *Schema { return m.schema }

// FieldNames returns the schema's field names in sorted order.
func (m *Model) FieldNames() []string { return m.schema.Names() }

// Browse fetches one record by id, eagerly refreshed.
func (m *Model) Browse(ctx context.Context, id int64) (*Record, error) {
	rec := m.newRecord(id)
	if err := m.refreshRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// BrowseMany returns a lazy sequence over the given ids. Each element is
// fetched with its own remote call exactly when it is pulled; an empty id
// list yields nothing and makes no calls. Re-ranging the sequence restarts
// it, fetching every element again.
func (m *Model) BrowseMany(ctx context.Context, ids []int64) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for _, id := range ids {
			rec, err := m.Browse(ctx, id)
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Draft creates an unsaved record populated from the server's default
// value lookup. The record has no id until the caller persists it through
// a create call.
func (m *Model) Draft(ctx context.Context) (*Record, error) {
	rec := m.newRecord(0)
	if err := m.refreshRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Count reports the number of records of this entity on the server.
func (m *Model) Count(ctx context.Context) (int64, error) {
	res, err := m.Invoke(ctx, "search_count", []any{[]any{}}, nil)
	if err != nil {
		return 0, err
	}
	n, ok := asInt64(res)
	if !ok {
		return 0, errors.Newf(errors.RemoteService, "search_count on %q returned a non-numeric result", m.name)
	}
	return n, nil
}

// Records returns a lazy sequence over every record of the entity. The full
// id list is fetched up front with an unconditional search, then each
// record is browsed on demand. Expensive on large entities.
func (m *Model) Records(ctx context.Context) (iter.Seq2[*Record, error], error) {
	res, err := m.Invoke(ctx, "search", []any{[]any{}}, nil)
	if err != nil {
		return nil, err
	}
	rawIDs, _ := res.([]any)
	ids := make([]int64, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, ok := asInt64(raw); ok {
			ids = append(ids, id)
		}
	}
	return m.BrowseMany(ctx, ids), nil
}

// Invoke calls an arbitrary remote procedure against this entity. In
// compatibility mode keyword arguments are rejected before any network
// traffic; in standard mode the ambient context is injected when
// AutoContext is set and the caller did not pass one. Remote failures
// propagate unchanged.
func (m *Model) Invoke(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	if m.opts.Compatible {
		if len(kwargs) > 0 {
			return nil, errors.New(errors.Protocol, "named parameters are not supported in compatibility mode")
		}
		return m.transport.ExecutePositional(ctx, m.name, method, args...)
	}
	if m.opts.AutoContext && m.opts.Context != nil {
		if _, ok := kwargs["context"]; !ok {
			merged := make(map[string]any, len(kwargs)+1)
			maps.Copy(merged, kwargs)
			merged["context"] = m.opts.Context
			kwargs = merged
		}
	}
	return m.transport.ExecuteKeyword(ctx, m.name, method, args, kwargs)
}

// opCall issues one of the fixed record-lifecycle calls (read, write,
// default_get, unlink, name_get), honoring the calling convention: the
// call context travels positionally in compatibility mode and as a keyword
// otherwise.
func (m *Model) opCall(ctx context.Context, method string, args []any, callContext map[string]any) (any, error) {
	if callContext == nil {
		callContext = map[string]any{}
	}
	if m.opts.Compatible {
		return m.transport.ExecutePositional(ctx, m.name, method, append(args, callContext)...)
	}
	return m.transport.ExecuteKeyword(ctx, m.name, method, args, map[string]any{"context": callContext})
}

func (m *Model) newRecord(id int64) *Record {
	return &Record{
		model:   m,
		id:      id,
		raw:     map[string]any{},
		values:  map[string]any{},
		updated: map[string]struct{}{},
	}
}

// refreshRecord repopulates raw from the server (existing id) or from the
// default value lookup (draft), then resets local state. After a refresh
// every schema field has an entry in raw, the unset ones holding the
// protocol's false sentinel.
func (m *Model) refreshRecord(ctx context.Context, rec *Record) error {
	raw := make(map[string]any, m.schema.Len())
	for _, name := range m.schema.Names() {
		raw[name] = false
	}
	if rec.id != 0 {
		res, err := m.opCall(ctx, "read", []any{[]any{rec.id}, nil}, rec.callContext)
		if err != nil {
			return err
		}
		row, ok := firstRow(res)
		if !ok {
			return errors.Newf(errors.NotFound, "there is no %q record with id %d", m.name, rec.id)
		}
		for name, value := range row {
			if _, known := m.schema.Field(name); known {
				raw[name] = value
			}
		}
	} else {
		fieldNames := make([]any, 0, m.schema.Len())
		for _, name := range m.schema.Names() {
			fieldNames = append(fieldNames, name)
		}
		res, err := m.opCall(ctx, "default_get", []any{fieldNames}, rec.callContext)
		if err != nil {
			return err
		}
		if defaults, ok := res.(map[string]any); ok {
			for name, value := range defaults {
				if _, known := m.schema.Field(name); known {
					raw[name] = value
				}
			}
		}
	}
	rec.raw = raw
	m.resetRecord(rec)
	return nil
}

// resetRecord restores field values from the last-fetched snapshot and
// clears the dirty set, without any network call.
func (m *Model) resetRecord(rec *Record) {
	rec.updated = make(map[string]struct{})
	values := make(map[string]any, len(rec.raw))
	for _, name := range m.schema.Names() {
		if v, ok := rec.raw[name]; ok {
			values[name] = v
		}
	}
	rec.values = values
}

// writeRecord sends only the dirty fields, with reference-single values
// collapsed to their id, then re-refreshes so server-computed values land
// back in the snapshot. A failed write leaves the dirty set untouched.
func (m *Model) writeRecord(ctx context.Context, rec *Record) error {
	vals := make(map[string]any, len(rec.updated))
	for name := range rec.updated {
		if _, ok := rec.raw[name]; !ok {
			continue
		}
		f, _ := m.schema.Field(name)
		vals[name] = encodeWrite(f, rec.values[name])
	}
	if _, err := m.opCall(ctx, "write", []any{[]any{rec.id}, vals}, rec.callContext); err != nil {
		return err
	}
	return m.refreshRecord(ctx, rec)
}

// unlinkRecord deletes the record server-side.
func (m *Model) unlinkRecord(ctx context.Context, rec *Record) error {
	_, err := m.opCall(ctx, "unlink", []any{[]any{rec.id}}, rec.callContext)
	return err
}

// displayName resolves the record's display name via name_get and stores
// it under the name field without dirtying the record.
func (m *Model) displayName(ctx context.Context, rec *Record) (string, error) {
	res, err := m.opCall(ctx, "name_get", []any{[]any{rec.id}}, rec.callContext)
	if err != nil {
		return "", err
	}
	rows, _ := res.([]any)
	if len(rows) == 0 {
		return "", errors.Newf(errors.NotFound, "there is no %q record with id %d", m.name, rec.id)
	}
	pair, _ := rows[0].([]any)
	if len(pair) != 2 {
		return "", errors.Newf(errors.RemoteService, "name_get on %q returned an unexpected payload", m.name)
	}
	label, _ := pair[1].(string)
	rec.raw["name"] = label
	rec.values["name"] = label
	return label, nil
}
