// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

import (
	"context"
	"fmt"

	"goerp/cli/internal/errors"
)

// Record is a local, lazily loaded representation of one remote entity
// instance, or an unsaved draft when no id is assigned yet. Field access
// goes through the owning model's schema; there is no per-entity type.
//
// A Record is not safe for concurrent use. After a successful Unlink it
// must not be used for further server operations.
type Record struct {
	model *Model
	id    int64

	// raw holds the last-known server values, one entry per schema field.
	raw map[string]any
	// values holds the current local values, reloaded from raw on reset.
	values map[string]any
	// updated is the set of field names changed since the last refresh or
	// successful write.
	updated map[string]struct{}
	// callContext is propagated to every remote call made for this record.
	callContext map[string]any
}

// ID returns the record's server id, 0 for drafts.
func (r *Record) ID() int64 { return r.id }

// Model returns the model proxy the record was created by.
func (r *Record) Model() *Model { return r.model }

// Schema returns the schema the record is bound to.
func (r *Record) Schema() *Schema { return r.model.schema }

// Equal reports whether two records designate the same server row.
// Drafts are never equal to anything.
func (r *Record) Equal(other *Record) bool {
	return other != nil && r.model == other.model && r.id != 0 && r.id == other.id
}

// Get returns the decoded value of a field. Unset values decode to nil,
// except booleans where false is a real value.
func (r *Record) Get(name string) (any, error) {
	f, ok := r.model.schema.Field(name)
	if !ok {
		return nil, errors.Newf(errors.Validation, "unknown field %q on %q", name, r.model.name)
	}
	return decodeValue(f, r.values[name]), nil
}

// Set stages a local change to a field. The server is not contacted until
// Write. Writing to a read-only or unrecognized field fails without
// touching the dirty set.
func (r *Record) Set(name string, value any) error {
	f, ok := r.model.schema.Field(name)
	if !ok {
		return errors.Newf(errors.Validation, "unknown field %q on %q", name, r.model.name)
	}
	if f.ReadOnly {
		return errors.Newf(errors.Validation, "field %q on %q is read-only", name, r.model.name)
	}
	r.values[name] = value
	r.updated[name] = struct{}{}
	return nil
}

// IsDirty reports whether the record has uncommitted local changes.
func (r *Record) IsDirty() bool { return len(r.updated) > 0 }

// UpdatedFields returns the names of fields changed since the last refresh
// or successful write.
func (r *Record) UpdatedFields() []string {
	names := make([]string, 0, len(r.updated))
	for _, n := range r.model.schema.Names() {
		if _, ok := r.updated[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// SetCallContext replaces the call context propagated to remote calls made
// for this record.
func (r *Record) SetCallContext(ctx map[string]any) { r.callContext = ctx }

// Refresh re-reads all field values from the server (or from the default
// value lookup for drafts) and discards local changes.
func (r *Record) Refresh(ctx context.Context) error {
	return r.model.refreshRecord(ctx, r)
}

// Reset discards local changes by restoring the values obtained during the
// last refresh. No network call is made. Calling Reset twice in a row is a
// no-op.
func (r *Record) Reset() { r.model.resetRecord(r) }

// Write commits the dirty fields to the server, then re-refreshes to pick
// up server-computed values. On failure the dirty set is left intact so
// the caller can retry or abandon.
func (r *Record) Write(ctx context.Context) error {
	return r.model.writeRecord(ctx, r)
}

// Unlink deletes the record on the server. The record must not be used for
// further server operations afterwards.
func (r *Record) Unlink(ctx context.Context) error {
	return r.model.unlinkRecord(ctx, r)
}

// DisplayName resolves the record's display name via the server's name_get
// call and fills the (possibly synthetic) name field with the result.
func (r *Record) DisplayName(ctx context.Context) (string, error) {
	return r.model.displayName(ctx, r)
}

func (r *Record) String() string {
	return fmt.Sprintf("record(%s, %d)", r.model.name, r.id)
}
