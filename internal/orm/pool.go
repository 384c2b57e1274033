// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

import (
	"context"
	"sort"
	"sync"

	"goerp/cli/internal/errors"
)

// Pool is the session-scoped cache of model proxies: at most one live Model
// per entity name, plus a reverse index from schema identity back to its
// model. Construct one per session and tear it down with the session; there
// is no ambient global.
//
// The maps are guarded for shared use, but no lock is held across remote
// calls. A GetRefreshed racing with in-flight record operations can leave
// those operations on a stale, evicted model; that narrow race is accepted.
type Pool struct {
	mu        sync.RWMutex
	transport Transport
	opts      Options
	byName    map[string]*Model
	bySchema  map[*Schema]*Model
}

// NewPool creates an empty pool bound to a transport and options.
func NewPool(transport Transport, opts Options) *Pool {
	return &Pool{
		transport: transport,
		opts:      opts,
		byName:    make(map[string]*Model),
		bySchema:  make(map[*Schema]*Model),
	}
}

// Get returns the cached model for the entity, introspecting and caching
// it on first use. Failed introspection caches nothing.
func (p *Pool) Get(ctx context.Context, name string) (*Model, error) {
	p.mu.RLock()
	m, ok := p.byName[name]
	p.mu.RUnlock()
	if ok {
		return m, nil
	}
	m, err := newModel(ctx, p.transport, p.opts, name)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// Someone else may have introspected the same entity meanwhile; keep
	// the installed one so callers keep seeing a single instance.
	if existing, ok := p.byName[name]; ok {
		return existing, nil
	}
	p.install(m)
	return m, nil
}

// GetRefreshed discards any cached model for the entity and installs a
// freshly introspected one in both indices. Records created under the old
// model become stale.
func (p *Pool) GetRefreshed(ctx context.Context, name string) (*Model, error) {
	m, err := newModel(ctx, p.transport, p.opts, name)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byName[name]; ok {
		delete(p.bySchema, old.schema)
	}
	p.install(m)
	return m, nil
}

// GetBySchema is the reverse lookup for callers holding only a record (via
// Record.Schema). It fails when the schema is no longer registered, e.g.
// after a refresh replaced it.
func (p *Pool) GetBySchema(s *Schema) (*Model, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.bySchema[s]
	if !ok {
		return nil, errors.Newf(errors.Lookup, "no cached model for schema %q", s.Entity())
	}
	return m, nil
}

// Remove evicts the cached model for the entity. Records created under it
// are orphaned: no longer refreshable or committable through the pool.
func (p *Pool) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byName[name]; ok {
		delete(p.bySchema, old.schema)
		delete(p.byName, name)
	}
}

// Names returns the cached entity names in sorted order.
func (p *Pool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached models.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byName)
}

// install must be called with mu held.
func (p *Pool) install(m *Model) {
	p.byName[m.name] = m
	p.bySchema[m.schema] = m
}
