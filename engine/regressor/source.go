package regressor

import (
	"context"
	"fmt"
	"sync"
)

// Source resolves an opaque table reference to a dense regressor table.
type Source interface {
	Load(ctx context.Context, ref string) (*Table, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, ref string) (*Table, error)

func (f SourceFunc) Load(ctx context.Context, ref string) (*Table, error) {
	return f(ctx, ref)
}

// MemorySource serves tables registered in memory. Put and Load both copy, so
// callers never share column storage with the registry.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string]*Table)}
}

// Put registers table under ref after validating it.
func (m *MemorySource) Put(ref string, table *Table) error {
	if err := table.Validate(); err != nil {
		return newLoadError(ref, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[ref] = cloneTable(table)
	return nil
}

func (m *MemorySource) Load(ctx context.Context, ref string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, newLoadError(ref, err)
	}
	m.mu.RLock()
	table, ok := m.tables[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, newLoadError(ref, fmt.Errorf("%w: no table registered", ErrTableNotFound))
	}
	return cloneTable(table), nil
}
