package regressor

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mohae/deepcopy"
)

// CachedSource memoizes successful loads of an underlying source. Callers
// always receive their own copy of a cached table.
type CachedSource struct {
	next  Source
	cache *lru.Cache[string, *Table]
}

// NewCachedSource wraps next with an LRU cache holding up to size tables.
func NewCachedSource(next Source, size int) (*CachedSource, error) {
	if next == nil {
		return nil, fmt.Errorf("cached source requires an underlying source")
	}
	cache, err := lru.New[string, *Table](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}
	return &CachedSource{next: next, cache: cache}, nil
}

func (c *CachedSource) Load(ctx context.Context, ref string) (*Table, error) {
	if table, ok := c.cache.Get(ref); ok {
		return cloneTable(table), nil
	}
	table, err := c.next.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.cache.Add(ref, cloneTable(table))
	return table, nil
}

// Len reports the number of cached tables.
func (c *CachedSource) Len() int {
	return c.cache.Len()
}

func cloneTable(t *Table) *Table {
	copied, ok := deepcopy.Copy(t).(*Table)
	if !ok {
		return nil
	}
	return copied
}
