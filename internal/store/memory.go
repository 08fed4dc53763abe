package store

import (
	"context"
	"sync"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// MemoryStore keeps the tables in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.Mutex
	tables schemas.Tables
	saves  int
}

// NewMemoryStore returns a store preloaded with a copy of initial.
func NewMemoryStore(initial schemas.Tables) *MemoryStore {
	return &MemoryStore{tables: copyTables(initial)}
}

// Load returns a copy of the stored tables.
func (m *MemoryStore) Load(ctx context.Context) (schemas.Tables, error) {
	if err := ctx.Err(); err != nil {
		return schemas.Tables{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTables(m.tables), nil
}

// Save replaces the stored tables with a copy of tables.
func (m *MemoryStore) Save(ctx context.Context, tables schemas.Tables) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = copyTables(tables)
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func copyTables(t schemas.Tables) schemas.Tables {
	return schemas.Tables{
		Heroes: append([]schemas.Hero(nil), t.Heroes...),
		Links:  append([]schemas.Link(nil), t.Links...),
	}
}
