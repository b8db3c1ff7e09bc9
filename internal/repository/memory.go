package repository

import (
	"context"
	"sync"

	"github.com/dcrew/floortrack/internal/domain"
)

// Memory keeps a document in process memory. Values are copied on the way in and out.
type Memory[T any] struct {
	mu    sync.RWMutex
	value T
	clone func(T) T
}

// NewMemory returns an in-memory store seeded with initial.
func NewMemory[T any](initial T, clone func(T) T) *Memory[T] {
	return &Memory[T]{value: clone(initial), clone: clone}
}

// NewMemoryRegistry returns an in-memory employee registry.
func NewMemoryRegistry(employees ...domain.Employee) *Memory[[]domain.Employee] {
	return NewMemory(employees, domain.CloneEmployees)
}

// NewMemoryProductionLedger returns an in-memory production ledger.
func NewMemoryProductionLedger() *Memory[map[string][]domain.ProductionEntry] {
	return NewMemory(map[string][]domain.ProductionEntry{}, cloneLedger)
}

// NewMemoryStockStore returns an in-memory stock list.
func NewMemoryStockStore(items ...domain.StockItem) *Memory[[]domain.StockItem] {
	return NewMemory(items, cloneSlice[domain.StockItem])
}

func (m *Memory[T]) Load(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clone(m.value), nil
}

func (m *Memory[T]) Save(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.value = m.clone(v)
	m.mu.Unlock()
	return nil
}

func cloneSlice[E any](in []E) []E {
	if in == nil {
		return nil
	}
	out := make([]E, len(in))
	copy(out, in)
	return out
}

func cloneLedger(in map[string][]domain.ProductionEntry) map[string][]domain.ProductionEntry {
	out := make(map[string][]domain.ProductionEntry, len(in))
	for date, entries := range in {
		out[date] = cloneSlice(entries)
	}
	return out
}
