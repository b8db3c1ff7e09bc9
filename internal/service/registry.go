package service

import (
	"context"
	"sync"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
)

// Registry guards the employee registry. Every mutation is a full load, modify and save
// under the write lock, so two writers never interleave their read-modify-write.
type Registry struct {
	store domain.RegistryStore
	mu    sync.RWMutex
}

func NewRegistry(store domain.RegistryStore) *Registry {
	return &Registry{store: store}
}

// Snapshot loads the registry without taking the lock. Stores replace their content
// atomically, so the result is either the state before or after any in-flight write.
func (r *Registry) Snapshot(ctx context.Context) ([]domain.Employee, error) {
	employees, err := r.store.Load(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("load registry", err)
	}
	return employees, nil
}

// View runs fn on a snapshot while holding off writers.
func (r *Registry) View(ctx context.Context, fn func([]domain.Employee) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	employees, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	return fn(employees)
}

// Update loads the registry, lets fn mutate it and saves the result. An error from fn
// aborts the update without touching the store. onCommit, when set, runs after a
// successful save while the lock is still held.
func (r *Registry) Update(ctx context.Context, fn func([]domain.Employee) ([]domain.Employee, error), onCommit func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	next, err := fn(employees)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, next); err != nil {
		return domain.WrapPersistence("save registry", err)
	}
	if onCommit != nil {
		onCommit()
	}
	return nil
}

func findEmployee(employees []domain.Employee, id int) int {
	for i := range employees {
		if employees[i].ID == id {
			return i
		}
	}
	return -1
}

func toEmployeeDoc(e domain.Employee, indexedAt time.Time) domain.EmployeeDoc {
	return domain.EmployeeDoc{
		ID:         e.ID,
		Name:       e.Name,
		Age:        e.Age,
		Department: e.Department,
		Working:    e.Working,
		IndexedAt:  indexedAt,
	}
}
