package domain

import (
	"context"
	"time"
)

// RegistryStore persists the whole employee registry. Load and Save always move the
// full collection; there are no partial updates.
type RegistryStore interface {
	Load(ctx context.Context) ([]Employee, error)
	Save(ctx context.Context, employees []Employee) error
}

// Clock supplies the current moment so attendance transitions stay deterministic.
type Clock interface {
	Now() time.Time
	Today() string
}

// StatsCache holds a computed Stats snapshot until the next toggle invalidates it.
type StatsCache interface {
	Get(ctx context.Context) (*Stats, bool, error)
	Set(ctx context.Context, stats *Stats) error
	Invalidate(ctx context.Context) error
}

// IdentityIndex is a searchable index of employee identities.
type IdentityIndex interface {
	IndexEmployee(ctx context.Context, doc EmployeeDoc) error
	BulkIndexEmployees(ctx context.Context, docs []EmployeeDoc) error
	SearchEmployeesByName(ctx context.Context, name string) ([]EmployeeDoc, error)
}

// ProductionLedger stores the daily production entries keyed by date.
type ProductionLedger interface {
	Load(ctx context.Context) (map[string][]ProductionEntry, error)
	Save(ctx context.Context, ledger map[string][]ProductionEntry) error
}

// StockStore persists the raw-material stock list.
type StockStore interface {
	Load(ctx context.Context) ([]StockItem, error)
	Save(ctx context.Context, items []StockItem) error
}
