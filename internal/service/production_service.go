package service

import (
	"context"
	"strings"
	"sync"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
)

// ProductionService keeps the daily production ledger.
type ProductionService struct {
	ledger   domain.ProductionLedger
	registry *Registry
	clock    domain.Clock
	mu       sync.Mutex
}

func NewProductionService(ledger domain.ProductionLedger, registry *Registry, clock domain.Clock) *ProductionService {
	return &ProductionService{ledger: ledger, registry: registry, clock: clock}
}

// Record appends a department's output under today's date.
func (s *ProductionService) Record(ctx context.Context, entry domain.ProductionEntry) (*domain.ProductionEntry, error) {
	entry.Department = strings.TrimSpace(entry.Department)
	if entry.Department == "" {
		return nil, domain.NewValidation("department", "is required")
	}
	if entry.DayShift < 0 || entry.NightShift < 0 {
		return nil, domain.NewValidation("shift", "output cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("load production ledger", err)
	}
	if ledger == nil {
		ledger = make(map[string][]domain.ProductionEntry)
	}
	today := s.clock.Today()
	ledger[today] = append(ledger[today], entry)
	if err := s.ledger.Save(ctx, ledger); err != nil {
		return nil, domain.WrapPersistence("save production ledger", err)
	}
	logger.InfoLog(ctx, "production recorded for %s on %s", entry.Department, today)
	return &entry, nil
}

// Today returns the entries recorded today.
func (s *ProductionService) Today(ctx context.Context) ([]domain.ProductionEntry, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("load production ledger", err)
	}
	entries := ledger[s.clock.Today()]
	if entries == nil {
		entries = []domain.ProductionEntry{}
	}
	return entries, nil
}

// DailyReport pairs today's presence count with today's production.
func (s *ProductionService) DailyReport(ctx context.Context) (*domain.DailyReport, error) {
	today := s.clock.Today()
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.DailyReport{
		Date:          today,
		Attendance:    CountPresent(employees, today),
		DailyProducts: products,
	}, nil
}
