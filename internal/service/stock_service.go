package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
)

// StockService manages the raw-material list and its consumption outlook.
type StockService struct {
	store domain.StockStore
	clock domain.Clock
	mu    sync.Mutex
}

func NewStockService(store domain.StockStore, clock domain.Clock) *StockService {
	return &StockService{store: store, clock: clock}
}

func (s *StockService) List(ctx context.Context) ([]domain.StockItem, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("load stock", err)
	}
	if items == nil {
		items = []domain.StockItem{}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Add stores a new item with the next free id.
func (s *StockService) Add(ctx context.Context, item domain.StockItem) (*domain.StockItem, error) {
	item.Material = strings.TrimSpace(item.Material)
	switch {
	case item.Material == "":
		return nil, domain.NewValidation("material", "is required")
	case item.Quantity < 0:
		return nil, domain.NewValidation("quantity", "cannot be negative")
	case item.AvgDailyUse < 0:
		return nil, domain.NewValidation("avg_daily_use", "cannot be negative")
	case item.LeadTimeDays < 0:
		return nil, domain.NewValidation("lead_time_days", "cannot be negative")
	}
	if item.LastRestock == "" {
		item.LastRestock = s.clock.Today()
	} else if _, err := time.Parse(domain.DateLayout, item.LastRestock); err != nil {
		return nil, domain.NewValidation("last_restock", "must be YYYY-MM-DD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("load stock", err)
	}
	highest := 0
	for _, it := range items {
		if it.ID > highest {
			highest = it.ID
		}
	}
	item.ID = highest + 1
	if err := s.store.Save(ctx, append(items, item)); err != nil {
		return nil, domain.WrapPersistence("save stock", err)
	}
	logger.InfoLog(ctx, "stock item %d (%s) added", item.ID, item.Material)
	return &item, nil
}

func (s *StockService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.Load(ctx)
	if err != nil {
		return domain.WrapPersistence("load stock", err)
	}
	kept := make([]domain.StockItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return &domain.NotFoundError{Kind: "stock item", ID: id}
	}
	if err := s.store.Save(ctx, kept); err != nil {
		return domain.WrapPersistence("save stock", err)
	}
	return nil
}

// Projection estimates what is left of each item once a reorder placed today arrives.
func (s *StockService) Projection(ctx context.Context) ([]domain.StockProjection, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StockProjection, 0, len(items))
	for _, it := range items {
		out = append(out, Project(it))
	}
	return out, nil
}

// Project computes the consumption outlook for one item.
func Project(it domain.StockItem) domain.StockProjection {
	lead := it.LeadTimeDays
	if lead < 1 {
		lead = 1
	}
	p := domain.StockProjection{
		StockItem:              it,
		RemainingAfterLeadTime: it.Quantity - it.AvgDailyUse*lead,
	}
	if it.AvgDailyUse > 0 {
		p.DaysOfCover = float64(it.Quantity) / float64(it.AvgDailyUse)
	}
	p.Reorder = p.RemainingAfterLeadTime <= 0
	return p
}
