package service

import (
	"context"
	"testing"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAddListDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewStockService(repository.NewMemoryStockStore(
		domain.StockItem{ID: 3, Material: "Cotton", Quantity: 500, AvgDailyUse: 50, LeadTimeDays: 4, LastRestock: "2024-01-01"},
	), f.clock)

	added, err := svc.Add(ctx, domain.StockItem{Material: "Thread", Quantity: 40, AvgDailyUse: 10, LeadTimeDays: 7})
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)
	assert.Equal(t, "2024-01-10", added.LastRestock)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, svc.Delete(ctx, 3))
	err = svc.Delete(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Thread", items[0].Material)
}

func TestStockAddValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewStockService(repository.NewMemoryStockStore(), f.clock)

	for _, item := range []domain.StockItem{
		{Material: ""},
		{Material: "Zip", Quantity: -1},
		{Material: "Zip", AvgDailyUse: -2},
		{Material: "Zip", LeadTimeDays: -2},
		{Material: "Zip", LastRestock: "yesterday"},
	} {
		_, err := svc.Add(ctx, item)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestProject(t *testing.T) {
	cases := []struct {
		name      string
		item      domain.StockItem
		remaining int
		cover     float64
		reorder   bool
	}{
		{"healthy", domain.StockItem{Quantity: 500, AvgDailyUse: 50, LeadTimeDays: 4}, 300, 10, false},
		{"runs out during lead time", domain.StockItem{Quantity: 40, AvgDailyUse: 10, LeadTimeDays: 7}, -30, 4, true},
		{"zero lead time counts one day", domain.StockItem{Quantity: 10, AvgDailyUse: 10}, 0, 1, true},
		{"unused", domain.StockItem{Quantity: 10}, 10, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Project(tc.item)
			assert.Equal(t, tc.remaining, p.RemainingAfterLeadTime)
			assert.InDelta(t, tc.cover, p.DaysOfCover, 1e-9)
			assert.Equal(t, tc.reorder, p.Reorder)
		})
	}
}
