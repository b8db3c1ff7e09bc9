package service

import (
	"context"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
)

// ToggleResult is the outcome of a check-in or check-out.
type ToggleResult struct {
	Working bool `json:"working"`
}

// AttendanceService runs the check-in/check-out state machine against the registry.
type AttendanceService struct {
	registry *Registry
	clock    domain.Clock
	policy   domain.StatsPolicy
	cache    domain.StatsCache
	index    domain.IdentityIndex
}

type AttendanceOption func(*AttendanceService)

// WithStatsCache serves Stats from cache until the next toggle.
func WithStatsCache(cache domain.StatsCache) AttendanceOption {
	return func(s *AttendanceService) { s.cache = cache }
}

// WithIdentityIndex keeps the working flag in the identity index current after toggles.
func WithIdentityIndex(index domain.IdentityIndex) AttendanceOption {
	return func(s *AttendanceService) { s.index = index }
}

func WithStatsPolicy(policy domain.StatsPolicy) AttendanceOption {
	return func(s *AttendanceService) { s.policy = policy }
}

func NewAttendanceService(registry *Registry, clock domain.Clock, opts ...AttendanceOption) *AttendanceService {
	s := &AttendanceService{
		registry: registry,
		clock:    clock,
		policy:   domain.DefaultStatsPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToggleRaw resolves raw scanner input and toggles that employee.
func (s *AttendanceService) ToggleRaw(ctx context.Context, raw string) (*ToggleResult, error) {
	id, err := ResolveEmployeeID(raw)
	if err != nil {
		return nil, err
	}
	return s.Toggle(ctx, id)
}

// Toggle flips the working state of one employee and persists the whole registry.
// An unknown id or a failed save leaves the stored registry unchanged.
func (s *AttendanceService) Toggle(ctx context.Context, id int) (*ToggleResult, error) {
	if _, err := checkID(id); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := now.Format(domain.DateLayout)
	var toggled domain.Employee

	err := s.registry.Update(ctx, func(employees []domain.Employee) ([]domain.Employee, error) {
		i := findEmployee(employees, id)
		if i < 0 {
			return nil, domain.NewNotFound(id)
		}
		employees[i].Toggle(now)
		toggled = employees[i].Clone()
		return employees, nil
	}, func() {
		s.invalidateStats(ctx)
	})
	if err != nil {
		logger.WarnLog(ctx, "toggle for employee %d rejected: %v", id, err)
		return nil, err
	}

	logger.Event(ctx).
		Int("employee_id", id).
		Bool("working", toggled.Working).
		Str("date", date).
		Msg("attendance toggled")

	if s.index != nil {
		if err := s.index.IndexEmployee(ctx, toEmployeeDoc(toggled, now)); err != nil {
			logger.WarnLog(ctx, "failed to refresh identity index for employee %d: %v", id, err)
		}
	}
	return &ToggleResult{Working: toggled.Working}, nil
}

// PresentToday counts employees with any attendance activity today.
func (s *AttendanceService) PresentToday(ctx context.Context) (int, error) {
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return CountPresent(employees, s.clock.Today()), nil
}

// Stats returns the dashboard aggregate for the current registry.
func (s *AttendanceService) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.cache == nil {
		employees, err := s.registry.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		stats := ComputeStats(employees, s.policy)
		return &stats, nil
	}

	if cached, ok, err := s.cache.Get(ctx); err != nil {
		logger.WarnLog(ctx, "stats cache read failed: %v", err)
	} else if ok {
		return cached, nil
	}

	// holding the read lock keeps a toggle from committing between compute and Set
	var stats domain.Stats
	err := s.registry.View(ctx, func(employees []domain.Employee) error {
		stats = ComputeStats(employees, s.policy)
		if err := s.cache.Set(ctx, &stats); err != nil {
			logger.WarnLog(ctx, "stats cache write failed: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AttendanceService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.ErrorLog(ctx, err, "failed to invalidate stats cache")
	}
}
