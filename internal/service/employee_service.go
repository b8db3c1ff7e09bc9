package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
)

// EmployeeService handles registry membership and the per-day roster.
type EmployeeService struct {
	registry *Registry
	clock    domain.Clock
	index    domain.IdentityIndex
}

// NewEmployeeService creates a new EmployeeService. index may be nil.
func NewEmployeeService(registry *Registry, clock domain.Clock, index domain.IdentityIndex) *EmployeeService {
	return &EmployeeService{registry: registry, clock: clock, index: index}
}

// NewEmployee is the input for Create.
type NewEmployee struct {
	Name       string
	Age        int
	Department string
}

// List returns every employee ordered by id.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int) (*domain.Employee, error) {
	if _, err := checkID(id); err != nil {
		return nil, err
	}
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	i := findEmployee(employees, id)
	if i < 0 {
		return nil, domain.NewNotFound(id)
	}
	return &employees[i], nil
}

// Create adds an employee with the next free id. Ids are never reused.
func (s *EmployeeService) Create(ctx context.Context, in NewEmployee) (*domain.Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	switch {
	case in.Name == "":
		return nil, domain.NewValidation("name", "is required")
	case in.Department == "":
		return nil, domain.NewValidation("department", "is required")
	case in.Age <= 0 || in.Age > 120:
		return nil, domain.NewValidation("age", "must be between 1 and 120")
	}

	var created domain.Employee
	err := s.registry.Update(ctx, func(employees []domain.Employee) ([]domain.Employee, error) {
		created = domain.Employee{
			ID:         domain.NextEmployeeID(employees),
			Name:       in.Name,
			Age:        in.Age,
			Department: in.Department,
			Attendance: []domain.AttendanceRecord{},
		}
		return append(employees, created), nil
	}, nil)
	if err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "employee %d created in %s", created.ID, created.Department)

	if s.index != nil {
		if err := s.index.IndexEmployee(ctx, toEmployeeDoc(created, s.clock.Now())); err != nil {
			logger.WarnLog(ctx, "failed to index employee %d: %v", created.ID, err)
		}
	}
	return &created, nil
}

// Roster classifies every employee for date. An empty date means today.
func (s *EmployeeService) Roster(ctx context.Context, date string) ([]domain.RosterEntry, error) {
	if date == "" {
		date = s.clock.Today()
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.NewValidation("date", "must be YYYY-MM-DD")
	}

	employees, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return rosterOf(employees, date), nil
}

// rosterOf classifies a registry snapshot for date.
func rosterOf(employees []domain.Employee, date string) []domain.RosterEntry {
	roster := make([]domain.RosterEntry, 0, len(employees))
	for i := range employees {
		e := &employees[i]
		entry := domain.RosterEntry{
			ID:         e.ID,
			Name:       e.Name,
			Age:        e.Age,
			Department: e.Department,
			Working:    e.Working,
			Status:     e.Status(date),
		}
		if rec := e.RecordFor(date); rec != nil {
			entry.LoginTime = rec.LoginTime
			if rec.LogoutTime != nil {
				entry.LogoutTime = *rec.LogoutTime
			}
		}
		roster = append(roster, entry)
	}
	return roster
}

// Departments returns the manpower per department.
func (s *EmployeeService) Departments(ctx context.Context) ([]domain.DepartmentHeadcount, error) {
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Headcounts(employees), nil
}

// Badge returns the QR payload for an employee's badge.
func (s *EmployeeService) Badge(ctx context.Context, id int) (string, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return BadgePayload(*e)
}
