package service

import (
	"fmt"
	"sort"

	"github.com/dcrew/floortrack/internal/domain"
)

// CountPresent returns how many employees have an attendance record dated date,
// whether or not they are still working.
func CountPresent(employees []domain.Employee, date string) int {
	count := 0
	for i := range employees {
		if employees[i].PresentOn(date) {
			count++
		}
	}
	return count
}

// ComputeStats derives the dashboard aggregate from a registry snapshot.
// Every employee opens its age band and department; only working employees add to them.
func ComputeStats(employees []domain.Employee, policy domain.StatsPolicy) domain.Stats {
	bands := make(map[int]*domain.AgeBand)
	depts := make(map[string]*domain.DepartmentOutput)

	for _, e := range employees {
		decade := (e.Age / 10) * 10
		band, ok := bands[decade]
		if !ok {
			band = &domain.AgeBand{AgeGroup: fmt.Sprintf("%ds", decade)}
			bands[decade] = band
		}
		dept, ok := depts[e.Department]
		if !ok {
			dept = &domain.DepartmentOutput{Department: e.Department, Target: policy.DepartmentTarget}
			depts[e.Department] = dept
		}
		if !e.Working {
			continue
		}
		band.Count++
		band.Productivity++
		dept.Achieved += policy.UnitOutput
	}

	stats := domain.Stats{
		AgeSegmentation: make([]domain.AgeBand, 0, len(bands)),
		Departments:     make([]domain.DepartmentOutput, 0, len(depts)),
		PredictedOutput: policy.PredictedOutput,
	}

	decades := make([]int, 0, len(bands))
	for d := range bands {
		decades = append(decades, d)
	}
	sort.Ints(decades)
	for _, d := range decades {
		stats.AgeSegmentation = append(stats.AgeSegmentation, *bands[d])
	}

	names := make([]string, 0, len(depts))
	for name := range depts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats.Departments = append(stats.Departments, *depts[name])
		stats.ActualOutput += depts[name].Achieved
	}

	if policy.PredictedOutput != 0 {
		stats.Efficiency = float64(stats.ActualOutput) / float64(policy.PredictedOutput) * 100
	}
	return stats
}

// Headcounts groups the registry by department.
func Headcounts(employees []domain.Employee) []domain.DepartmentHeadcount {
	byName := make(map[string]*domain.DepartmentHeadcount)
	for _, e := range employees {
		h, ok := byName[e.Department]
		if !ok {
			h = &domain.DepartmentHeadcount{Department: e.Department}
			byName[e.Department] = h
		}
		h.Headcount++
		if e.Working {
			h.Working++
		}
	}
	out := make([]domain.DepartmentHeadcount, 0, len(byName))
	for _, h := range byName {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
