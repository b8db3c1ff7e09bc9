package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
)

// DataSeeder fills a registry with synthetic employees and attendance history.
type DataSeeder struct {
	registry domain.RegistryStore
	stock    domain.StockStore
	rng      *rand.Rand
}

func NewDataSeeder(registry domain.RegistryStore, stock domain.StockStore, seed int64) *DataSeeder {
	return &DataSeeder{registry: registry, stock: stock, rng: rand.New(rand.NewSource(seed))}
}

var (
	firstNames  = []string{"Asha", "Bilal", "Chen", "Dana", "Emeka", "Farah", "Goran", "Hana", "Ivan", "Jia", "Kofi", "Lina", "Mateo", "Nadia", "Omar", "Priya"}
	lastNames   = []string{"Rao", "Khan", "Wei", "Okafor", "Silva", "Novak", "Haddad", "Tanaka", "Mensah", "Petrov", "Nguyen", "Lopez"}
	departments = []string{"Cutting", "Sewing", "Finishing", "Packing", "Quality"}
	materials   = []domain.StockItem{
		{Material: "Cotton fabric", Category: "Fabric", Quantity: 1200, Unit: "m", AvgDailyUse: 90, LeadTimeDays: 7, DemandTrend: 1.05},
		{Material: "Polyester thread", Category: "Trim", Quantity: 300, Unit: "spool", AvgDailyUse: 25, LeadTimeDays: 5, DemandTrend: 1.0},
		{Material: "Buttons", Category: "Trim", Quantity: 8000, Unit: "pcs", AvgDailyUse: 600, LeadTimeDays: 10, DemandTrend: 0.95},
		{Material: "Zippers", Category: "Trim", Quantity: 900, Unit: "pcs", AvgDailyUse: 140, LeadTimeDays: 12, DemandTrend: 1.1},
		{Material: "Cartons", Category: "Packing", Quantity: 400, Unit: "pcs", AvgDailyUse: 35, LeadTimeDays: 3, DemandTrend: 1.0},
	}
)

// SeedSummary reports what a seeding run added.
type SeedSummary struct {
	Employees  int
	Records    int
	StockItems int
	Elapsed    time.Duration
}

// SeedData appends numEmployees employees with historyDays of closed shifts ending the
// day before today. Existing employees keep their ids; new ones continue after the highest.
func (ds *DataSeeder) SeedData(ctx context.Context, numEmployees, historyDays int, today time.Time) (*SeedSummary, error) {
	start := time.Now()
	if numEmployees <= 0 {
		return nil, fmt.Errorf("number of employees must be positive")
	}

	employees, err := ds.registry.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	summary := &SeedSummary{}
	nextID := domain.NextEmployeeID(employees)
	for i := 0; i < numEmployees; i++ {
		e := domain.Employee{
			ID:         nextID + i,
			Name:       firstNames[ds.rng.Intn(len(firstNames))] + " " + lastNames[ds.rng.Intn(len(lastNames))],
			Age:        18 + ds.rng.Intn(45),
			Department: departments[ds.rng.Intn(len(departments))],
			Attendance: []domain.AttendanceRecord{},
		}
		for d := historyDays; d >= 1; d-- {
			// roughly one day in five off
			if ds.rng.Intn(5) == 0 {
				continue
			}
			e.Attendance = append(e.Attendance, ds.shift(today.AddDate(0, 0, -d)))
			summary.Records++
		}
		employees = append(employees, e)
	}
	summary.Employees = numEmployees

	if err := ds.registry.Save(ctx, employees); err != nil {
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}

	if ds.stock != nil {
		n, err := ds.seedStock(ctx, today)
		if err != nil {
			return nil, err
		}
		summary.StockItems = n
	}

	summary.Elapsed = time.Since(start)
	logger.InfoLog(ctx, "seeded %d employees, %d attendance records, %d stock items in %v",
		summary.Employees, summary.Records, summary.StockItems, summary.Elapsed)
	return summary, nil
}

// shift builds a closed record with a login between 06:00 and 09:59 and an 8 to 9 hour shift.
func (ds *DataSeeder) shift(day time.Time) domain.AttendanceRecord {
	login := time.Date(day.Year(), day.Month(), day.Day(), 6+ds.rng.Intn(4), ds.rng.Intn(60), ds.rng.Intn(60), 0, day.Location())
	logout := login.Add(8*time.Hour + time.Duration(ds.rng.Intn(60))*time.Minute).Format(domain.TimeLayout)
	return domain.AttendanceRecord{
		Date:       login.Format(domain.DateLayout),
		LoginTime:  login.Format(domain.TimeLayout),
		LogoutTime: &logout,
	}
}

// seedStock adds the default materials when the stock list is empty.
func (ds *DataSeeder) seedStock(ctx context.Context, today time.Time) (int, error) {
	items, err := ds.stock.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load stock: %w", err)
	}
	if len(items) > 0 {
		return 0, nil
	}
	for i, m := range materials {
		m.ID = i + 1
		m.LastRestock = today.AddDate(0, 0, -ds.rng.Intn(14)).Format(domain.DateLayout)
		items = append(items, m)
	}
	if err := ds.stock.Save(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to save stock: %w", err)
	}
	return len(items), nil
}

// ClearData empties the registry. It is a full reset: with no employees left, the next
// id handed out is 1 again, so ids from before the clear get reused.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	if err := ds.registry.Save(ctx, []domain.Employee{}); err != nil {
		return fmt.Errorf("failed to clear registry: %w", err)
	}
	logger.InfoLog(ctx, "registry cleared")
	return nil
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetConfig returns the employee count and days of history for a preset.
func GetPresetConfig(preset SeedPreset) (numEmployees, historyDays int, err error) {
	switch preset {
	case PresetSmall:
		return 10, 7, nil
	case PresetMedium:
		return 100, 30, nil
	case PresetLarge:
		return 1000, 90, nil
	default:
		return 0, 0, fmt.Errorf("unknown preset %q", preset)
	}
}
