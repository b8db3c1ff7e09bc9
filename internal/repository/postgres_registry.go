package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/repository/builder"
	"github.com/lib/pq"
)

// rows per multi-row INSERT; keeps the statement well under postgres' 65535 parameter cap
const insertChunk = 1000

const registrySchema = `
CREATE TABLE IF NOT EXISTS employees (
	id         INTEGER PRIMARY KEY,
	name       TEXT    NOT NULL,
	age        INTEGER NOT NULL,
	department TEXT    NOT NULL,
	working    BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS attendance_records (
	employee_id INTEGER NOT NULL REFERENCES employees(id),
	date        TEXT    NOT NULL,
	login_time  TEXT    NOT NULL DEFAULT '',
	logout_time TEXT,
	PRIMARY KEY (employee_id, date)
);`

// PostgresRegistry stores the registry in two tables and rewrites both inside one
// transaction on every Save.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry creates a new instance of PostgresRegistry.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// Migrate creates the registry tables when they do not exist.
func (r *PostgresRegistry) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, registrySchema); err != nil {
		return domain.WrapPersistence("migrate registry", err)
	}
	return nil
}

// Load reads both tables from one repeatable-read snapshot.
func (r *PostgresRegistry) Load(ctx context.Context) ([]domain.Employee, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, domain.WrapPersistence("load registry", err)
	}
	defer tx.Rollback()

	employees, err := loadEmployees(ctx, tx)
	if err != nil {
		return nil, domain.WrapPersistence("load employees", err)
	}
	if err := loadAttendance(ctx, tx, employees); err != nil {
		return nil, domain.WrapPersistence("load attendance", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, domain.WrapPersistence("load registry", err)
	}
	return employees, nil
}

func loadEmployees(ctx context.Context, tx *sql.Tx) ([]domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Select("id", "name", "age", "department", "working").
		From("employees").
		OrderBy("id ASC").
		Build()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Age, &e.Department, &e.Working); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func loadAttendance(ctx context.Context, tx *sql.Tx, employees []domain.Employee) error {
	byID := make(map[int]*domain.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}

	query, args := builder.NewSQLBuilder().
		Select("employee_id", "date", "login_time", "logout_time").
		From("attendance_records").
		OrderBy("employee_id ASC").
		OrderBy("date ASC").
		Build()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			empID  int
			rec    domain.AttendanceRecord
			logout sql.NullString
		)
		if err := rows.Scan(&empID, &rec.Date, &rec.LoginTime, &logout); err != nil {
			return fmt.Errorf("failed to scan attendance: %w", err)
		}
		if logout.Valid {
			v := logout.String
			rec.LogoutTime = &v
		}
		if e, ok := byID[empID]; ok {
			e.Attendance = append(e.Attendance, rec)
		}
	}
	return rows.Err()
}

// Save replaces the stored registry with employees in a single transaction.
func (r *PostgresRegistry) Save(ctx context.Context, employees []domain.Employee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapPersistence("save registry", err)
	}
	defer tx.Rollback()

	if err := replaceRegistry(ctx, tx, employees); err != nil {
		return domain.WrapPersistence("save registry", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.WrapPersistence("commit registry", err)
	}
	return nil
}

func replaceRegistry(ctx context.Context, tx *sql.Tx, employees []domain.Employee) error {
	ids := make([]int64, len(employees))
	for i, e := range employees {
		ids[i] = int64(e.ID)
	}

	query, args := builder.NewSQLBuilder().Delete("attendance_records").Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}
	query, args = builder.NewSQLBuilder().Delete("employees").
		Where("NOT (id = ANY(?))", pq.Array(ids)).
		Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune employees: %w", err)
	}

	for start := 0; start < len(employees); start += insertChunk {
		end := min(start+insertChunk, len(employees))
		b := builder.NewSQLBuilder().
			Insert("employees", "id", "name", "age", "department", "working").
			OnConflict("(id) DO UPDATE SET name = EXCLUDED.name, age = EXCLUDED.age, " +
				"department = EXCLUDED.department, working = EXCLUDED.working")
		for _, e := range employees[start:end] {
			b.Values(e.ID, e.Name, e.Age, e.Department, e.Working)
		}
		query, args, err := b.BuildSafe()
		if err != nil {
			return fmt.Errorf("upsert employees: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert employees: %w", err)
		}
	}

	var pending [][]interface{}
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		b := builder.NewSQLBuilder().Insert("attendance_records", "employee_id", "date", "login_time", "logout_time")
		for _, row := range pending {
			b.Values(row...)
		}
		pending = pending[:0]
		query, args, err := b.BuildSafe()
		if err != nil {
			return fmt.Errorf("insert attendance: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert attendance: %w", err)
		}
		return nil
	}
	for _, e := range employees {
		for _, rec := range e.Attendance {
			var logout sql.NullString
			if rec.LogoutTime != nil {
				logout = sql.NullString{String: *rec.LogoutTime, Valid: true}
			}
			pending = append(pending, []interface{}{e.ID, rec.Date, rec.LoginTime, logout})
			if len(pending) == insertChunk {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}
