// Package store persists employee records in a local SQLite database.
// It is the data-access collaborator the directory engine consumes; the
// engine itself never touches SQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"staffdir/internal/config"
	"staffdir/internal/engine"
)

// ErrNotFound is returned when an employee number has no row.
var ErrNotFound = errors.New(config.ErrEmployeeNotFound)

// Store wraps the employee database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the employee database and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open(config.DBDriver, path+config.DBDSNOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBInit, err)
	}

	slog.Info(config.MsgStoreReady,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDB, path,
	)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		emp_no     TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		job_title  TEXT NOT NULL DEFAULT '',
		work_phone TEXT NOT NULL DEFAULT '',
		cell_phone TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		unit       TEXT NOT NULL DEFAULT '',
		crew       TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		location   TEXT NOT NULL DEFAULT '',
		reports_to TEXT NOT NULL DEFAULT '',
		birth_date TEXT,
		hire_date  TEXT,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_unit_crew ON employees(unit, crew);
	CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert inserts or replaces one employee record.
func (s *Store) Upsert(ctx context.Context, e engine.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (
			emp_no, name, job_title, work_phone, cell_phone, email,
			unit, crew, department, location, reports_to,
			birth_date, hire_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(emp_no) DO UPDATE SET
			name = excluded.name,
			job_title = excluded.job_title,
			work_phone = excluded.work_phone,
			cell_phone = excluded.cell_phone,
			email = excluded.email,
			unit = excluded.unit,
			crew = excluded.crew,
			department = excluded.department,
			location = excluded.location,
			reports_to = excluded.reports_to,
			birth_date = excluded.birth_date,
			hire_date = excluded.hire_date,
			updated_at = excluded.updated_at`,
		e.EmpNo, e.Name, e.JobTitle, e.WorkPhone, e.CellPhone, e.Email,
		e.Unit, e.Crew, e.Department, e.Location, e.ReportsTo,
		dateToDB(e.BirthDate), dateToDB(e.HireDate), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBUpsert, err)
	}
	return nil
}

const selectColumns = `
	emp_no, name, job_title, work_phone, cell_phone, email,
	unit, crew, department, location, reports_to, birth_date, hire_date`

// List returns every directory-worthy employee ordered by unit, crew, name.
// Service-account rows (test and wireless devices) are excluded the same
// way the upstream payroll view excludes them.
func (s *Store) List(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM employees
		WHERE name NOT LIKE ? AND name NOT LIKE ?
		ORDER BY unit, crew, name`,
		config.DBExcludeNameTest, config.DBExcludeNameWireless,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var employees []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return employees, nil
}

// Get fetches one employee by number. Returns ErrNotFound for unknown ids.
func (s *Store) Get(ctx context.Context, empNo string) (engine.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM employees
		WHERE emp_no = ?`, empNo)

	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Employee{}, ErrNotFound
	}
	if err != nil {
		return engine.Employee{}, err
	}
	return e, nil
}

// Count returns the number of stored employees, excluded rows included.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (engine.Employee, error) {
	var e engine.Employee
	var birth, hire sql.NullString

	err := row.Scan(
		&e.EmpNo, &e.Name, &e.JobTitle, &e.WorkPhone, &e.CellPhone, &e.Email,
		&e.Unit, &e.Crew, &e.Department, &e.Location, &e.ReportsTo,
		&birth, &hire,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Employee{}, err
	}
	if err != nil {
		return engine.Employee{}, fmt.Errorf("%s: %w", config.ErrDBScan, err)
	}

	e.BirthDate = dateFromDB(birth)
	e.HireDate = dateFromDB(hire)
	return e, nil
}

func dateToDB(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(config.DateFormatFullDash)
}

// dateFromDB parses a stored date column. NULL or garbage yields the zero
// time; the occasion predicates then treat the date as absent.
func dateFromDB(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, _, err := engine.ParseDate(v.String)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyValue, v.String,
		)
		return time.Time{}
	}
	return t
}
