package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/kiosk/internal/config"
	"github.com/your-org/kiosk/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the ledger tables if they don't exist. The
// partial unique index is what makes the at-most-one-open-visit rule
// hold even under concurrent check-ins for the same visitor and date.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			photo_key TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'visitor',
			registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS visit_entries (
			id UUID PRIMARY KEY,
			visitor_id UUID NOT NULL REFERENCES visitors(id),
			date TEXT NOT NULL,
			time_of_day TEXT NOT NULL DEFAULT '',
			check_in_time TIMESTAMPTZ,
			check_out_time TIMESTAMPTZ,
			purpose TEXT NOT NULL DEFAULT 'unspecified',
			language TEXT NOT NULL DEFAULT 'fr',
			contact TEXT NOT NULL DEFAULT 'unspecified',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS visit_entries_open_per_day
			ON visit_entries (visitor_id, date) WHERE check_out_time IS NULL`,
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'Employé(e)',
			department TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			guidance TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Visitors ---

// UpsertVisitor creates the visitor or refreshes identity fields on an
// existing one. Registration timestamp is kept from the first insert.
func (s *PostgresStore) UpsertVisitor(ctx context.Context, v *models.Visitor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Type == "" {
		v.Type = models.VisitorTypeVisitor
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO visitors (id, email, first_name, last_name, photo_key, type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), visitors.first_name),
			last_name  = COALESCE(NULLIF(EXCLUDED.last_name, ''), visitors.last_name),
			photo_key  = COALESCE(NULLIF(EXCLUDED.photo_key, ''), visitors.photo_key)
		 RETURNING id, registered_at`,
		v.ID, v.Email, v.FirstName, v.LastName, v.PhotoKey, v.Type,
	).Scan(&v.ID, &v.RegisteredAt)
	if err != nil {
		return fmt.Errorf("upsert visitor: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetVisitorByEmail(ctx context.Context, email string) (*models.Visitor, error) {
	v := &models.Visitor{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, photo_key, type, registered_at
		 FROM visitors WHERE email = $1`, email,
	).Scan(&v.ID, &v.Email, &v.FirstName, &v.LastName, &v.PhotoKey, &v.Type, &v.RegisteredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get visitor: %w", err)
	}

	visits, err := s.listEntries(ctx, &v.ID)
	if err != nil {
		return nil, err
	}
	v.Visits = visits
	return v, nil
}

// ListVisitorsWithHistory returns every visitor with the full visit
// history attached, in registration order. This is the corpus the
// aggregation engine consumes.
func (s *PostgresStore) ListVisitorsWithHistory(ctx context.Context) ([]models.Visitor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, first_name, last_name, photo_key, type, registered_at
		 FROM visitors ORDER BY registered_at`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var visitors []models.Visitor
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.ID, &v.Email, &v.FirstName, &v.LastName, &v.PhotoKey, &v.Type, &v.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		index[v.ID] = len(visitors)
		visitors = append(visitors, v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list visitors: %w", rows.Err())
	}

	entries, err := s.listEntries(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if i, ok := index[e.VisitorID]; ok {
			visitors[i].Visits = append(visitors[i].Visits, e)
		}
	}
	return visitors, nil
}

func (s *PostgresStore) listEntries(ctx context.Context, visitorID *uuid.UUID) ([]models.VisitEntry, error) {
	query := `SELECT id, visitor_id, date, time_of_day, check_in_time, check_out_time,
			purpose, language, contact, created_at
		 FROM visit_entries`
	var args []interface{}
	if visitorID != nil {
		query += ` WHERE visitor_id = $1`
		args = append(args, *visitorID)
	}
	query += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.VisitEntry
	for rows.Next() {
		var e models.VisitEntry
		if err := rows.Scan(&e.ID, &e.VisitorID, &e.Date, &e.TimeOfDay, &e.CheckInTime, &e.CheckOutTime,
			&e.Purpose, &e.Language, &e.Contact, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan visit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Visit entries ---

// AppendCheckIn appends an open visit entry for (visitor, date). When
// one is already open for that date it merges purpose, contact and
// language into it instead of duplicating. The first check-in instant
// of an open entry is preserved on merge.
func (s *PostgresStore) AppendCheckIn(ctx context.Context, e *models.VisitEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO visit_entries (id, visitor_id, date, time_of_day, check_in_time, purpose, language, contact)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (visitor_id, date) WHERE check_out_time IS NULL DO UPDATE SET
			purpose  = EXCLUDED.purpose,
			language = EXCLUDED.language,
			contact  = EXCLUDED.contact
		 RETURNING id, check_in_time, created_at`,
		e.ID, e.VisitorID, e.Date, e.TimeOfDay, e.CheckInTime, e.Purpose, e.Language, e.Contact,
	).Scan(&e.ID, &e.CheckInTime, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append check-in: %w", err)
	}
	return nil
}

// CloseOpenVisit sets the check-out instant on the unique open entry
// for (email, date). Returns nil entry when no open visit matches.
func (s *PostgresStore) CloseOpenVisit(ctx context.Context, email, date string, at time.Time) (*models.VisitEntry, error) {
	e := &models.VisitEntry{}
	err := s.pool.QueryRow(ctx,
		`UPDATE visit_entries ve SET check_out_time = $1
		 FROM visitors v
		 WHERE ve.visitor_id = v.id
		   AND v.email = $2
		   AND ve.date = $3
		   AND ve.check_in_time IS NOT NULL
		   AND ve.check_out_time IS NULL
		 RETURNING ve.id, ve.visitor_id, ve.date, ve.time_of_day, ve.check_in_time, ve.check_out_time,
			ve.purpose, ve.language, ve.contact, ve.created_at`,
		at, email, date,
	).Scan(&e.ID, &e.VisitorID, &e.Date, &e.TimeOfDay, &e.CheckInTime, &e.CheckOutTime,
		&e.Purpose, &e.Language, &e.Contact, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("close open visit: %w", err)
	}
	return e, nil
}

// --- Employees ---

func (s *PostgresStore) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	emp.ID = uuid.New()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO employees (id, email, name, role, department, location, guidance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		emp.ID, emp.Email, emp.Name, emp.Role, emp.Department, emp.Location, emp.Guidance,
	).Scan(&emp.CreatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, name, role, department, location, guidance, created_at
		 FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var emp models.Employee
		if err := rows.Scan(&emp.ID, &emp.Email, &emp.Name, &emp.Role, &emp.Department,
			&emp.Location, &emp.Guidance, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// FindEmployee looks up an employee by exact name or email,
// case-insensitively. Returns nil when no record matches.
func (s *PostgresStore) FindEmployee(ctx context.Context, nameOrEmail string) (*models.Employee, error) {
	emp := &models.Employee{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, role, department, location, guidance, created_at
		 FROM employees WHERE lower(name) = lower($1) OR lower(email) = lower($1)`,
		nameOrEmail,
	).Scan(&emp.ID, &emp.Email, &emp.Name, &emp.Role, &emp.Department,
		&emp.Location, &emp.Guidance, &emp.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return emp, nil
}
