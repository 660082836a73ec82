package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/candidates/internal/domain/candidate"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id         BIGSERIAL PRIMARY KEY,
	first_name TEXT      NOT NULL CHECK (length(btrim(first_name)) > 0),
	last_name  TEXT      NOT NULL CHECK (length(btrim(last_name)) > 0),
	age        INTEGER   NOT NULL CHECK (age BETWEEN 0 AND 150),
	birth_date DATE      NOT NULL
)`

// integrityClass is the SQLSTATE class for integrity constraint violations.
const integrityClass pq.ErrorClass = "23"

// PostgresStore persists candidates in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn, verifies the connection and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", ErrUnavailable, err)
	}
	s, err := NewPostgresStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an open database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("postgres: nil db")
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID != 0 {
		return candidate.Candidate{}, fmt.Errorf("%w: candidate already has id %d", ErrIntegrity, c.ID)
	}
	const query = `
		INSERT INTO candidates (first_name, last_name, age, birth_date)
		VALUES ($1, $2, $3, $4::date)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Age, candidate.FormatDate(c.BirthDate),
	).Scan(&c.ID)
	if err != nil {
		return candidate.Candidate{}, translatePostgres("save candidate", err)
	}
	return c, nil
}

// FindAll implements Store.
func (s *PostgresStore) FindAll(ctx context.Context) ([]candidate.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, age, birth_date FROM candidates ORDER BY id`)
	if err != nil {
		return nil, translatePostgres("find candidates", err)
	}
	defer rows.Close()

	out := make([]candidate.Candidate, 0)
	for rows.Next() {
		var (
			c     candidate.Candidate
			birth time.Time
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &birth); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.BirthDate = candidate.Truncate(birth)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePostgres("iterate candidates", err)
	}
	return out, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM candidates`).Scan(&n); err != nil {
		return 0, translatePostgres("count candidates", err)
	}
	return n, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func translatePostgres(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == integrityClass {
		return fmt.Errorf("%s: %w: %s", op, ErrIntegrity, pqErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
