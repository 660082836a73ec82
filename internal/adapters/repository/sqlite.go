package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/okian/candidates/internal/domain/candidate"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT    NOT NULL CHECK (length(trim(first_name)) > 0),
	last_name  TEXT    NOT NULL CHECK (length(trim(last_name)) > 0),
	age        INTEGER NOT NULL CHECK (age BETWEEN 0 AND 150),
	birth_date TEXT    NOT NULL CHECK (date(birth_date) IS NOT NULL)
)`

// SQLiteStore persists candidates in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every pooled connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database, applies pragmas and migrates.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("sqlite: nil db")
	}
	stmts := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		sqliteSchema,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate sqlite %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID != 0 {
		return candidate.Candidate{}, fmt.Errorf("%w: candidate already has id %d", ErrIntegrity, c.ID)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO candidates (first_name, last_name, age, birth_date) VALUES (?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Age, candidate.FormatDate(c.BirthDate))
	if err != nil {
		return candidate.Candidate{}, translateSQLite("save candidate", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("save candidate: last insert id: %w", err)
	}
	c.ID = id
	return c, nil
}

// FindAll implements Store.
func (s *SQLiteStore) FindAll(ctx context.Context) ([]candidate.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, age, birth_date FROM candidates ORDER BY id`)
	if err != nil {
		return nil, translateSQLite("find candidates", err)
	}
	defer rows.Close()

	out := make([]candidate.Candidate, 0)
	for rows.Next() {
		var (
			c     candidate.Candidate
			birth string
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &birth); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if c.BirthDate, err = candidate.ParseDate(birth); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateSQLite("iterate candidates", err)
	}
	return out, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM candidates`).Scan(&n); err != nil {
		return 0, translateSQLite("count candidates", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func translateSQLite(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w: %s", op, ErrIntegrity, sqliteErr.Error())
	}
	return fmt.Errorf("%s: %w", op, err)
}
