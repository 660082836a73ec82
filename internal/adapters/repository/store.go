// Package repository persists candidates. It is the storage collaborator of
// the candidate service: append-only creation and full scans.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/candidates/internal/domain/candidate"
)

// Store provides create and list access to stored candidates.
type Store interface {
	// Save persists c and returns it with a freshly assigned, never reused ID.
	// Constraint violations are reported as ErrIntegrity.
	Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error)

	// FindAll returns every stored candidate ordered by ID.
	FindAll(ctx context.Context) ([]candidate.Candidate, error)

	// Count returns the number of stored candidates.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connections.
	Close() error
}

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Drivers lists every supported driver name.
func Drivers() []string {
	return []string{DriverMemory, DriverPostgres, DriverSQLite, DriverRedis}
}

// checkIntegrity mirrors the table constraints of the SQL backends for stores
// that have no schema of their own.
func checkIntegrity(c candidate.Candidate) error {
	switch {
	case c.ID != 0:
		return fmt.Errorf("%w: candidate already has id %d", ErrIntegrity, c.ID)
	case strings.TrimSpace(c.FirstName) == "":
		return fmt.Errorf("%w: first name must not be empty", ErrIntegrity)
	case strings.TrimSpace(c.LastName) == "":
		return fmt.Errorf("%w: last name must not be empty", ErrIntegrity)
	case c.Age < 0 || c.Age > candidate.MaxAge:
		return fmt.Errorf("%w: age %d out of range", ErrIntegrity, c.Age)
	case c.BirthDate.IsZero():
		return fmt.Errorf("%w: birth date is required", ErrIntegrity)
	}
	return nil
}
