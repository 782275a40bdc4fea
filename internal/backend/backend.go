// Package backend selects the persistence backend for the expense store.
package backend

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Repository is the persistence contract the presentation layer works
// against: overwrite the stored list, read it back.
type Repository interface {
	Save(ctx context.Context, expenses []core.Expense) error
	Load(ctx context.Context) ([]core.Expense, []storage.SkipReport, error)
	Close() error
}

// BackendType represents the configured backend.
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a repository.
type Config struct {
	Type BackendType

	// JSON backend
	DataDir string

	// SQLite backend
	SQLiteDBPath string
}
