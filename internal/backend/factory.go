package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Result contains the repository, the file store used for CSV interchange
// (and, with the JSON backend, snapshots and backups), and a cleanup hook.
type Result struct {
	Repo    Repository
	Files   *storage.FileStore
	Cleanup func() error
}

// New builds the configured backend. The file store is always created:
// CSV export and import work regardless of which backend holds the
// canonical data.
func New(cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(log.FieldComponent, log.ComponentBackend)
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	files, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize file store: %w", err)
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		logger.Info("initialized sqlite backend", log.FieldPath, cfg.SQLiteDBPath)
		return &Result{Repo: repo, Files: files, Cleanup: repo.Close}, nil
	default:
		logger.Info("initialized json backend", log.FieldPath, cfg.DataDir)
		return &Result{Repo: &fileRepository{files: files}, Files: files, Cleanup: func() error { return nil }}, nil
	}
}

// fileRepository adapts the snapshot FileStore to the Repository contract.
// File I/O is plain blocking work, so the context is unused.
type fileRepository struct {
	files *storage.FileStore
}

func (r *fileRepository) Save(_ context.Context, expenses []core.Expense) error {
	return r.files.Save(expenses)
}

func (r *fileRepository) Load(_ context.Context) ([]core.Expense, []storage.SkipReport, error) {
	return r.files.Load()
}

func (r *fileRepository) Close() error { return nil }
