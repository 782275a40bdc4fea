package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	"fintrack/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the expense list in a local SQLite database. It
// mirrors the snapshot semantics of FileStore: every save replaces the
// whole table, so the database always holds the current store state.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: slog.Default().With(log.FieldComponent, log.ComponentStorage, log.FieldBackend, "sqlite"),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save replaces the stored expense list inside a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	const insert = `INSERT INTO expenses (id, date, amount, category, description, tags, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, e := range expenses {
		tags, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			e.ID, e.Date, e.Amount, e.Category, e.Description, string(tags), i); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("expenses saved", log.FieldCount, len(expenses))
	return nil
}

// Load returns the stored expenses in their original insertion order.
// Rows that no longer pass validation are skipped and reported.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, []SkipReport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, amount, category, description, tags
		FROM expenses ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var (
		expenses []core.Expense
		skipped  []SkipReport
		index    int
	)
	for rows.Next() {
		var (
			id, date, category, description, tagsJSON string
			amount                                    float64
		)
		if err := rows.Scan(&id, &date, &amount, &category, &description, &tagsJSON); err != nil {
			return nil, nil, fmt.Errorf("scan expense row: %w", err)
		}

		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			skipped = append(skipped, SkipReport{Index: index, Reason: fmt.Errorf("decode tags: %w", err)})
			index++
			continue
		}
		e, err := core.NewExpense(id, date, amount, category, description, tags)
		if err != nil {
			skipped = append(skipped, SkipReport{Index: index, Reason: err})
			r.logger.Warn("skipping invalid expense row", log.FieldExpenseID, id, log.FieldError, err)
			index++
			continue
		}
		expenses = append(expenses, e)
		index++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate expense rows: %w", err)
	}

	r.logger.Info("expenses loaded", log.FieldCount, len(expenses), log.FieldSkipped, len(skipped))
	return expenses, skipped, nil
}
