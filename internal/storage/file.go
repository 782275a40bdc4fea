// Package storage persists the expense list. The primary format is a JSON
// snapshot with rotating backups plus CSV as an interchange format; an
// alternative SQLite repository lives in sqlite.go.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const (
	snapshotName = "expenses.json"
	backupPrefix = "expenses_backup_"
	maxBackups   = 5
)

// SkipReport records one rejected record from a batch operation (snapshot
// load or CSV import) so callers can audit what was dropped.
type SkipReport struct {
	Index  int // record index, or line number for CSV rows
	Reason error
}

func (r SkipReport) String() string {
	return fmt.Sprintf("record %d: %v", r.Index, r.Reason)
}

// snapshotDoc is the on-disk layout of the snapshot file.
type snapshotDoc struct {
	Expenses []map[string]any `json:"expenses"`
	Metadata metadata         `json:"metadata"`
}

type metadata struct {
	SavedAt       string  `json:"saved_at"`
	TotalExpenses int     `json:"total_expenses"`
	TotalAmount   float64 `json:"total_amount"`
}

// FileStore reads and writes the JSON snapshot, its backups, and CSV
// exports under a single data directory.
type FileStore struct {
	dataDir   string
	backupDir string
	exportDir string
	dataFile  string
	logger    *slog.Logger

	now func() time.Time // test hook for timestamped filenames
}

func NewFileStore(dataDir string) (*FileStore, error) {
	s := &FileStore{
		dataDir:   dataDir,
		backupDir: filepath.Join(dataDir, "backup"),
		exportDir: filepath.Join(dataDir, "exports"),
		dataFile:  filepath.Join(dataDir, snapshotName),
		logger:    slog.Default().With(log.FieldComponent, log.ComponentStorage),
		now:       time.Now,
	}
	for _, dir := range []string{s.dataDir, s.backupDir, s.exportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// Save writes the snapshot. An existing snapshot is copied to the backup
// directory first and old backups are pruned to the most recent five. A
// failed backup is logged but does not block the save.
func (s *FileStore) Save(expenses []core.Expense) error {
	if _, err := os.Stat(s.dataFile); err == nil {
		if err := s.createBackup(); err != nil {
			s.logger.Warn("could not create backup", log.FieldError, err)
		}
	}

	doc := snapshotDoc{
		Expenses: make([]map[string]any, 0, len(expenses)),
		Metadata: metadata{
			SavedAt:       s.now().Format(time.RFC3339),
			TotalExpenses: len(expenses),
		},
	}
	for _, e := range expenses {
		doc.Expenses = append(doc.Expenses, e.ToMap())
		doc.Metadata.TotalAmount += e.Amount
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.dataFile, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.dataFile, err)
	}

	s.logger.Debug("snapshot saved", log.FieldPath, s.dataFile, log.FieldCount, len(expenses))
	return nil
}

// Load reads the snapshot. A missing file is the normal first-run state and
// yields an empty list with no error. A file that is not valid JSON yields
// an error and an empty list. Individual records that fail validation are
// skipped and reported, not fatal to the batch.
func (s *FileStore) Load() ([]core.Expense, []SkipReport, error) {
	data, err := os.ReadFile(s.dataFile)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no snapshot found, starting empty", log.FieldPath, s.dataFile)
		return []core.Expense{}, nil, nil
	}
	if err != nil {
		return []core.Expense{}, nil, fmt.Errorf("read snapshot %s: %w", s.dataFile, err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return []core.Expense{}, nil, fmt.Errorf("snapshot %s is corrupted: %w", s.dataFile, err)
	}

	expenses := make([]core.Expense, 0, len(doc.Expenses))
	var skipped []SkipReport
	for i, record := range doc.Expenses {
		e, err := core.FromMap(record)
		if err != nil {
			skipped = append(skipped, SkipReport{Index: i, Reason: err})
			s.logger.Warn("skipping invalid expense record", "index", i, log.FieldError, err)
			continue
		}
		expenses = append(expenses, e)
	}

	s.logger.Info("snapshot loaded", log.FieldPath, s.dataFile, log.FieldCount, len(expenses), log.FieldSkipped, len(skipped))
	return expenses, skipped, nil
}

// SnapshotPath returns the path of the live snapshot file.
func (s *FileStore) SnapshotPath() string {
	return s.dataFile
}
