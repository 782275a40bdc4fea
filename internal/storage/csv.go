package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

var csvHeader = []string{"id", "date", "amount", "category", "description", "tags"}

// ExportCSV writes the expenses to a CSV file under the exports directory
// and returns the full path. With an empty filename a timestamped one is
// generated. Tags are joined into a single comma-space separated field.
func (s *FileStore) ExportCSV(expenses []core.Expense, filename string) (string, error) {
	if filename == "" {
		filename = "expenses_export_" + s.now().Format("20060102_150405") + ".csv"
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.exportDir, filename)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Date,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Description,
			strings.Join(e.Tags, ", "),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	s.logger.Info("expenses exported", log.FieldPath, path, log.FieldCount, len(expenses))
	return path, nil
}

// ImportCSV reads expenses back from a CSV file. Relative filenames are
// resolved against the exports directory. Rows that fail field or amount
// parsing are skipped and reported with their line number.
func (s *FileStore) ImportCSV(filename string) ([]core.Expense, []SkipReport, error) {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.exportDir, filename)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open import file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row length checked per record below
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return []core.Expense{}, nil, nil
	}

	var (
		expenses []core.Expense
		skipped  []SkipReport
	)
	for i, row := range rows[1:] { // skip header
		line := i + 2
		e, err := expenseFromRow(row)
		if err != nil {
			skipped = append(skipped, SkipReport{Index: line, Reason: err})
			s.logger.Warn("skipping invalid csv row", "line", line, log.FieldError, err)
			continue
		}
		expenses = append(expenses, e)
	}

	s.logger.Info("expenses imported", log.FieldPath, path, log.FieldCount, len(expenses), log.FieldSkipped, len(skipped))
	return expenses, skipped, nil
}

func expenseFromRow(row []string) (core.Expense, error) {
	if len(row) != len(csvHeader) {
		return core.Expense{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(row))
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse amount %q: %w", row[2], core.ErrInvalidAmount)
	}
	var tags []string
	if row[5] != "" {
		for _, tag := range strings.Split(row[5], ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}
	return core.NewExpense(row[0], row[1], amount, row[3], row[4], tags)
}
