package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func newTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRoundTripKeepsOrder(t *testing.T) {
	r := newTestSQLite(t)
	ctx := context.Background()

	// Deliberately not in date order: Load must return insertion order.
	want := []core.Expense{
		fixture(t, "cccc3333", "2024-03-05", 30.00, "dinner"),
		fixture(t, "aaaa1111", "2024-03-01", 12.50, "work", "morning"),
		fixture(t, "bbbb2222", "2024-03-02", 7.00),
	}

	if err := r.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, skipped, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n  saved:  %+v\n  loaded: %+v", want, got)
	}
}

func TestSQLiteSaveReplacesPrevious(t *testing.T) {
	r := newTestSQLite(t)
	ctx := context.Background()

	first := []core.Expense{
		fixture(t, "aaaa1111", "2024-03-01", 12.50),
		fixture(t, "bbbb2222", "2024-03-02", 7.00),
	}
	if err := r.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := []core.Expense{fixture(t, "cccc3333", "2024-04-01", 99.99)}
	if err := r.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, _, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("save must replace the stored list, got %+v", got)
	}
}

func TestSQLiteLoadSkipsInvalidRows(t *testing.T) {
	r := newTestSQLite(t)
	ctx := context.Background()

	if err := r.Save(ctx, []core.Expense{fixture(t, "aaaa1111", "2024-03-01", 12.50)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Rows written by an older tool or edited by hand can be malformed in
	// ways the insert path never produces.
	const insert = `INSERT INTO expenses (id, date, amount, category, description, tags, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(insert, "badc0de1", "2024-03-02", 5.0, "Food & Dining", "Snack", "not json", 1); err != nil {
		t.Fatalf("insert row with bad tags: %v", err)
	}
	if _, err := r.db.Exec(insert, "badc0de2", "03/04/2024", 5.0, "Food & Dining", "Snack", "[]", 2); err != nil {
		t.Fatalf("insert row with bad date: %v", err)
	}

	got, skipped, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "aaaa1111" {
		t.Fatalf("expected only the valid expense, got %+v", got)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skip reports, got %v", skipped)
	}
	if skipped[0].Index != 1 || skipped[1].Index != 2 {
		t.Fatalf("skip reports must carry the row index, got %v", skipped)
	}
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	ctx := context.Background()

	r, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	want := []core.Expense{fixture(t, "aaaa1111", "2024-03-01", 12.50, "work")}
	if err := r.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening runs the migrations again; an up-to-date schema is a no-op.
	r2, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()

	got, skipped, err := r2.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("data lost across reopen:\n  saved:  %+v\n  loaded: %+v", want, got)
	}
}
