package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

// fakeClock advances one second per call so every save gets a distinct
// backup filename.
func fakeClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func fixture(t *testing.T, id, date string, amount float64, tags ...string) core.Expense {
	t.Helper()
	e, err := core.NewExpense(id, date, amount, "Food & Dining", "Lunch", tags)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return e
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := []core.Expense{
		fixture(t, "aaaa1111", "2024-03-01", 12.50, "work", "morning"),
		fixture(t, "bbbb2222", "2024-03-02", 7.00),
	}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, skipped, err := s.Load()
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

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	got, skipped, err := s.Load()
	if err != nil {
		t.Fatalf("missing snapshot must not be an error, got %v", err)
	}
	if len(got) != 0 || len(skipped) != 0 {
		t.Fatalf("expected empty first-run state, got %v, %v", got, skipped)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.SnapshotPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, _, err := s.Load()
	if err == nil {
		t.Fatal("corrupt snapshot must report an error")
	}
	if len(got) != 0 {
		t.Fatalf("corrupt snapshot must yield an empty list, got %v", got)
	}
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	s := newTestStore(t)
	doc := `{
  "expenses": [
    {"id": "aaaa1111", "date": "2024-03-01", "amount": 12.5, "category": "Food", "description": "Coffee", "tags": []},
    {"id": "bad00000", "date": "2024-03-02", "amount": -3, "category": "Food", "description": "Broken", "tags": []},
    {"id": "cccc3333", "date": "not-a-date", "amount": 4, "category": "Food", "description": "Broken too", "tags": []}
  ],
  "metadata": {"saved_at": "2024-03-02T10:00:00Z", "total_expenses": 3, "total_amount": 13.5}
}`
	if err := os.WriteFile(s.SnapshotPath(), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, skipped, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "aaaa1111" {
		t.Fatalf("expected only the valid record, got %+v", got)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skip reports, got %v", skipped)
	}
	if skipped[0].Index != 1 || skipped[1].Index != 2 {
		t.Fatalf("skip reports must carry record indexes: %v", skipped)
	}
}

func TestBackupRotation(t *testing.T) {
	s := newTestStore(t)
	clock := fakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.now = clock

	expenses := []core.Expense{fixture(t, "aaaa1111", "2024-03-01", 12.50)}

	// First save has nothing to back up; the next five create one backup
	// each, reaching the cap exactly.
	for i := 0; i < 6; i++ {
		if err := s.Save(expenses); err != nil {
			t.Fatalf("save %d: %v", i+1, err)
		}
		touchBackups(t, s)
	}
	backups, err := s.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(backups) != 5 {
		t.Fatalf("after 6 saves want 5 backups, got %d", len(backups))
	}
	oldest := backups[len(backups)-1].Name

	// One more save pushes past the cap and prunes the oldest.
	if err := s.Save(expenses); err != nil {
		t.Fatalf("save 7: %v", err)
	}
	backups, err = s.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(backups) != 5 {
		t.Fatalf("after 7 saves want 5 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Name == oldest {
			t.Fatalf("oldest backup %s should have been pruned", oldest)
		}
	}
}

// touchBackups pins each backup's mtime to the timestamp embedded in its
// name, so rotation by modification time is deterministic in tests.
func touchBackups(t *testing.T, s *FileStore) {
	t.Helper()
	backups, err := s.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range backups {
		stamp := b.Name[len(backupPrefix) : len(b.Name)-len(".json")]
		ts, err := time.Parse("20060102_150405", stamp)
		if err != nil {
			t.Fatalf("unexpected backup name %s: %v", b.Name, err)
		}
		path := filepath.Join(s.backupDir, b.Name)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRestoreFromBackup(t *testing.T) {
	s := newTestStore(t)
	s.now = fakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	first := []core.Expense{fixture(t, "aaaa1111", "2024-03-01", 12.50)}
	second := []core.Expense{fixture(t, "bbbb2222", "2024-03-02", 7.00)}

	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	// The only backup holds the first state.
	got, skipped, err := s.RestoreFromBackup("")
	if err != nil {
		t.Fatalf("RestoreFromBackup: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if !reflect.DeepEqual(got, first) {
		t.Fatalf("restore mismatch: got %+v, want %+v", got, first)
	}
}

func TestRestoreFromBackupNoneAvailable(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.RestoreFromBackup(""); err == nil {
		t.Fatal("expected error when no backups exist")
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.now = fakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	expenses := []core.Expense{fixture(t, "aaaa1111", "2024-03-01", 12.50)}

	for i := 0; i < 3; i++ {
		if err := s.Save(expenses); err != nil {
			t.Fatal(err)
		}
		touchBackups(t, s)
	}

	backups, err := s.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("want 2 backups, got %d", len(backups))
	}
	if !backups[0].ModTime.After(backups[1].ModTime) {
		t.Fatalf("backups not sorted newest first: %+v", backups)
	}
	if backups[0].Size == 0 {
		t.Fatal("backup size should be recorded")
	}
}
