package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// BackupInfo describes one backup file, as returned by ListBackups.
type BackupInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// createBackup copies the live snapshot into the backup directory under a
// timestamped name and prunes old backups.
func (s *FileStore) createBackup() error {
	name := backupPrefix + s.now().Format("20060102_150405") + ".json"
	dst := filepath.Join(s.backupDir, name)
	if err := copyFile(s.dataFile, dst); err != nil {
		return fmt.Errorf("copy snapshot to %s: %w", dst, err)
	}
	s.logger.Debug("backup created", log.FieldPath, dst)

	if err := s.pruneBackups(maxBackups); err != nil {
		s.logger.Warn("could not prune old backups", log.FieldError, err)
	}
	return nil
}

// pruneBackups deletes all but the keep most recently modified backups.
func (s *FileStore) pruneBackups(keep int) error {
	backups, err := s.backupFiles()
	if err != nil {
		return err
	}
	for _, b := range backups[min(keep, len(backups)):] {
		path := filepath.Join(s.backupDir, b.Name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old backup %s: %w", path, err)
		}
		s.logger.Debug("removed old backup", log.FieldPath, path)
	}
	return nil
}

// ListBackups returns the available backups, most recently modified first.
func (s *FileStore) ListBackups() ([]BackupInfo, error) {
	return s.backupFiles()
}

// RestoreFromBackup copies the named backup over the live snapshot and
// loads it. With an empty name the most recent backup is used.
func (s *FileStore) RestoreFromBackup(name string) ([]core.Expense, []SkipReport, error) {
	if name == "" {
		backups, err := s.backupFiles()
		if err != nil {
			return nil, nil, err
		}
		if len(backups) == 0 {
			return nil, nil, errors.New("no backup files found")
		}
		name = backups[0].Name
	}

	src := filepath.Join(s.backupDir, name)
	if _, err := os.Stat(src); err != nil {
		return nil, nil, fmt.Errorf("backup %s: %w", name, err)
	}
	if err := copyFile(src, s.dataFile); err != nil {
		return nil, nil, fmt.Errorf("restore backup %s: %w", name, err)
	}

	s.logger.Info("restored from backup", log.FieldPath, src)
	return s.Load()
}

// backupFiles lists backup files sorted by modification time, newest first.
func (s *FileStore) backupFiles() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory %s: %w", s.backupDir, err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
