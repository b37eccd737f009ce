// Package storage persists converted outputs under unique names and prunes
// them by age on a schedule. The engine itself never touches the
// filesystem; this package belongs to the surrounding application.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Store writes outputs into a single directory with uuid-based filenames.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates the output directory if needed and returns a store over it.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a fresh uuid filename with the given extension
// (without dot) and returns the filename.
func (s *Store) Save(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return name, nil
}

// Count returns the number of regular files currently stored.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n, nil
}

// CleanupOlderThan deletes files whose modification time is older than
// maxAge and returns how many were removed. Files that vanish mid-walk or
// fail to delete are skipped, not fatal.
func (s *Store) CleanupOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.logger.Warn("failed to delete expired output", "file", e.Name(), "err", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// ScheduleCleanup starts an hourly cleanup job removing files older than
// maxAge. The returned cron owns the goroutine; callers stop it on
// shutdown.
func (s *Store) ScheduleCleanup(maxAge time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		deleted, err := s.CleanupOlderThan(maxAge)
		if err != nil {
			s.logger.Error("scheduled cleanup failed", "err", err)
			return
		}
		if deleted > 0 {
			s.logger.Info("cleaned up expired outputs", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cleanup: %w", err)
	}
	c.Start()
	return c, nil
}
