// Package staging clears raw uploads left behind in the staging directory
// by a process that died before its deferred cleanup ran.
package staging

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/princekumarofficial/tubely-service/internal/metrics"
)

type Sweeper struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

func NewSweeper(dir string, interval, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		dir:      dir,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Start sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Staging sweeper started",
		slog.String("dir", s.dir),
		slog.String("interval", s.interval.String()),
		slog.String("max_age", s.maxAge.String()))

	s.sweepAndLog()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Staging sweeper shutting down")
			return
		case <-ticker.C:
			s.sweepAndLog()
		}
	}
}

func (s *Sweeper) sweepAndLog() {
	start := time.Now()

	removed, err := s.Sweep()
	if err != nil {
		s.logger.Error("Failed to sweep staging directory",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return
	}

	s.logger.Info("Completed staging sweep",
		slog.Int("files_removed", removed),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
}

// Sweep removes regular files in the staging directory last modified more
// than maxAge ago. Subdirectories are left alone. A missing directory is not
// an error.
func (s *Sweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// removed since ReadDir
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove staged file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		removed++
		metrics.StagingFilesRemoved.Inc()
	}

	return removed, nil
}
