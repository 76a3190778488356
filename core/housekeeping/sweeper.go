package housekeeping

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/kilianp07/evbms/core/logger"
)

// Generated charts are named with a UUID plus the renderer extension. Only
// files matching this pattern are ever deleted; the placeholder and any
// foreign files are left alone.
var chartPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(png|html)$`)

// Sweeper deletes stale generated chart files from the static directory so
// disk usage stays bounded at one file per recent prediction.
type Sweeper struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	log      logger.Logger

	mu      sync.Mutex
	lastRun time.Time
	deleted int
}

// New creates a Sweeper over dir removing matching files older than maxAge.
// interval gates both the background loop and opportunistic MaybeSweep calls.
func New(dir string, maxAge, interval time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{dir: dir, maxAge: maxAge, interval: interval, log: log}
}

// Run sweeps on every interval tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepNow()
		}
	}
}

// MaybeSweep runs a sweep if at least one interval has elapsed since the last
// one. It is cheap to call from request handlers.
func (s *Sweeper) MaybeSweep() {
	s.mu.Lock()
	due := time.Since(s.lastRun) >= s.interval
	s.mu.Unlock()
	if due {
		s.SweepNow()
	}
}

// SweepNow scans the directory once and deletes stale chart files. Filesystem
// errors are logged and never propagate; the count of deleted files is
// returned.
func (s *Sweeper) SweepNow() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warnf("cleanup: read %s: %v", s.dir, err)
		s.markRun(0)
		return 0
	}
	deleted := 0
	cutoff := time.Now().Add(-s.maxAge)
	for _, e := range entries {
		if e.IsDir() || !chartPattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.log.Warnf("cleanup: stat %s: %v", e.Name(), err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.log.Warnf("cleanup: remove %s: %v", e.Name(), err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		s.log.Infof("cleanup: removed %d stale chart file(s)", deleted)
	}
	s.markRun(deleted)
	return deleted
}

// LastRun returns when the last sweep finished and how many files it deleted.
func (s *Sweeper) LastRun() (time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.deleted
}

func (s *Sweeper) markRun(deleted int) {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.deleted = deleted
	s.mu.Unlock()
}
