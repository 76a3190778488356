package housekeeping

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if age > 0 {
		old := time.Now().Add(-age)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
	}
	return path
}

func TestSweepNowDeletesOnlyStaleCharts(t *testing.T) {
	dir := t.TempDir()
	oldChart := touch(t, dir, uuid.New().String()+".png", time.Hour)
	oldHTML := touch(t, dir, uuid.New().String()+".html", time.Hour)
	freshChart := touch(t, dir, uuid.New().String()+".png", 0)
	foreign := touch(t, dir, "notes.txt", time.Hour)
	placeholder := touch(t, dir, "placeholder.png", time.Hour)

	s := New(dir, 30*time.Minute, 10*time.Minute, nopLogger{})
	if deleted := s.SweepNow(); deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	for _, gone := range []string{oldChart, oldHTML} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("%s should be deleted", gone)
		}
	}
	for _, kept := range []string{freshChart, foreign, placeholder} {
		if _, err := os.Stat(kept); err != nil {
			t.Fatalf("%s should survive: %v", kept, err)
		}
	}
}

func TestSweepNowMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), time.Minute, time.Minute, nopLogger{})
	if deleted := s.SweepNow(); deleted != 0 {
		t.Fatalf("deleted = %d", deleted)
	}
}

func TestMaybeSweepGating(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, uuid.New().String()+".png", time.Hour)

	s := New(dir, 30*time.Minute, time.Hour, nopLogger{})
	s.MaybeSweep()
	last1, deleted := s.LastRun()
	if last1.IsZero() || deleted != 1 {
		t.Fatalf("first sweep: last=%v deleted=%d", last1, deleted)
	}

	// A second stale file appears, but the interval has not elapsed.
	stale := touch(t, dir, uuid.New().String()+".png", time.Hour)
	s.MaybeSweep()
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("gated sweep should not have run: %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(t.TempDir(), time.Minute, 10*time.Millisecond, nopLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
