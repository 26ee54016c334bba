// Package jobs owns the long-lived background workers: the 8-day instance
// scheduler and the daily/weekly reset jobs, each a single goroutine guarded
// by a cross-process file lock so one process-wide instance runs at a time.
package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// Guard is the cross-process singleton primitive a runner acquires before its
// loop starts. Acquire returning (false, nil) means another process already
// runs this job kind; that is a normal outcome, not an error.
type Guard interface {
	Acquire() (bool, error)
	Release() error
}

// FileGuard implements Guard with an advisory exclusive file lock, one lock
// file per job kind. The file carries "{pid}@{hostname} {timestamp}" so an
// operator can see who owns it.
type FileGuard struct {
	path string
	fl   *flock.Flock
}

func NewFileGuard(dir, jobKind string) *FileGuard {
	return &FileGuard{path: filepath.Join(dir, fmt.Sprintf("productiva_%s.lock", jobKind))}
}

func (g *FileGuard) Acquire() (bool, error) {
	g.fl = flock.New(g.path)

	locked, err := g.fl.TryLock()
	if err != nil {
		return false, err
	}
	if !locked {
		return false, nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	owner := fmt.Sprintf("%d@%s %s", os.Getpid(), hostname, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(g.path, []byte(owner), 0o644); err != nil {
		// Diagnostic content only; the lock itself is already held.
		logrus.WithError(err).WithField("path", g.path).Warn("jobs: writing lock owner")
	}

	return true, nil
}

func (g *FileGuard) Release() error {
	if g.fl == nil {
		return nil
	}
	return g.fl.Unlock()
}
