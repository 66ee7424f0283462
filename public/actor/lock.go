package actor

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// instanceLock is a single-instance file lock guarding a given actor name
// against double-instantiation: two processes claiming the same actor
// name would fight over the same bus identity and device handles.
type instanceLock struct {
	file *os.File
}

func lockPath(name string) string {
	return fmt.Sprintf("/tmp/orover-%s.lock", name)
}

// acquireLock opens (creating if needed) the lock file for name and takes
// an exclusive, non-blocking flock on it. Returns an error if another
// instance already holds it.
func acquireLock(name string) (*instanceLock, error) {
	path := lockPath(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("actor: open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("actor: %s is already running (lock held on %s): %w", name, path, err)
	}
	return &instanceLock{file: f}, nil
}

// release unlocks and closes the lock file.
func (l *instanceLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}
