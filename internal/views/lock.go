package views

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout bounds how long Save and Delete wait for another pm process.
const LockTimeout = 2 * time.Second

const lockPollInterval = 10 * time.Millisecond

var errLockTimeout = errors.New("timed out waiting for views lock")

// lockPath is the sidecar file guarding path. It is never removed, so every
// process locks the same inode.
func lockPath(path string) string {
	return path + ".lock"
}

// withLock runs fn while holding an exclusive flock on the sidecar of path.
// The lock is polled non-blocking until timeout elapses.
func withLock(path string, timeout time.Duration, fn func() error) error {
	f, err := os.OpenFile(lockPath(path), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("opening views lock: %w", err)
	}
	defer f.Close()

	fd := int(f.Fd())
	deadline := time.Now().Add(timeout)

	for {
		err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return fmt.Errorf("locking %s: %w", path, err)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(lockPollInterval)
	}

	defer func() { _ = unix.Flock(fd, unix.LOCK_UN) }()

	return fn()
}
