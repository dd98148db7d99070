package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// managePIDFile writes the process ID to path, optionally holding an
// exclusive flock so a second server on the same path refuses to start.
// The returned cleanup removes the file.
func managePIDFile(path string, lock bool) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) {
		if lock {
			if err := runningOwner(path); err != nil {
				return nil, err
			}
		}
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	}
	if err != nil {
		return nil, fmt.Errorf("open PID file: %w", err)
	}

	if lock {
		if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			f.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("another cortex-server holds %s", path)
			}
			return nil, fmt.Errorf("lock PID file: %w", err)
		}
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err == nil {
		err = f.Sync()
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write PID file: %w", err)
	}

	return func() {
		f.Close() // Releases the flock
		os.Remove(path)
	}, nil
}

// runningOwner returns nil when the PID recorded in path belongs to no live
// process, meaning the file is stale and may be reused
func runningOwner(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		// Unreadable content, treat as stale
		return nil
	}

	proc, _ := os.FindProcess(pid)
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return fmt.Errorf("process %d from %s is still running", pid, path)
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return nil
	default:
		return fmt.Errorf("process %d exists but cannot be signalled: %w", pid, err)
	}
}
