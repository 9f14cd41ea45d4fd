package util

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Pidfile is the single-instance registry for the adaptive governor.
// At most one governor may be active at a time; the pidfile records the
// pid of the live one and is removed on clean shutdown. Stale files
// left behind by a crashed governor are detected by probing the
// recorded pid and silently replaced.
type Pidfile struct {
	path string
}

func NewPidfile(path string) Pidfile {
	return Pidfile{path: path}
}

func (p Pidfile) Path() string {
	return p.path
}

// Acquire registers the given pid as the active governor. It fails if
// another live governor is already registered.
func (p Pidfile) Acquire(pid int) error {
	existing, err := p.Read()
	if err == nil && IsProcessAlive(existing) {
		return fmt.Errorf("an adaptive governor is already running with PID %d", existing)
	}
	return WriteIntToFileAtomic(pid, p.path)
}

// Read returns the registered pid, or an error if no governor is
// registered.
func (p Pidfile) Read() (int, error) {
	pid, err := ReadIntFromFile(p.path)
	if err != nil {
		return -1, err
	}
	if pid <= 0 {
		return -1, fmt.Errorf("pidfile %s contains an invalid pid: %d", p.path, pid)
	}
	return pid, nil
}

func (p Pidfile) Release() error {
	err := os.Remove(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// IsProcessAlive probes a pid with a null signal. A permission error
// still means the process exists.
func IsProcessAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
