package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireAndReadPidfile(t *testing.T) {
	// GIVEN
	pidfile := NewPidfile(filepath.Join(t.TempDir(), "governor.pid"))

	// WHEN
	err := pidfile.Acquire(os.Getpid())

	// THEN
	assert.NoError(t, err)
	pid, err := pidfile.Read()
	assert.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquireFailsWhileOwnerIsAlive(t *testing.T) {
	// GIVEN
	pidfile := NewPidfile(filepath.Join(t.TempDir(), "governor.pid"))
	// the test process itself plays the live governor
	err := pidfile.Acquire(os.Getpid())
	assert.NoError(t, err)

	// WHEN
	err = pidfile.Acquire(os.Getpid())

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestAcquireReplacesStalePidfile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "governor.pid")
	pidfile := NewPidfile(path)
	// a pid far beyond pid_max cannot belong to a live process
	err := WriteIntToFileAtomic(99999999, path)
	assert.NoError(t, err)

	// WHEN
	err = pidfile.Acquire(os.Getpid())

	// THEN
	assert.NoError(t, err)
	pid, err := pidfile.Read()
	assert.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestReadMissingPidfile(t *testing.T) {
	// GIVEN
	pidfile := NewPidfile(filepath.Join(t.TempDir(), "governor.pid"))

	// WHEN
	pid, err := pidfile.Read()

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, pid)
}

func TestReadInvalidPidfile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "governor.pid")
	err := os.WriteFile(path, []byte("0"), 0644)
	assert.NoError(t, err)
	pidfile := NewPidfile(path)

	// WHEN
	pid, err := pidfile.Read()

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, pid)
}

func TestReleasePidfile(t *testing.T) {
	// GIVEN
	pidfile := NewPidfile(filepath.Join(t.TempDir(), "governor.pid"))
	err := pidfile.Acquire(os.Getpid())
	assert.NoError(t, err)

	// WHEN
	err = pidfile.Release()

	// THEN
	assert.NoError(t, err)
	_, err = pidfile.Read()
	assert.Error(t, err)
}

func TestReleaseMissingPidfileIsIdempotent(t *testing.T) {
	// GIVEN
	pidfile := NewPidfile(filepath.Join(t.TempDir(), "governor.pid"))

	// WHEN
	err := pidfile.Release()

	// THEN
	assert.NoError(t, err)
}

func TestIsProcessAlive(t *testing.T) {
	// GIVEN
	self := os.Getpid()

	// WHEN
	alive := IsProcessAlive(self)
	dead := IsProcessAlive(99999999)

	// THEN
	assert.True(t, alive)
	assert.False(t, dead)
}
