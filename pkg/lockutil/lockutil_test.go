package lockutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "myapp", time.Second)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "myapp.lock"), lock.Path())
	assert.FileExists(t, lock.Path())

	require.NoError(t, lock.Release())
}

func TestAcquireContended(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "myapp", time.Second)
	require.NoError(t, err)
	defer lock.Release()

	start := time.Now()
	_, err = Acquire(dir, "myapp", 300*time.Millisecond)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrHeld), err.Error())
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestAcquireAfterRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "myapp", time.Second)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	lock, err = Acquire(dir, "myapp", time.Second)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestAcquireDifferentNames(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, "myapp", time.Second)
	require.NoError(t, err)
	defer first.Release()

	second, err := Acquire(dir, "otherapp", time.Second)
	require.NoError(t, err)
	defer second.Release()
}

func TestAcquireZeroTimeoutUsesDefault(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "myapp", 0)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}
