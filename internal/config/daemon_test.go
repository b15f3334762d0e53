package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// holdLock takes the daemon lock on a separate descriptor, the way a running
// daemon would, and releases it when the test ends.
func holdLock(t *testing.T, p Paths) {
	t.Helper()
	lock := flock.New(p.LockFile())
	locked, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = lock.Unlock() })
}

func TestIsDaemonRunning(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		locked  bool
		want    bool
	}{
		{name: "no record", content: nil, locked: true, want: false},
		{name: "garbage", content: strPtr("not-a-pid"), locked: true, want: false},
		{name: "empty", content: strPtr(""), locked: true, want: false},
		{name: "negative", content: strPtr("-4"), locked: true, want: false},
		{name: "current process", content: strPtr(strconv.Itoa(os.Getpid())), locked: true, want: true},
		{name: "current process with newline", content: strPtr(strconv.Itoa(os.Getpid()) + "\n"), locked: true, want: true},
		{name: "live pid without lock holder", content: strPtr(strconv.Itoa(os.Getpid())), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paths{Dir: t.TempDir()}
			if tt.locked {
				holdLock(t, p)
			}
			if tt.content != nil {
				require.NoError(t, os.WriteFile(p.PidFile(), []byte(*tt.content), 0o644))
			}
			assert.Equal(t, tt.want, IsDaemonRunning(p))
		})
	}
}

func TestIsDaemonRunningExitedProcess(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	p := Paths{Dir: t.TempDir()}
	require.NoError(t, WritePid(p, cmd.Process.Pid))

	// The child has been reaped by Run, so its pid no longer names a process.
	assert.False(t, IsDaemonRunning(p))
}

func TestLockHeld(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	assert.False(t, LockHeld(p))
	assert.False(t, LockHeld(p), "probing must not leave the lock taken")

	holdLock(t, p)
	assert.True(t, LockHeld(p))

	assert.False(t, LockHeld(Paths{Dir: filepath.Join(t.TempDir(), "missing")}))
}

func TestProcessAliveInitIsConservative(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can signal pid 1")
	}
	// pid 1 exists but belongs to root: EPERM must read as alive.
	assert.True(t, ProcessAlive(1))
}

func TestWriteAndRemovePid(t *testing.T) {
	p := Paths{Dir: filepath.Join(t.TempDir(), "nested")}

	require.NoError(t, WritePid(p, 4242))
	assert.Equal(t, 4242, ReadPid(p))

	require.NoError(t, RemovePid(p))
	assert.Equal(t, 0, ReadPid(p))
	require.NoError(t, RemovePid(p), "removing an absent record is not an error")
}

func TestLoadDaemonInfo(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	assert.Nil(t, LoadDaemonInfo(p))

	require.NoError(t, WritePid(p, os.Getpid()))
	assert.Nil(t, LoadDaemonInfo(p), "a pid without the lock is a stale record")

	holdLock(t, p)
	info := LoadDaemonInfo(p)
	require.NotNil(t, info)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.Equal(t, p.SocketFile(), info.Socket)
	assert.False(t, info.StartedAt.IsZero())
}

func strPtr(s string) *string { return &s }

