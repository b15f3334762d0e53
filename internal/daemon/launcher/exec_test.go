package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
	"github.com/dont-rust-bro/drb/internal/daemon/engine"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
	"github.com/dont-rust-bro/drb/internal/daemon/server"
)

// childDaemonEnv makes the test binary behave like drbd: serve the state
// directory given by --state-dir, exiting 2 if another daemon owns it.
const childDaemonEnv = "DRB_LAUNCHER_CHILD_DAEMON"

func TestMain(m *testing.M) {
	if os.Getenv(childDaemonEnv) == "1" {
		os.Exit(runChildDaemon(os.Args[1:]))
	}
	os.Exit(m.Run())
}

func runChildDaemon(args []string) int {
	var dir string
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--state-dir" {
			dir = args[i+1]
		}
	}
	srv, err := server.New(config.Paths{Dir: dir}, engine.New(nil, nil), nil)
	if errors.Is(err, server.ErrAlreadyRunning) {
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := srv.Serve(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// processTracker records every daemon process an ExecSpawner starts and how
// each one exited.
type processTracker struct {
	mu     sync.Mutex
	pids   []int
	exits  map[int]int
	exited chan int
}

func newProcessTracker() *processTracker {
	return &processTracker{exits: map[int]int{}, exited: make(chan int, 64)}
}

func (p *processTracker) spawner(t *testing.T) Spawner {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return &trackingSpawner{
		tracker: p,
		inner: ExecSpawner{Binary: exe, Exited: func(pid int, err error) {
			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				code = -1
			}
			p.mu.Lock()
			p.exits[pid] = code
			p.mu.Unlock()
			p.exited <- pid
		}},
	}
}

func (p *processTracker) killAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pid := range p.pids {
		if _, done := p.exits[pid]; !done {
			_ = syscall.Kill(pid, syscall.SIGKILL)
		}
	}
}

func (p *processTracker) waitExits(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.exited:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d daemon processes exited", i, n)
		}
	}
}

type trackingSpawner struct {
	tracker *processTracker
	inner   ExecSpawner
}

func (s *trackingSpawner) Spawn(paths config.Paths) (int, error) {
	pid, err := s.inner.Spawn(paths)
	if err == nil {
		s.tracker.mu.Lock()
		s.tracker.pids = append(s.tracker.pids, pid)
		s.tracker.mu.Unlock()
	}
	return pid, err
}

func TestExecSpawnerConcurrentLaunchesAcrossProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns daemon processes")
	}
	t.Setenv(childDaemonEnv, "1")
	paths := shortPaths(t)

	tracker := newProcessTracker()
	t.Cleanup(tracker.killAll)
	spawner := tracker.spawner(t)

	const n = 6
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := New(paths, spawner).WithBounds(50, 100*time.Millisecond).Ensure(context.Background())
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	tracker.mu.Lock()
	spawned := append([]int(nil), tracker.pids...)
	tracker.mu.Unlock()
	require.NotEmpty(t, spawned)

	// Every spawned process but the winner gives up on the lock and exits.
	tracker.waitExits(t, len(spawned)-1)

	winner := config.ReadPid(paths)
	assert.Contains(t, spawned, winner)
	assert.True(t, config.IsDaemonRunning(paths))

	tracker.mu.Lock()
	for _, pid := range spawned {
		if pid == winner {
			assert.NotContains(t, tracker.exits, pid, "the winner is still serving")
			continue
		}
		assert.Equal(t, 2, tracker.exits[pid], "loser %d", pid)
	}
	tracker.mu.Unlock()

	// A late launch attempt loses to the live daemon the same way.
	late, err := spawner.Spawn(paths)
	require.NoError(t, err)
	tracker.waitExits(t, 1)
	tracker.mu.Lock()
	assert.Equal(t, 2, tracker.exits[late])
	tracker.mu.Unlock()

	resp, err := client.New(paths).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())

	_, err = client.New(paths).Send(context.Background(), protocol.Stop)
	require.NoError(t, err)
	tracker.waitExits(t, 1)
	tracker.mu.Lock()
	assert.Equal(t, 0, tracker.exits[winner])
	tracker.mu.Unlock()
	assert.False(t, config.IsDaemonRunning(paths))
	assert.NoFileExists(t, paths.SocketFile())
}
