package client

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/engine"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
	"github.com/dont-rust-bro/drb/internal/daemon/server"
)

func shortPaths(t *testing.T) config.Paths {
	t.Helper()
	dir, err := os.MkdirTemp("", "drb")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return config.Paths{Dir: dir}
}

func TestSendWithoutDaemon(t *testing.T) {
	paths := shortPaths(t)

	_, err := New(paths).Send(context.Background(), protocol.Status)
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestSendToStaleSocket(t *testing.T) {
	paths := shortPaths(t)

	l, err := net.Listen("unix", paths.SocketFile())
	require.NoError(t, err)
	l.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, l.Close())

	_, err = New(paths).Send(context.Background(), protocol.Status)
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestSendTimesOut(t *testing.T) {
	paths := shortPaths(t)

	// Accepts but never answers.
	l, err := net.Listen("unix", paths.SocketFile())
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	start := time.Now()
	_, err = New(paths).WithTimeout(200*time.Millisecond).Send(context.Background(), protocol.Status)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDaemonNotRunning)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSendRoundTrip(t *testing.T) {
	paths := shortPaths(t)
	srv, err := server.New(paths, engine.New(nil, nil), nil)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background()) }()

	c := New(paths)
	ctx := context.Background()

	resp, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AgentCount())
	assert.False(t, resp.IsVisible())

	for _, cmd := range []protocol.Command{protocol.Show, protocol.Show, protocol.AgentStop} {
		_, err := c.Send(ctx, cmd)
		require.NoError(t, err)
	}

	resp, err = c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AgentCount())
	assert.True(t, resp.IsVisible())

	resp, err = c.Send(ctx, protocol.ParseCommand("bogus"))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "Unknown command: bogus", resp.Message)

	resp, err = c.Send(ctx, protocol.Stop)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}

	_, err = c.Status(ctx)
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
	assert.NoFileExists(t, paths.PidFile())
	assert.NoFileExists(t, paths.SocketFile())
}
