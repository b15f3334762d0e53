// Package client sends single commands to a running daemon.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

// DefaultTimeout bounds connect, write and read together.
const DefaultTimeout = 5 * time.Second

// ErrDaemonNotRunning means no daemon is reachable on the state directory's socket.
// Callers treat it as an expected condition, not a protocol failure.
var ErrDaemonNotRunning = errors.New("daemon is not running")

// Client talks to the daemon of one state directory.
type Client struct {
	socket  string
	timeout time.Duration
}

// New returns a client for the daemon owning paths.
func New(paths config.Paths) *Client {
	return &Client{socket: paths.SocketFile(), timeout: DefaultTimeout}
}

// WithTimeout returns a copy of the client using a different timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

// Send opens a connection, sends cmd, reads one response and closes.
func (c *Client) Send(ctx context.Context, cmd protocol.Command) (protocol.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socket)
	if err != nil {
		if isAbsent(err) {
			return protocol.Response{}, ErrDaemonNotRunning
		}
		return protocol.Response{}, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req, err := protocol.EncodeRequest(cmd)
	if err != nil {
		return protocol.Response{}, err
	}
	if _, err := conn.Write(req); err != nil {
		return protocol.Response{}, fmt.Errorf("failed to send %s: %w", cmd, err)
	}

	data, err := readResponse(conn)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("failed to read response to %s: %w", cmd, err)
	}

	resp, err := protocol.DecodeResponse(data)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("invalid response to %s: %w", cmd, err)
	}
	return resp, nil
}

// Status is shorthand for Send(ctx, protocol.Status).
func (c *Client) Status(ctx context.Context) (protocol.Response, error) {
	return c.Send(ctx, protocol.Status)
}

// readResponse reads up to MaxMessageSize bytes, stopping at the delimiter or EOF.
func readResponse(r io.Reader) ([]byte, error) {
	buf := make([]byte, 0, protocol.MaxMessageSize)
	chunk := make([]byte, 512)
	for len(buf) < protocol.MaxMessageSize {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if n > 0 && chunk[n-1] == protocol.Delimiter {
			return buf, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}
	}
	return buf, nil
}

// isAbsent reports whether a dial error means nothing is listening.
func isAbsent(err error) bool {
	return errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, os.ErrNotExist)
}
