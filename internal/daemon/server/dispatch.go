package server

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = time.Second
)

// handleConn serves exactly one request on conn and always closes it.
func (s *Server) handleConn(conn net.Conn) {
	logger := s.logger.With(zap.String("conn_id", uuid.NewString()))
	logger.Debug("connection accepted")

	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in connection handler",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	data, err := readMessage(conn)
	if err != nil {
		logger.Debug("read failed", zap.Error(err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		// Nothing was sent; there is nobody to answer.
		return
	}

	var resp protocol.Response
	cmd, err := protocol.DecodeRequest(data)
	if err != nil {
		logger.Warn("invalid message", zap.Int("bytes", len(data)))
		resp = protocol.InvalidMessage()
	} else {
		resp = s.engine.Apply(cmd)
		logger.Info("command applied",
			zap.String("command", cmd.Name),
			zap.String("status", resp.Status))
	}

	payload, err := protocol.EncodeResponse(resp)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(payload); err != nil {
		logger.Debug("write failed", zap.Error(err))
	}
}

// readMessage reads until the delimiter, EOF, or MaxMessageSize bytes.
// Whatever was read is returned even when the read ends in an error.
func readMessage(r io.Reader) ([]byte, error) {
	br := bufio.NewReaderSize(io.LimitReader(r, protocol.MaxMessageSize), protocol.MaxMessageSize)
	data, err := br.ReadBytes(protocol.Delimiter)
	if errors.Is(err, io.EOF) {
		return data, nil
	}
	return data, err
}
