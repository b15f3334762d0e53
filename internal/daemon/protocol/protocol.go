// Package protocol defines the newline-delimited JSON messages exchanged
// between the drb CLI and the daemon over the Unix socket.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Delimiter terminates every message on the wire.
const Delimiter = '\n'

// MaxMessageSize bounds a single request or response.
const MaxMessageSize = 4096

// Status values carried in Response.Status.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Kind identifies a command from the fixed vocabulary.
type Kind int

const (
	KindUnknown Kind = iota
	KindShow
	KindHide
	KindAgentStop
	KindStatus
	KindStop
)

var kindNames = map[string]Kind{
	"show":       KindShow,
	"hide":       KindHide,
	"agent-stop": KindAgentStop,
	"status":     KindStatus,
	"stop":       KindStop,
}

// Command is a decoded command. Name keeps the wire spelling so unknown
// commands can be echoed back.
type Command struct {
	Kind Kind
	Name string
}

// ParseCommand maps a wire name onto the vocabulary. Matching is exact and case-sensitive.
func ParseCommand(name string) Command {
	return Command{Kind: kindNames[name], Name: name}
}

// Convenience values for callers that build commands directly.
var (
	Show      = ParseCommand("show")
	Hide      = ParseCommand("hide")
	AgentStop = ParseCommand("agent-stop")
	Status    = ParseCommand("status")
	Stop      = ParseCommand("stop")
)

func (c Command) String() string { return c.Name }

// Request is the message a client sends.
type Request struct {
	Command string `json:"command"`
}

// Response is the message the daemon sends back.
type Response struct {
	Status  string `json:"status"`
	Agents  *int   `json:"agents,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the response carries status "ok".
func (r Response) OK() bool { return r.Status == StatusOK }

// AgentCount returns the agents field, or 0 when absent.
func (r Response) AgentCount() int {
	if r.Agents == nil {
		return 0
	}
	return *r.Agents
}

// IsVisible returns the visible field, or false when absent.
func (r Response) IsVisible() bool {
	return r.Visible != nil && *r.Visible
}

// ErrInvalidMessage is returned for input that is not a JSON object with a string command field.
var ErrInvalidMessage = errors.New("invalid message")

// InvalidMessage is the response to malformed input.
func InvalidMessage() Response {
	return Response{Status: StatusError, Message: "Invalid message"}
}

// UnknownCommand is the response to a command outside the vocabulary.
func UnknownCommand(name string) Response {
	return Response{Status: StatusError, Message: "Unknown command: " + name}
}

// DecodeRequest parses one framed request. Surrounding whitespace and the
// trailing delimiter are ignored.
func DecodeRequest(data []byte) (Command, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil || raw == nil {
		return Command{}, ErrInvalidMessage
	}
	field, ok := raw["command"]
	if !ok {
		return Command{}, ErrInvalidMessage
	}
	var name string
	if err := json.Unmarshal(field, &name); err != nil {
		return Command{}, ErrInvalidMessage
	}
	return ParseCommand(name), nil
}

// EncodeRequest frames a request for the wire.
func EncodeRequest(cmd Command) ([]byte, error) {
	return encode(Request{Command: cmd.Name})
}

// EncodeResponse frames a response for the wire.
func EncodeResponse(resp Response) ([]byte, error) {
	return encode(resp)
}

// DecodeResponse parses one framed response.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(data), &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, Delimiter), nil
}

// IntPtr and BoolPtr help build optional response fields.
func IntPtr(n int) *int    { return &n }
func BoolPtr(b bool) *bool { return &b }
