// Package ipc carries activation requests from a second launch to the
// running instance over a per-user local endpoint.
package ipc

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Commands understood by the server.
const (
	CommandActivate = "activate"
	CommandPing     = "ping"
)

// Request is one newline-delimited JSON request.
type Request struct {
	Command   string `json:"command"`
	RequestID string `json:"request_id"`
}

// Response answers exactly one Request.
type Response struct {
	RequestID string `json:"request_id,omitempty"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// Handler serves one decoded request.
type Handler interface {
	Handle(req Request) Response
}

// HandlerFunc adapts a function into Handler.
type HandlerFunc func(req Request) Response

func (f HandlerFunc) Handle(req Request) Response {
	return f(req)
}

// NewRequest builds a request with a fresh request id.
func NewRequest(command string) Request {
	return Request{Command: command, RequestID: uuid.NewString()}
}

// OKResponse acknowledges req.
func OKResponse(req Request) Response {
	return Response{RequestID: req.RequestID, OK: true}
}

// ErrorResponse rejects req with message.
func ErrorResponse(req Request, message string) Response {
	return Response{RequestID: req.RequestID, Error: message}
}

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	req.Command = strings.TrimSpace(req.Command)
	if req.Command == "" {
		return Request{}, errors.New("command is required")
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
