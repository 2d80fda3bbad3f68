package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultRWTimeout   = 5 * time.Second
)

var dialEndpointFn = dialEndpoint

// Send delivers one request and waits for its response. An empty endpoint
// selects DefaultEndpoint().
func Send(endpoint string, req Request) (Response, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}

	conn, err := dialEndpointFn(endpoint, defaultDialTimeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(defaultRWTimeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	raw, err := encodeRequest(req)
	if err != nil {
		return Response{}, err
	}
	if err := writeFrame(conn, raw); err != nil {
		return Response{}, err
	}

	respRaw, err := readFrame(bufio.NewReaderSize(conn, maxResponseBytes+1), maxResponseBytes)
	if err != nil {
		return Response{}, err
	}
	resp, err := decodeResponse(respRaw)
	if err != nil {
		return Response{}, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}

// Activate asks the running instance to show its window.
func Activate(endpoint string) error {
	req := NewRequest(CommandActivate)
	resp, err := Send(endpoint, req)
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("activate rejected: %s", resp.Error)
	}
	if resp.RequestID != req.RequestID {
		return fmt.Errorf("activate: response id %q does not match request %q", resp.RequestID, req.RequestID)
	}
	return nil
}

// IsConnectionError reports whether err means no server is listening.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "open"
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op == "open"
	}
	return errors.Is(err, os.ErrNotExist)
}
