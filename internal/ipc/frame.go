package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	maxRequestBytes  = 4 * 1024
	maxResponseBytes = 4 * 1024
)

// readFrame reads one newline-terminated frame. reader must be sized to
// maxBytes+1 so an oversized frame fills the buffer. Data without a trailing
// newline is returned when the peer closes.
func readFrame(reader *bufio.Reader, maxBytes int) ([]byte, error) {
	raw, err := reader.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxBytes)
	}
	if errors.Is(err, io.EOF) {
		if len(raw) == 0 {
			return nil, io.EOF
		}
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func writeFrame(w io.Writer, raw []byte) error {
	if _, err := w.Write(append(raw, '\n')); err != nil {
		return err
	}
	return nil
}
