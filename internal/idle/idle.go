// Package idle reports how long the user has been away from keyboard and mouse.
package idle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupported is returned on platforms without an idle-time backend.
var ErrUnsupported = errors.New("idle time is not supported on this platform")

// Source measures the time since the last user input.
type Source func() (time.Duration, error)

// Duration returns the time since the last keyboard or mouse input.
func Duration() (time.Duration, error) {
	return platformDuration()
}

// Milliseconds queries source and returns whole milliseconds. Any failure
// yields 0, so callers never see an error.
func Milliseconds(source Source) uint64 {
	if source == nil {
		return 0
	}
	d, err := source()
	if err != nil {
		slog.Debug("[idle] idle time unavailable", "error", err)
		return 0
	}
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

const hidIdleTimeKey = `"HIDIdleTime"`

// parseHIDIdleTime extracts HIDIdleTime (nanoseconds) from `ioreg -c IOHIDSystem` output.
func parseHIDIdleTime(out []byte) (time.Duration, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, hidIdleTimeKey)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len(hidIdleTimeKey):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
		ns, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime %q: %w", rest, err)
		}
		return time.Duration(ns), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("HIDIdleTime not found in ioreg output")
}
