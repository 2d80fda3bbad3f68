//go:build !windows

package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chronify/internal/userutil"
)

const endpointEnvVar = "CHRONIFY_SOCKET"

// DefaultEndpoint returns the per-user Unix socket path under
// XDG_RUNTIME_DIR, or the temp directory when that is unset. CHRONIFY_SOCKET
// overrides it with an absolute path.
func DefaultEndpoint() string {
	if v := strings.TrimSpace(os.Getenv(endpointEnvVar)); v != "" {
		if filepath.IsAbs(v) {
			return filepath.Clean(v)
		}
		slog.Warn("[ipc] "+endpointEnvVar+" rejected: path must be absolute", "value", v)
	}
	dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chronify-"+userutil.CurrentUsername()+".sock")
}

// listenEndpoint binds a Unix socket readable only by the current user. A
// leftover socket file from a crashed instance is removed when nothing
// answers on it.
func listenEndpoint(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	if _, err := os.Lstat(path); err == nil {
		conn, dialErr := net.DialTimeout("unix", path, 200*time.Millisecond)
		if dialErr == nil {
			conn.Close()
			return nil, fmt.Errorf("socket %s is in use", path)
		}
		slog.Debug("[ipc] removing stale socket", "path", path, "error", dialErr)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}
	return listener, nil
}

func dialEndpoint(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}
