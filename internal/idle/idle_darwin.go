//go:build darwin

package idle

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

const ioregTimeout = time.Second

var ioregOutputFn = func(ctx context.Context) ([]byte, error) {
	return exec.CommandContext(ctx, "/usr/sbin/ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
}

func platformDuration() (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ioregTimeout)
	defer cancel()

	out, err := ioregOutputFn(ctx)
	if err != nil {
		return 0, fmt.Errorf("run ioreg: %w", err)
	}
	return parseHIDIdleTime(out)
}
