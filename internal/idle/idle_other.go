//go:build !windows && !linux && !darwin

package idle

import "time"

func platformDuration() (time.Duration, error) {
	return 0, ErrUnsupported
}
