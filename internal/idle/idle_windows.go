//go:build windows

package idle

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

// lastInputInfo mirrors LASTINPUTINFO.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func platformDuration() (time.Duration, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return 0, fmt.Errorf("GetLastInputInfo unavailable: %w", err)
	}
	if err := procGetTickCount.Find(); err != nil {
		return 0, fmt.Errorf("GetTickCount unavailable: %w", err)
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	ret, _, callErr := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 0, fmt.Errorf("GetLastInputInfo failed: %w", callErr)
	}
	tick, _, _ := procGetTickCount.Call()

	// Both counters wrap every ~49.7 days; uint32 subtraction absorbs one wrap.
	elapsed := uint32(tick) - info.dwTime
	return time.Duration(elapsed) * time.Millisecond, nil
}
