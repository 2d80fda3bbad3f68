//go:build !darwin

package reopen

// Install is a no-op; later launches reach the running instance through
// the activation pipe instead.
func Install(func()) bool { return false }
