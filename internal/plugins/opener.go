// Package plugins exposes the opener, filesystem and notification services
// the UI layer binds to.
package plugins

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/browser"
)

var allowedURLSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

var (
	browserOpenURLFn  = browser.OpenURL
	browserOpenFileFn = browser.OpenFile
)

// Opener hands URLs and files to the OS default handler.
type Opener struct{}

// NewOpener creates an Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// OpenURL opens an http, https or mailto URL in the default handler.
func (o *Opener) OpenURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if !allowedURLSchemes[scheme] {
		return fmt.Errorf("url scheme %q is not allowed", parsed.Scheme)
	}
	if scheme != "mailto" && parsed.Host == "" {
		return fmt.Errorf("url %q has no host", trimmed)
	}
	if err := browserOpenURLFn(parsed.String()); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	slog.Debug("[opener] url opened", "scheme", scheme, "host", parsed.Host)
	return nil
}

// OpenPath opens an existing file or directory with its default application.
func (o *Opener) OpenPath(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return errors.New("path is required")
	}
	if _, err := os.Stat(trimmed); err != nil {
		return fmt.Errorf("open path: %w", err)
	}
	if err := browserOpenFileFn(trimmed); err != nil {
		return fmt.Errorf("open path: %w", err)
	}
	return nil
}
