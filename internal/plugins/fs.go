package plugins

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chronify/internal/fileutil"
)

const maxTextFileBytes int64 = 8 << 20 // 8MB

// ErrOutsideScope is returned for paths that resolve outside the app data directory.
var ErrOutsideScope = errors.New("path is outside the app data directory")

// FileSystem gives the UI layer file access scoped to one root directory.
// All paths are relative to that root.
type FileSystem struct {
	root string
}

// NewFileSystem creates a FileSystem rooted at root.
func NewFileSystem(root string) *FileSystem {
	return &FileSystem{root: filepath.Clean(root)}
}

// AppDataDir returns the scope root.
func (f *FileSystem) AppDataDir() string {
	return f.root
}

// Exists reports whether rel exists inside the scope.
func (f *FileSystem) Exists(rel string) (bool, error) {
	path, err := f.resolve(rel)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Mkdir creates rel and any missing parents.
func (f *FileSystem) Mkdir(rel string) error {
	path, err := f.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("mkdir %q: %w", rel, err)
	}
	return nil
}

// ReadTextFile returns the contents of rel.
func (f *FileSystem) ReadTextFile(rel string) (string, error) {
	path, err := f.resolve(rel)
	if err != nil {
		return "", err
	}
	raw, err := fileutil.ReadLimited(path, maxTextFileBytes)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rel, err)
	}
	return string(raw), nil
}

// WriteTextFile atomically replaces rel with contents.
func (f *FileSystem) WriteTextFile(rel string, contents string) error {
	path, err := f.resolve(rel)
	if err != nil {
		return err
	}
	if int64(len(contents)) > maxTextFileBytes {
		return fmt.Errorf("write %q: %w", rel, fileutil.ErrTooLarge)
	}
	if err := fileutil.AtomicWrite(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("write %q: %w", rel, err)
	}
	return nil
}

func (f *FileSystem) resolve(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", errors.New("path is required")
	}
	if filepath.IsAbs(trimmed) || filepath.VolumeName(trimmed) != "" {
		return "", fmt.Errorf("%w: %q is absolute", ErrOutsideScope, rel)
	}
	joined := filepath.Join(f.root, trimmed)
	if !fileutil.PathWithinDir(joined, f.root) {
		return "", fmt.Errorf("%w: %q", ErrOutsideScope, rel)
	}
	return joined, nil
}
